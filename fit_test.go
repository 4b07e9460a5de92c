package strokefit

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

var zigzag = []Point{Pt(0, 0), Pt(40, 60), Pt(-50, 90), Pt(0, 200)}

func TestFitPathZigzag(t *testing.T) {
	want := []PathSegment{
		Line{Pt(0, 0), Pt(40, 60)}.Seg(),
		Line{Pt(40, 60), Pt(-50, 90)}.Seg(),
		Line{Pt(-50, 90), Pt(0, 200)}.Seg(),
	}
	diff(t, want, FitPath(zigzag))
}

func TestFitPathTwoPoints(t *testing.T) {
	got := FitPath([]Point{Pt(1, 2), Pt(3, 4)})
	diff(t, []PathSegment{Line{Pt(1, 2), Pt(3, 4)}.Seg()}, got)
}

func TestFitPathTooFewPoints(t *testing.T) {
	if segs := FitPath(nil); segs != nil {
		t.Errorf("got %v, want nil", segs)
	}
	if segs := FitPath([]Point{Pt(1, 1)}); segs != nil {
		t.Errorf("got %v, want nil", segs)
	}
	if _, err := FitPathChecked([]Point{Pt(1, 1)}); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("got error %v, want ErrTooFewPoints", err)
	}
	if _, err := FitPathChecked([]Point{Pt(1, 1), Pt(math.NaN(), 0)}); !errors.Is(err, ErrInvalidPoint) {
		t.Errorf("got error %v, want ErrInvalidPoint", err)
	}
}

func randomStroke(r *rand.Rand, n int) []Point {
	pts := make([]Point, n)
	pt := Pt(r.Float64()*100, r.Float64()*100)
	for i := range pts {
		pts[i] = pt
		pt = pt.Translate(Vec(r.NormFloat64()*10, r.NormFloat64()*10))
	}
	return pts
}

func checkStroke(t *testing.T, pts []Point, segs []PathSegment) {
	t.Helper()
	if len(segs) == 0 {
		t.Fatal("no segments")
	}
	if got := segs[0].Start(); got != pts[0] {
		t.Errorf("path starts at %s, want %s", got, pts[0])
	}
	if got := segs[len(segs)-1].End(); got != pts[len(pts)-1] {
		t.Errorf("path ends at %s, want %s", got, pts[len(pts)-1])
	}
	if !Continuous(segs) {
		t.Errorf("path has gaps: %v", segs)
	}
}

func TestFitPathProperties(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for n := 2; n < 50; n++ {
		pts := randomStroke(r, n)
		segs := FitPath(pts)
		if len(segs) != n-1 {
			t.Fatalf("%d points: got %d segments, want %d", n, len(segs), n-1)
		}
		for i, seg := range segs {
			if seg.Kind != LineKind {
				t.Errorf("segment %d has kind %s", i, seg.Kind)
			}
		}
		checkStroke(t, pts, segs)
		diff(t, segs, FitPath(pts))
	}
}

func TestFitCurvesZigzag(t *testing.T) {
	got, err := FitCurves(zigzag, DefaultFitOptions)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, FitPath(zigzag), got)
}

func TestFitCurvesTwoPoints(t *testing.T) {
	got, err := FitCurves([]Point{Pt(0, 0), Pt(10, 0)}, DefaultFitOptions)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []PathSegment{Line{Pt(0, 0), Pt(10, 0)}.Seg()}, got)
}

func TestFitCurvesProperties(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for n := 2; n < 200; n += 7 {
		pts := randomStroke(r, n)
		segs, err := FitCurves(pts, DefaultFitOptions)
		if err != nil {
			t.Fatal(err)
		}
		checkStroke(t, pts, segs)
		for _, seg := range segs {
			if seg.IsNaN() {
				t.Fatalf("NaN in %v", seg)
			}
		}
		again, _ := FitCurves(pts, DefaultFitOptions)
		diff(t, segs, again)
	}
}

// distanceToPath returns the distance from pt to the flattened path.
func distanceToPath(pt Point, segs []PathSegment) float64 {
	best := math.Inf(1)
	for _, seg := range segs {
		prev := seg.Start()
		for next := range seg.Flatten(0.01) {
			d, _ := Line{prev, next}.Nearest(pt)
			best = min(best, d)
			prev = next
		}
	}
	return math.Sqrt(best)
}

func TestFitCurvesArc(t *testing.T) {
	const n = 200
	pts := make([]Point, n)
	for i := range pts {
		th := math.Pi / 2 * float64(i) / (n - 1)
		pts[i] = Pt(100*math.Cos(th), 100*math.Sin(th))
	}
	segs, err := FitCurves(pts, DefaultFitOptions)
	if err != nil {
		t.Fatal(err)
	}
	checkStroke(t, pts, segs)
	if len(segs) > n/3 {
		t.Errorf("got %d segments for %d samples, expected far fewer", len(segs), n)
	}
	var cubics int
	for _, seg := range segs {
		if seg.Kind == CubicKind {
			cubics++
		}
	}
	if cubics == 0 {
		t.Error("expected cubic segments")
	}
	for i, pt := range pts {
		if d := distanceToPath(pt, segs); d > 0.5 {
			t.Errorf("sample %d is %g away from the path", i, d)
		}
	}
}

func TestFitCurvesKeepsCorner(t *testing.T) {
	var pts []Point
	for x := 0; x <= 100; x++ {
		pts = append(pts, Pt(float64(x), 0))
	}
	for y := 1; y <= 100; y++ {
		pts = append(pts, Pt(100, float64(y)))
	}
	segs, err := FitCurves(pts, DefaultFitOptions)
	if err != nil {
		t.Fatal(err)
	}
	checkStroke(t, pts, segs)
	corner := Pt(100, 0)
	found := false
	for _, seg := range segs {
		if seg.End() == corner {
			found = true
		}
	}
	if !found {
		t.Errorf("no segment ends at the corner %s: %v", corner, segs)
	}
}

func TestFitCurvesStationaryStroke(t *testing.T) {
	pts := make([]Point, 10)
	for i := range pts {
		pts[i] = Pt(5, 5)
	}
	segs, err := FitCurves(pts, DefaultFitOptions)
	if err != nil {
		t.Fatal(err)
	}
	checkStroke(t, pts, segs)
}

func TestFitOptionsValidate(t *testing.T) {
	if err := DefaultFitOptions.Validate(); err != nil {
		t.Fatal(err)
	}
	bad := []func(*FitOptions){
		func(o *FitOptions) { o.CornerAngle = 0 },
		func(o *FitOptions) { o.CornerAngle = 4 },
		func(o *FitOptions) { o.LengthDivisor = 0 },
		func(o *FitOptions) { o.MaxRunLength = -1 },
		func(o *FitOptions) { o.ErrorDivisor = math.NaN() },
		func(o *FitOptions) { o.MaxIterations = -1 },
		func(o *FitOptions) { o.TotalLength = -1 },
	}
	for i, f := range bad {
		opts := DefaultFitOptions
		f(&opts)
		if err := opts.Validate(); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("case %d: got error %v, want ErrInvalidOptions", i, err)
		}
		if _, err := FitCurves(zigzag, opts); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("case %d: FitCurves accepted invalid options", i)
		}
	}
}

func TestNewtonRaphsonRootConverges(t *testing.T) {
	bez := CubicBez{Pt(0, 0), Pt(30, 60), Pt(70, 60), Pt(100, 0)}
	want := 0.3
	pt := bez.Eval(want)
	got := 0.25
	for range 5 {
		got = newtonRaphsonRoot(bez, pt, got)
	}
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("got t=%g, want %g", got, want)
	}
}

func TestSolveAlphasSingular(t *testing.T) {
	if _, _, ok := solveAlphas(1, 1, 1, 2, 3); ok {
		t.Error("singular system reported as solved")
	}
	a, b, ok := solveAlphas(2, 0, 4, 2, 8)
	if !ok {
		t.Fatal("regular system not solved")
	}
	diff(t, [2]float64{1, 2}, [2]float64{a, b}, cmpopts.EquateApprox(0, 1e-12))
}

func TestFitterModes(t *testing.T) {
	for _, s := range []string{"linear", "bezier"} {
		mode, err := ParseFitMode(s)
		if err != nil {
			t.Fatal(err)
		}
		if mode.String() != s {
			t.Errorf("got %q, want %q", mode, s)
		}
		segs, err := NewFitter(mode).Fit(zigzag)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, FitPath(zigzag), segs)
	}
	if _, err := ParseFitMode("spline"); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("got error %v, want ErrInvalidOptions", err)
	}
	if _, err := (Fitter{Mode: 7}).Fit(zigzag); err == nil {
		t.Error("unknown mode accepted")
	}
}

func BenchmarkFitCurves(b *testing.B) {
	r := rand.New(rand.NewSource(3))
	for _, n := range []int{10, 100, 1000} {
		pts := randomStroke(r, n)
		b.Run(fmt.Sprintf("%d", n), func(b *testing.B) {
			for range b.N {
				FitCurves(pts, DefaultFitOptions)
			}
		})
	}
}
