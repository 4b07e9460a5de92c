package strokefit

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestSmoothZigzag(t *testing.T) {
	got, err := Smooth("M0,0 L40,60 L-50,90 L0,200", DefaultSmoothOptions)
	if err != nil {
		t.Fatal(err)
	}
	want := "M0,0 L40,60 L-50,90 L0,200 Z"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSmoothRefitsCurves(t *testing.T) {
	// two arches forming a closed lens
	const d = "M0,0 C0,50 100,50 100,0 C100,-50 0,-50 0,0 Z"
	arches := []CubicBez{
		{Pt(0, 0), Pt(0, 50), Pt(100, 50), Pt(100, 0)},
		{Pt(100, 0), Pt(100, -50), Pt(0, -50), Pt(0, 0)},
	}
	got, err := Smooth(d, DefaultSmoothOptions)
	if err != nil {
		t.Fatal(err)
	}
	if got == d {
		t.Fatalf("curves were passed through unchanged: %q", got)
	}
	p := MustParseSVG(got)
	if p[0] != MoveTo(Pt(0, 0)) {
		t.Errorf("got start %v", p[0])
	}
	if p[len(p)-1] != ClosePath() {
		t.Errorf("subpath not closed: %q", got)
	}
	if len(p) < 10 {
		t.Errorf("got only %d commands for two flattened arches", len(p))
	}
	for _, el := range p {
		pt, ok := el.EndPoint()
		if !ok {
			continue
		}
		best := math.Inf(1)
		for _, c := range arches {
			for i := range 1001 {
				best = min(best, pt.Distance(c.Eval(float64(i)/1000)))
			}
		}
		if best > 0.2 {
			t.Errorf("vertex %s is %g away from the input curve", pt, best)
		}
	}
}

func TestSmoothQuad(t *testing.T) {
	got, err := Smooth("M0,0 Q50,100 100,0", DefaultSmoothOptions)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "Q") {
		t.Errorf("quadratic was passed through: %q", got)
	}
	q := QuadBez{Pt(0, 0), Pt(50, 100), Pt(100, 0)}
	for _, el := range MustParseSVG(got) {
		pt, ok := el.EndPoint()
		if !ok {
			continue
		}
		best := math.Inf(1)
		for i := range 1001 {
			best = min(best, pt.Distance(q.Eval(float64(i)/1000)))
		}
		if best > 0.2 {
			t.Errorf("vertex %s is %g away from the input curve", pt, best)
		}
	}
}

func TestSmoothArc(t *testing.T) {
	var sb strings.Builder
	const n = 200
	for i := range n {
		th := math.Pi * float64(i) / (n - 1)
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&sb, "%s%.3f,%.3f ", cmd, 50*math.Cos(th), 50*math.Sin(th))
	}
	got, err := Smooth(sb.String(), DefaultSmoothOptions)
	if err != nil {
		t.Fatal(err)
	}
	p := MustParseSVG(got)
	if len(p) >= n/2 {
		t.Errorf("smoothing kept %d of %d commands", len(p), n)
	}
	if p[0] != MoveTo(Pt(50, 0)) {
		t.Errorf("got start %v", p[0])
	}
	if p[len(p)-1] != ClosePath() {
		t.Errorf("got last element %v", p[len(p)-1])
	}
	last, _ := p[len(p)-2].EndPoint()
	if last != Pt(-50, 0) {
		t.Errorf("got end %v", last)
	}
	if !strings.Contains(got, "C") {
		t.Errorf("expected cubic commands in %q", got)
	}
}

func TestSmoothFloorsVertices(t *testing.T) {
	got, err := Smooth("M0.019,0.011 L10.999,-0.001", DefaultSmoothOptions)
	if err != nil {
		t.Fatal(err)
	}
	want := "M0.01,0.01 L10.99,-0.01 Z"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSmoothSubpaths(t *testing.T) {
	got, err := Smooth("M0,0 L10,0 M5,5 M20,0 L30,0 L30,10", DefaultSmoothOptions)
	if err != nil {
		t.Fatal(err)
	}
	want := "M0,0 L10,0 Z M20,0 L30,0 L30,10 Z"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSmoothTransform(t *testing.T) {
	opts := DefaultSmoothOptions
	opts.Transform = RotateAbout(math.Pi/2, Pt(5, 0))
	got, err := Smooth("M0,0 L10,0", opts)
	if err != nil {
		t.Fatal(err)
	}
	want := "M5,-5 L5,5 Z"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSmoothInvalid(t *testing.T) {
	if _, err := Smooth("M0,0 A1,1 0 0 0 5,5", DefaultSmoothOptions); err == nil {
		t.Error("expected error for arc")
	}
}

func TestQuadRaise(t *testing.T) {
	q := QuadBez{Pt(0, 0), Pt(30, 60), Pt(90, 0)}
	c := q.Raise()
	for i := range 11 {
		tt := float64(i) / 10
		if d := q.Eval(tt).Distance(c.Eval(tt)); d > 1e-9 {
			t.Errorf("t=%g: raised cubic is %g off", tt, d)
		}
	}
}
