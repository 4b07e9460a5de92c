package strokefit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitPath converts the samples of a freehand stroke into path segments by
// connecting consecutive samples with straight lines.
//
// For n ≥ 2 samples the result has exactly n−1 [LineKind] segments, the
// first starting at points[0] and the last ending at points[n−1]. Fewer than
// two samples are not a stroke and yield nil; use [FitPathChecked] to get an
// error instead. FitPath is a pure function and safe for concurrent use.
//
// See [FitCurves] for a fitter that replaces runs of samples with cubic
// Béziers.
func FitPath(points []Point) []PathSegment {
	if len(points) < 2 {
		return nil
	}
	segs := make([]PathSegment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		segs = append(segs, Line{points[i-1], points[i]}.Seg())
	}
	return segs
}

// FitPathChecked is like [FitPath] but reports strokes with fewer than two
// samples or with non-finite coordinates as errors.
func FitPathChecked(points []Point) ([]PathSegment, error) {
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	return FitPath(points), nil
}

func validatePoints(points []Point) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i, pt := range points {
		if pt.IsNaN() || pt.IsInf() {
			return fmt.Errorf("%w: sample %d is %s", ErrInvalidPoint, i, pt)
		}
	}
	return nil
}

// FitOptions controls [FitCurves]. The zero value is not useful; start from
// [DefaultFitOptions].
type FitOptions struct {
	// CornerAngle is the turning angle, in radians, between consecutive
	// sample steps above which the stroke is cut into separate runs.
	CornerAngle float64
	// The stroke is cut into runs no longer than
	// min(TotalLength/LengthDivisor, MaxRunLength).
	LengthDivisor float64
	MaxRunLength  float64
	// ErrorDivisor derives a run's tolerance from its length. The tolerance
	// bounds the squared distance between a sample and the fitted curve.
	ErrorDivisor float64
	// MaxIterations is the number of Newton-Raphson reparameterization
	// rounds tried before a run is split.
	MaxIterations int
	// TotalLength overrides the measured length of the stroke when it is
	// positive, as done when the samples come from flattening an existing
	// path of known length.
	TotalLength float64
}

// DefaultFitOptions are the values the editor's pen tool uses.
var DefaultFitOptions = FitOptions{
	CornerAngle:   math.Pi / 3,
	LengthDivisor: 30,
	MaxRunLength:  200,
	ErrorDivisor:  30,
	MaxIterations: 4,
}

// Validate reports whether the options can drive a fit.
func (o FitOptions) Validate() error {
	switch {
	case !(o.CornerAngle > 0) || o.CornerAngle > math.Pi:
		return fmt.Errorf("%w: corner angle %g not in (0, π]", ErrInvalidOptions, o.CornerAngle)
	case !(o.LengthDivisor > 0):
		return fmt.Errorf("%w: length divisor %g must be positive", ErrInvalidOptions, o.LengthDivisor)
	case !(o.MaxRunLength > 0):
		return fmt.Errorf("%w: max run length %g must be positive", ErrInvalidOptions, o.MaxRunLength)
	case !(o.ErrorDivisor > 0):
		return fmt.Errorf("%w: error divisor %g must be positive", ErrInvalidOptions, o.ErrorDivisor)
	case o.MaxIterations < 0:
		return fmt.Errorf("%w: negative iteration count %d", ErrInvalidOptions, o.MaxIterations)
	case o.TotalLength < 0 || math.IsNaN(o.TotalLength):
		return fmt.Errorf("%w: total length %g", ErrInvalidOptions, o.TotalLength)
	}
	return nil
}

// FitCurves approximates a freehand stroke with lines and cubic Béziers
// using least-squares fitting.
//
// The stroke is first cut into runs at sharp corners and wherever a run
// would grow longer than the allowed run length. Runs of up to four samples
// are kept as lines. Longer runs are fitted with a single cubic whose end
// tangents follow the samples; if the fit is off by more than the run's
// tolerance the parameterization is refined by Newton-Raphson iteration and,
// failing that, the run is split at its worst sample and both halves are
// fitted recursively.
//
// Like [FitPath], the result is continuous, starts at points[0] and ends at
// points[n−1]. Short strokes such as four non-collinear samples produce the
// same lines as FitPath.
func FitCurves(points []Point, opts FitOptions) ([]PathSegment, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}
	f := curveFitter{pts: points, opts: opts}
	f.fitStroke()
	return f.out, nil
}

// curveFitter holds the state of one FitCurves call.
type curveFitter struct {
	pts  []Point
	opts FitOptions
	out  []PathSegment
}

func polylineLength(points []Point) float64 {
	var l float64
	for i := 1; i < len(points); i++ {
		l += points[i].Distance(points[i-1])
	}
	return l
}

func (f *curveFitter) fitStroke() {
	pts := f.pts
	last := len(pts) - 1

	total := f.opts.TotalLength
	if total <= 0 {
		total = polylineLength(pts)
	}
	allowed := min(total/f.opts.LengthDivisor, f.opts.MaxRunLength)

	start := 0
	// the first step is compared against the chord from the end back to
	// the start
	dir := pts[0].Sub(pts[last])
	var runLength float64
	for i := 1; i <= last; i++ {
		step := pts[i].Sub(pts[i-1])
		dist := step.Hypot()
		if runLength+dist >= allowed || dir.AngleTo(step) > f.opts.CornerAngle {
			if start != i-1 {
				f.fitRun(start, i-1, f.leftTangent(start), f.rightTangent(i-1), runLength/f.opts.ErrorDivisor)
			}
			start = i - 1
			runLength = 0
		}
		runLength += dist
		dir = step
	}
	f.fitRun(start, last, f.leftTangent(start), f.rightTangent(last), runLength/f.opts.ErrorDivisor)
}

func (f *curveFitter) leftTangent(i int) Vec2 {
	return f.pts[i+1].Sub(f.pts[i]).Normalize()
}

func (f *curveFitter) rightTangent(i int) Vec2 {
	return f.pts[i-1].Sub(f.pts[i]).Normalize()
}

// centerTangent points from sample i back along the stroke.
func (f *curveFitter) centerTangent(i int) Vec2 {
	v1 := f.pts[i-1].Sub(f.pts[i])
	v2 := f.pts[i].Sub(f.pts[i+1])
	return v1.Add(v2).Mul(0.5).Normalize()
}

// fitRun fits samples start through end, inclusive. tol bounds the squared
// distance of every sample from the fitted curve.
func (f *curveFitter) fitRun(start, end int, tan1, tan2 Vec2, tol float64) {
	n := end - start + 1
	if n < 2 {
		return
	}
	if n <= 4 {
		for i := start; i < end; i++ {
			f.out = append(f.out, Line{f.pts[i], f.pts[i+1]}.Seg())
		}
		return
	}

	u := f.chordLengthParameterize(start, end)
	bez := f.generateBezier(start, end, u, tan1, tan2)
	maxErr, split := f.maxError(start, end, bez, u)
	if maxErr < tol {
		f.out = append(f.out, bez.Seg())
		return
	}

	iterTol := math.Sqrt(tol)
	if tol > 1 {
		iterTol = tol * tol
	}
	if maxErr < iterTol {
		for range f.opts.MaxIterations {
			u = f.reparameterize(start, end, bez, u)
			bez = f.generateBezier(start, end, u, tan1, tan2)
			maxErr, split = f.maxError(start, end, bez, u)
			if maxErr < tol {
				f.out = append(f.out, bez.Seg())
				return
			}
		}
	}

	center := f.centerTangent(split)
	f.fitRun(start, split, tan1, center, tol)
	f.fitRun(split, end, center.Negate(), tan2, tol)
}

// chordLengthParameterize assigns each sample a parameter proportional to
// its distance along the polyline.
func (f *curveFitter) chordLengthParameterize(start, end int) []float64 {
	u := make([]float64, end-start+1)
	for i := start + 1; i <= end; i++ {
		u[i-start] = u[i-start-1] + f.pts[i].Distance(f.pts[i-1])
	}
	total := u[len(u)-1]
	for i := range u {
		if total > 0 {
			u[i] /= total
		} else {
			u[i] = 0
		}
	}
	return u
}

func bernstein(t float64) (b0, b1, b2, b3 float64) {
	mt := 1 - t
	return mt * mt * mt, 3 * t * mt * mt, 3 * t * t * mt, t * t * t
}

// generateBezier finds the cubic with endpoints pts[start] and pts[end] and
// end tangents tan1 and tan2 that best fits the samples at parameters u in
// the least-squares sense. The unknowns are the distances of the two inner
// control points from their endpoints.
func (f *curveFitter) generateBezier(start, end int, u []float64, tan1, tan2 Vec2) CubicBez {
	p0, p3 := f.pts[start], f.pts[end]

	var c00, c01, c11, x0, x1 float64
	for i, t := range u {
		b0, b1, b2, b3 := bernstein(t)
		a0 := tan1.Mul(b1)
		a1 := tan2.Mul(b2)
		c00 += a0.Dot(a0)
		c01 += a0.Dot(a1)
		c11 += a1.Dot(a1)
		base := Vec2(p0).Mul(b0 + b1).Add(Vec2(p3).Mul(b2 + b3))
		tmp := Vec2(f.pts[start+i]).Sub(base)
		x0 += a0.Dot(tmp)
		x1 += a1.Dot(tmp)
	}

	alphaL, alphaR, ok := solveAlphas(c00, c01, c11, x0, x1)
	if !ok || alphaL < 1e-6 || alphaR < 1e-6 {
		// Fall back to control points a third of the chord along the
		// tangents.
		d := p0.Distance(p3) / 3
		return CubicBez{p0, p0.Translate(tan1.Mul(d)), p3.Translate(tan2.Mul(d)), p3}
	}
	return CubicBez{p0, p0.Translate(tan1.Mul(alphaL)), p3.Translate(tan2.Mul(alphaR)), p3}
}

// solveAlphas solves the 2×2 normal equations
//
//	| c00 c01 | |αL|   |x0|
//	| c01 c11 | |αR| = |x1|
//
// reporting false if the system is singular or ill-conditioned.
func solveAlphas(c00, c01, c11, x0, x1 float64) (float64, float64, bool) {
	if c00*c11-c01*c01 == 0 {
		return 0, 0, false
	}
	c := mat.NewSymDense(2, []float64{c00, c01, c01, c11})
	x := mat.NewVecDense(2, []float64{x0, x1})
	var alpha mat.VecDense
	if err := alpha.SolveVec(c, x); err != nil {
		return 0, 0, false
	}
	return alpha.AtVec(0), alpha.AtVec(1), true
}

// reparameterize improves each sample's parameter with one Newton-Raphson
// step towards the closest point on bez.
func (f *curveFitter) reparameterize(start, end int, bez CubicBez, u []float64) []float64 {
	out := make([]float64, len(u))
	for i := start; i <= end; i++ {
		out[i-start] = newtonRaphsonRoot(bez, f.pts[i], u[i-start])
	}
	return out
}

// newtonRaphsonRoot refines t so that bez(t) is closer to the foot of the
// perpendicular from pt, keeping t in [0, 1].
func newtonRaphsonRoot(bez CubicBez, pt Point, t float64) float64 {
	d := bez.Eval(t).Sub(pt)
	d1 := bez.Deriv(t)
	d2 := bez.Deriv2(t)
	num := d.Dot(d1)
	den := d1.Dot(d1) + d.Dot(d2)
	if den == 0 || math.IsNaN(den) {
		return t
	}
	return max(0, min(1, t-num/den))
}

// maxError returns the largest squared distance between an interior sample
// and its point on bez, and the index of that sample.
func (f *curveFitter) maxError(start, end int, bez CubicBez, u []float64) (float64, int) {
	split := start + (end-start)/2
	var maxErr float64
	for i := start + 1; i < end; i++ {
		d := bez.Eval(u[i-start]).DistanceSquared(f.pts[i])
		if d > maxErr {
			maxErr = d
			split = i
		}
	}
	return maxErr, split
}

// FitMode selects the algorithm used by a [Fitter].
type FitMode int

const (
	// ModeLinear keeps every sample, see [FitPath].
	ModeLinear FitMode = iota
	// ModeBezier fits cubic Béziers, see [FitCurves].
	ModeBezier
)

func (m FitMode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeBezier:
		return "bezier"
	default:
		return fmt.Sprintf("FitMode(%d)", int(m))
	}
}

// ParseFitMode parses "linear" or "bezier".
func ParseFitMode(s string) (FitMode, error) {
	switch s {
	case "linear":
		return ModeLinear, nil
	case "bezier":
		return ModeBezier, nil
	default:
		return 0, fmt.Errorf("%w: unknown fit mode %q", ErrInvalidOptions, s)
	}
}

// Fitter bundles a fit mode with its options, so that configured fitting can
// be handed to code that only deals in strokes.
type Fitter struct {
	Mode    FitMode
	Options FitOptions
}

// NewFitter returns a fitter for mode using [DefaultFitOptions].
func NewFitter(mode FitMode) Fitter {
	return Fitter{Mode: mode, Options: DefaultFitOptions}
}

// Fit fits a single stroke.
func (f Fitter) Fit(points []Point) ([]PathSegment, error) {
	switch f.Mode {
	case ModeLinear:
		return FitPathChecked(points)
	case ModeBezier:
		return FitCurves(points, f.Options)
	default:
		return nil, fmt.Errorf("%w: unknown fit mode %d", ErrInvalidOptions, int(f.Mode))
	}
}
