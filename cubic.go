package strokefit

import (
	"iter"
	"math"
)

// maxFlattenSteps bounds the number of lines a single cubic flattens to.
const maxFlattenSteps = 1000

type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(c.P0).Mul(mt * mt * mt)
	b := Vec2(c.P1).Mul(mt * mt * 3.0)
	cc := Vec2(c.P2).Mul(mt * 3.0)
	d := Vec2(c.P3)
	v := a.Add(b.Add(cc.Add(d.Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

// Deriv returns the first derivative of the curve at t.
func (c CubicBez) Deriv(t float64) Vec2 {
	mt := 1.0 - t
	d0 := c.P1.Sub(c.P0).Mul(3 * mt * mt)
	d1 := c.P2.Sub(c.P1).Mul(6 * mt * t)
	d2 := c.P3.Sub(c.P2).Mul(3 * t * t)
	return d0.Add(d1).Add(d2)
}

// Deriv2 returns the second derivative of the curve at t.
func (c CubicBez) Deriv2(t float64) Vec2 {
	a := Vec2(c.P2).Sub(Vec2(c.P1).Mul(2)).Add(Vec2(c.P0))
	b := Vec2(c.P3).Sub(Vec2(c.P2).Mul(2)).Add(Vec2(c.P1))
	return a.Mul(6 * (1 - t)).Add(b.Mul(6 * t))
}

func (c CubicBez) Start() Point { return c.P0 }
func (c CubicBez) End() Point   { return c.P3 }

func (c CubicBez) Transform(aff Affine) CubicBez {
	return CubicBez{
		P0: c.P0.Transform(aff),
		P1: c.P1.Transform(aff),
		P2: c.P2.Transform(aff),
		P3: c.P3.Transform(aff),
	}
}

// flattenSteps returns the number of uniform steps needed so that the chords
// stay within tolerance of the curve, using Wang's bound on the second
// differences of the control polygon.
func (c CubicBez) flattenSteps(tolerance float64) int {
	dd0 := Vec2(c.P0).Sub(Vec2(c.P1).Mul(2)).Add(Vec2(c.P2)).Hypot()
	dd1 := Vec2(c.P1).Sub(Vec2(c.P2).Mul(2)).Add(Vec2(c.P3)).Hypot()
	m := max(dd0, dd1)
	if m == 0 || tolerance <= 0 {
		return 1
	}
	n := math.Ceil(math.Sqrt(0.75 * m / tolerance))
	return int(max(1, min(n, maxFlattenSteps)))
}

// Flatten approximates the cubic with a polyline whose distance from the
// curve does not exceed tolerance. The returned sequence yields the points
// following P0, ending in P3.
func (c CubicBez) Flatten(tolerance float64) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		n := c.flattenSteps(tolerance)
		for i := 1; i < n; i++ {
			if !yield(c.Eval(float64(i) / float64(n))) {
				return
			}
		}
		yield(c.P3)
	}
}

// Arclen returns the length of the cubic, measured on a polyline within
// accuracy of the curve.
func (c CubicBez) Arclen(accuracy float64) float64 {
	var l float64
	prev := c.P0
	for pt := range c.Flatten(accuracy) {
		l += pt.Distance(prev)
		prev = pt
	}
	return l
}

func (c CubicBez) Seg() PathSegment {
	return PathSegment{Kind: CubicKind, P0: c.P0, P1: c.P1, P2: c.P2, P3: c.P3}
}
