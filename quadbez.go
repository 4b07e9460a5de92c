package strokefit

import "iter"

// QuadBez is a quadratic Bézier segment, as produced by Q and T commands.
type QuadBez struct {
	P0 Point
	P1 Point
	P2 Point
}

// Raise raises the order by 1, returning a cubic Bézier segment that exactly
// represents the quadratic.
func (q QuadBez) Raise() CubicBez {
	return CubicBez{
		q.P0,
		q.P0.Translate(q.P1.Sub(q.P0).Mul(2.0 / 3.0)),
		q.P2.Translate(q.P1.Sub(q.P2).Mul(2.0 / 3.0)),
		q.P2,
	}
}

func (q QuadBez) Eval(t float64) Point {
	mt := 1.0 - t
	v := Vec2(q.P0).Mul(mt * mt).
		Add(Vec2(q.P1).Mul(mt * 2.0).Add(Vec2(q.P2).Mul(t)).Mul(t))
	return Point(v)
}

// Flatten is like [CubicBez.Flatten] for the raised quadratic.
func (q QuadBez) Flatten(tolerance float64) iter.Seq[Point] {
	return q.Raise().Flatten(tolerance)
}
