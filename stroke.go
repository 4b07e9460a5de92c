package strokefit

import (
	"iter"
	"math"
)

// Stroke describes the visual style of a pen stroke. Joins and caps are
// always round.
type Stroke struct {
	// Width of the stroke.
	Width float64
}

type strokeCtx struct {
	yield func(PathElement) bool
	dead  bool
	// forward paths are yielded directly instead of being accumulated like
	// backwardPath is. emittedForward is set to true if any elements have been
	// yielded, and reset to false after a path is completed.
	emittedForward bool
	backwardPath   BezPath
	startPt        Point
	startNorm      Vec2
	startTan       Vec2
	lastPt         Point
	lastTan        Vec2
	tolerance      float64
	// If hypot < (hypot + dot) * joinThresh omit join altogether.
	joinThresh float64
}

// StrokePath expands a stroke into a fill.
//
// Curves are flattened within tolerance before they are offset, and
// tolerance also bounds the error of the round joins and caps. Each open
// subpath becomes one closed outline and each closed subpath two, one per
// side. Open outlines are all wound the same way whatever direction the
// stroke was drawn in, so overlapping strokes add up under the nonzero
// fill rule. A tolerance that is not positive means 1e-3.
func StrokePath(path iter.Seq[PathElement], style Stroke, tolerance float64) iter.Seq[PathElement] {
	if !(tolerance > 0) {
		tolerance = 1e-3
	}
	return func(yield func(PathElement) bool) {
		ctx := strokeCtx{
			yield:      yield,
			tolerance:  tolerance,
			joinThresh: 2.0 * tolerance / style.Width,
		}
		for el := range path {
			if ctx.dead {
				return
			}
			p0 := ctx.lastPt
			switch el.Kind {
			case MoveToKind:
				ctx.finish()
				ctx.startPt = el.P0
				ctx.lastPt = el.P0
			case LineToKind:
				ctx.lineTo(style, el.P0)
			case QuadToKind:
				for pt := range (QuadBez{p0, el.P0, el.P1}).Flatten(tolerance) {
					ctx.lineTo(style, pt)
				}
			case CubicToKind:
				for pt := range (CubicBez{p0, el.P0, el.P1, el.P2}).Flatten(tolerance) {
					ctx.lineTo(style, pt)
				}
			case ClosePathKind:
				ctx.lineTo(style, ctx.startPt)
				ctx.finishClosed(style)
			}
		}
		ctx.finish()
	}
}

func (ctx *strokeCtx) doYield(el PathElement) {
	if ctx.dead {
		return
	}
	ctx.dead = !ctx.yield(el)
	ctx.emittedForward = true
}

func (ctx *strokeCtx) lineTo(style Stroke, p1 Point) {
	if p1 == ctx.lastPt {
		return
	}
	tangent := p1.Sub(ctx.lastPt)
	ctx.doJoin(style, tangent)
	ctx.lastTan = tangent
	ctx.doLine(style, tangent, p1)
}

// Append backward path to output.
func (ctx *strokeCtx) finish() {
	if !ctx.emittedForward {
		return
	}
	returnPt, _ := ctx.backwardPath[len(ctx.backwardPath)-1].EndPoint()
	ctx.roundCap(ctx.lastPt, ctx.lastPt.Sub(returnPt))
	ctx.extendReversed(ctx.backwardPath)
	ctx.roundCap(ctx.startPt, ctx.startNorm)
	ctx.doYield(ClosePath())

	ctx.emittedForward = false
	ctx.backwardPath = ctx.backwardPath[:0]
}

// Finish a closed path
func (ctx *strokeCtx) finishClosed(style Stroke) {
	if !ctx.emittedForward {
		return
	}
	ctx.doJoin(style, ctx.startTan)
	ctx.doYield(ClosePath())
	lastPt, _ := ctx.backwardPath[len(ctx.backwardPath)-1].EndPoint()
	ctx.doYield(MoveTo(lastPt))
	ctx.extendReversed(ctx.backwardPath)
	ctx.doYield(ClosePath())
	ctx.emittedForward = false
	ctx.backwardPath = ctx.backwardPath[:0]
}

func (ctx *strokeCtx) doJoin(style Stroke, tan0 Vec2) {
	scale := 0.5 * style.Width / tan0.Hypot()
	norm := Vec(-tan0.Y, tan0.X).Mul(scale)
	p0 := ctx.lastPt
	if !ctx.emittedForward {
		ctx.doYield(MoveTo(p0.Translate(norm.Negate())))
		ctx.backwardPath.MoveTo(p0.Translate(norm))
		ctx.startTan = tan0
		ctx.startNorm = norm
		return
	}
	ab := ctx.lastTan
	cd := tan0
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := math.Hypot(cross, dot)
	if dot > 0.0 && math.Abs(cross) < hypot*ctx.joinThresh {
		return
	}
	angle := math.Atan2(cross, dot)
	if angle > 0.0 {
		ctx.backwardPath.LineTo(p0.Translate(norm))
		ctx.roundJoin(p0, norm, angle)
	} else {
		ctx.doYield(LineTo(p0.Translate(norm.Negate())))
		ctx.roundJoinRev(p0, norm.Negate(), -angle)
	}
}

func (ctx *strokeCtx) doLine(style Stroke, tangent Vec2, p1 Point) {
	scale := 0.5 * style.Width / tangent.Hypot()
	norm := Vec(-tangent.Y, tangent.X).Mul(scale)
	ctx.doYield(LineTo(p1.Translate(norm.Negate())))
	ctx.backwardPath.LineTo(p1.Translate(norm))
	ctx.lastPt = p1
}

func (ctx *strokeCtx) roundCap(center Point, norm Vec2) {
	ctx.roundJoin(center, norm, math.Pi)
}

func (ctx *strokeCtx) roundJoin(center Point, norm Vec2, angle float64) {
	a := Affine{norm.X, norm.Y, -norm.Y, norm.X, center.X, center.Y}
	for el := range unitArc(math.Pi-angle, angle, ctx.tolerance/norm.Hypot()) {
		ctx.doYield(el.Transform(a))
	}
}

func (ctx *strokeCtx) roundJoinRev(center Point, norm Vec2, angle float64) {
	a := Affine{norm.X, norm.Y, norm.Y, -norm.X, center.X, center.Y}
	for el := range unitArc(math.Pi-angle, angle, ctx.tolerance/norm.Hypot()) {
		ctx.backwardPath.Push(el.Transform(a))
	}
}

func (ctx *strokeCtx) extendReversed(elements BezPath) {
	for i := len(elements) - 1; i >= 1; i-- {
		end, _ := elements[i-1].EndPoint()
		el := elements[i]
		switch el.Kind {
		case LineToKind:
			ctx.doYield(LineTo(end))
		case CubicToKind:
			ctx.doYield(CubicTo(el.P1, el.P0, end))
		default:
			panic("unreachable")
		}
	}
}

// unitArc yields the cubics approximating an arc of the unit circle, without
// the initial MoveTo.
func unitArc(start, sweep, tolerance float64) iter.Seq[PathElement] {
	return func(yield func(PathElement) bool) {
		if sweep == 0 {
			return
		}
		// Number of subdivisions per circle based on error tolerance.
		nError := max(math.Pow(1.1163/tolerance, 1.0/6.0), 3.999_999)
		n := math.Ceil(nError * math.Abs(sweep) * (1.0 / (2.0 * math.Pi)))
		angleStep := sweep / n
		armLen := math.Copysign((4.0/3.0)*math.Tan(math.Abs(0.25*angleStep)), sweep)
		angle0 := start
		p0 := unitPoint(angle0)
		for range int(n) {
			angle1 := angle0 + angleStep
			p1 := p0.Add(unitPoint(angle0 + math.Pi/2).Mul(armLen))
			p3 := unitPoint(angle1)
			p2 := p3.Sub(unitPoint(angle1 + math.Pi/2).Mul(armLen))
			if !yield(CubicTo(Point(p1), Point(p2), Point(p3))) {
				return
			}
			angle0 = angle1
			p0 = p3
		}
	}
}

func unitPoint(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{cos, sin}
}
