package strokefit

import "math"

// SmoothOptions controls [Smooth].
type SmoothOptions struct {
	Fit FitOptions
	SVG SVGOptions
	// Transform is applied to the path before fitting, typically the
	// element's rotation as returned by [RotateAbout]. The zero value is
	// treated as [Identity].
	Transform Affine
	// Tolerance is the maximum distance between a curve and the polyline it
	// is flattened into. Zero means 0.1.
	Tolerance float64
}

// DefaultSmoothOptions round to two decimals and drop lines that collapse
// to a point, matching what the editor writes back into the element.
var DefaultSmoothOptions = SmoothOptions{
	Fit:       DefaultFitOptions,
	SVG:       SVGOptions{MaxPrecision: 2, DropDegenerate: true},
	Transform: Identity,
	Tolerance: 0.1,
}

// Smooth redraws an SVG path with fitted lines and curves.
//
// Every subpath is flattened into a polyline, curves included, and each
// vertex is floored to two decimals. The polyline is then fitted with
// [FitCurves] and closed with Z, whether or not the input subpath was
// closed. On error, d should be kept as is.
func Smooth(d string, opts SmoothOptions) (string, error) {
	p, err := ParseSVG(d)
	if err != nil {
		return "", err
	}
	if opts.Transform != (Affine{}) && !opts.Transform.IsIdentity() {
		p = p.Transform(opts.Transform)
	}
	out, err := SmoothPath(p, opts.Fit, opts.Tolerance)
	if err != nil {
		return "", err
	}
	return out.SVG(opts.SVG), nil
}

// SmoothPath is the [BezPath] form of [Smooth]. Subpaths that flatten to a
// single point are dropped.
func SmoothPath(p BezPath, opts FitOptions, tolerance float64) (BezPath, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !(tolerance > 0) {
		tolerance = 0.1
	}
	var out BezPath
	for sub := range p.Subpaths() {
		pts := flattenSubpath(sub, tolerance)
		if len(pts) < 2 {
			continue
		}
		segs, err := FitCurves(pts, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, PathFromSegments(segs)...)
		out.ClosePath()
	}
	return out, nil
}

// flattenSubpath returns the vertices of the polyline tracing sub, floored
// to 0.01 and without consecutive repeats. ClosePath adds no vertex; the
// closing line is drawn by the Z of the output.
func flattenSubpath(sub BezPath, tolerance float64) []Point {
	var pts []Point
	add := func(pt Point) {
		pt = Pt(floorCents(pt.X), floorCents(pt.Y))
		if len(pts) == 0 || pts[len(pts)-1] != pt {
			pts = append(pts, pt)
		}
	}

	var pen, start Point
	for _, el := range sub {
		if len(pts) == 0 && el.Kind != MoveToKind && el.Kind != ClosePathKind {
			add(pen)
		}
		switch el.Kind {
		case MoveToKind:
			start = el.P0
			add(el.P0)
		case LineToKind:
			add(el.P0)
		case QuadToKind:
			for pt := range (QuadBez{pen, el.P0, el.P1}).Flatten(tolerance) {
				add(pt)
			}
		case CubicToKind:
			for pt := range (CubicBez{pen, el.P0, el.P1, el.P2}).Flatten(tolerance) {
				add(pt)
			}
		case ClosePathKind:
			pen = start
			continue
		}
		pen, _ = el.EndPoint()
	}
	return pts
}

func floorCents(v float64) float64 {
	return math.Floor(100*v) / 100
}
