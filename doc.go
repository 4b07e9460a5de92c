// Package strokefit turns freehand strokes into vector paths.
//
// A stroke is the ordered list of [Point] samples captured between pointer
// down and pointer up. The fitters in this package convert strokes into
// [PathSegment] values, each either a straight line or a cubic Bézier, that
// share their endpoints so that the result can be written out as a single
// SVG path.
//
// # Fitting
//
// [FitPath] is the simplest fitter: it connects consecutive samples with
// lines, so a stroke of n samples becomes n−1 segments. It never fails and
// never moves a sample.
//
// [FitCurves] implements least-squares cubic fitting in the style of
// Schneider's algorithm from Graphics Gems. The stroke is cut into runs at
// corners sharper than [FitOptions.CornerAngle] and wherever a run gets
// too long; every run is then approximated by as few cubics as its
// tolerance allows. Runs of four samples or fewer stay lines.
//
// [Fitter] packages either algorithm with its options.
//
// # Paths
//
// [BezPath] is a list of drawing commands as found in an SVG path's d
// attribute. [ParseSVG] reads path data, [SVG] and [BezPath.SVG] write it,
// and [Smooth] flattens existing path data and refits it with FitCurves,
// which is how the editor's "smooth path" action works. [StrokePath] turns a
// path into the outline of a pen stroke, for rendering.
//
// # Coordinates
//
// Coordinates follow SVG: y grows downwards, and positive rotation angles
// turn clockwise on screen.
//
// # Literature
//
//   - [An Algorithm for Automatically Fitting Digitized Curves] by Philip J. Schneider
//   - [A Primer on Bézier Curves]
//
// [An Algorithm for Automatically Fitting Digitized Curves]: https://dl.acm.org/doi/10.5555/90767.90941
// [A Primer on Bézier Curves]: https://pomax.github.io/bezierinfo/
package strokefit
