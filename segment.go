package strokefit

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

type PathSegmentKind int

const (
	// A line segment.
	LineKind PathSegmentKind = iota + 1
	// A cubic Bézier segment.
	CubicKind
)

// Command returns the SVG path command letter for the kind, 'L' or 'C'.
func (k PathSegmentKind) Command() byte {
	switch k {
	case LineKind:
		return 'L'
	case CubicKind:
		return 'C'
	default:
		return '?'
	}
}

func (k PathSegmentKind) String() string {
	switch k {
	case LineKind:
		return "L"
	case CubicKind:
		return "C"
	default:
		return fmt.Sprintf("PathSegmentKind(%d)", int(k))
	}
}

// KindFromCommand maps an SVG command letter to a segment kind.
func KindFromCommand(cmd string) (PathSegmentKind, bool) {
	switch cmd {
	case "L":
		return LineKind, true
	case "C":
		return CubicKind, true
	default:
		return 0, false
	}
}

// PathSegment is one piece of a fitted stroke. It acts as a tagged union of
// [Line] and [CubicBez]: for LineKind only P0 and P1 are meaningful, for
// CubicKind P0 and P3 are the endpoints and P1 and P2 the control points.
type PathSegment struct {
	Kind PathSegmentKind
	P0   Point
	P1   Point
	P2   Point
	P3   Point
}

// Type returns the segment's command letter as a string, "L" or "C".
func (seg PathSegment) Type() string {
	return seg.Kind.String()
}

// Points returns the segment's points in drawing order: two for a line,
// four for a cubic.
func (seg PathSegment) Points() []Point {
	switch seg.Kind {
	case LineKind:
		return []Point{seg.P0, seg.P1}
	case CubicKind:
		return []Point{seg.P0, seg.P1, seg.P2, seg.P3}
	default:
		return nil
	}
}

// Line returns the line represented by this segment. This is only valid when Kind ==
// LineKind.
func (seg PathSegment) Line() Line { return Line{seg.P0, seg.P1} }

// Cubic converts seg to a cubic Bézier. This is valid for any Kind.
func (seg PathSegment) Cubic() CubicBez {
	switch seg.Kind {
	case LineKind:
		return CubicBez{seg.P0, seg.P0, seg.P1, seg.P1}
	case CubicKind:
		return CubicBez{seg.P0, seg.P1, seg.P2, seg.P3}
	default:
		return CubicBez{}
	}
}

func (seg PathSegment) Start() Point {
	return seg.P0
}

func (seg PathSegment) End() Point {
	switch seg.Kind {
	case LineKind:
		return seg.P1
	case CubicKind:
		return seg.P3
	default:
		return Point{}
	}
}

func (seg PathSegment) Eval(t float64) Point {
	switch seg.Kind {
	case LineKind:
		return seg.Line().Eval(t)
	case CubicKind:
		return seg.Cubic().Eval(t)
	default:
		return Point{}
	}
}

func (seg PathSegment) Arclen(accuracy float64) float64 {
	switch seg.Kind {
	case LineKind:
		return seg.Line().Length()
	case CubicKind:
		return seg.Cubic().Arclen(accuracy)
	default:
		return 0
	}
}

func (seg PathSegment) Transform(aff Affine) PathSegment {
	switch seg.Kind {
	case LineKind:
		return seg.Line().Transform(aff).Seg()
	case CubicKind:
		return seg.Cubic().Transform(aff).Seg()
	default:
		return seg
	}
}

func (seg PathSegment) IsNaN() bool {
	return slices.ContainsFunc(seg.Points(), Point.IsNaN)
}

func (seg PathSegment) String() string {
	return fmt.Sprintf("%s%v", seg.Kind, seg.Points())
}

// Flatten yields the points following seg's start point on a polyline
// within tolerance of the segment.
func (seg PathSegment) Flatten(tolerance float64) iter.Seq[Point] {
	if seg.Kind == CubicKind {
		return seg.Cubic().Flatten(tolerance)
	}
	return func(yield func(Point) bool) {
		yield(seg.End())
	}
}

type jsonSegment struct {
	Type   string  `json:"type"`
	Points []Point `json:"points"`
}

// MarshalJSON encodes the segment as {"type":"L","points":[{"x":..,"y":..},..]}.
func (seg PathSegment) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSegment{Type: seg.Type(), Points: seg.Points()})
}

func (seg *PathSegment) UnmarshalJSON(b []byte) error {
	var js jsonSegment
	if err := json.Unmarshal(b, &js); err != nil {
		return err
	}
	s, err := NewSegment(js.Type, js.Points)
	if err != nil {
		return err
	}
	*seg = s
	return nil
}

// NewSegment builds a segment from a command letter and its points, the
// shape segments take in serialized documents.
func NewSegment(typ string, pts []Point) (PathSegment, error) {
	kind, ok := KindFromCommand(typ)
	if !ok {
		return PathSegment{}, fmt.Errorf("%w: segment type %q", ErrUnsupportedCommand, typ)
	}
	switch kind {
	case LineKind:
		if len(pts) != 2 {
			return PathSegment{}, fmt.Errorf("%w: line segment needs 2 points, got %d", ErrSyntax, len(pts))
		}
		return Line{pts[0], pts[1]}.Seg(), nil
	default:
		if len(pts) != 4 {
			return PathSegment{}, fmt.Errorf("%w: cubic segment needs 4 points, got %d", ErrSyntax, len(pts))
		}
		return CubicBez{pts[0], pts[1], pts[2], pts[3]}.Seg(), nil
	}
}

// Continuous reports whether every segment starts where the previous one
// ended.
func Continuous(segs []PathSegment) bool {
	for i := 1; i < len(segs); i++ {
		if segs[i].Start() != segs[i-1].End() {
			return false
		}
	}
	return true
}
