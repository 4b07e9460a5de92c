package strokefit

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// SVGOptions specifies optional settings for [SVG], [WriteSVG] and
// [ElementsSVG].
type SVGOptions struct {
	// The maximum precision with which to format coordinates. A value of 0
	// chooses the highest precision necessary to unambiguously represent any
	// given coordinate. The editor uses 2.
	MaxPrecision int
	// DropDegenerate skips line segments that end where the pen already is,
	// after rounding to MaxPrecision.
	DropDegenerate bool
	// Close appends a ClosePath command.
	Close bool
}

func (opts SVGOptions) round(pt Point) Point {
	if opts.MaxPrecision <= 0 {
		return pt
	}
	return pt.RoundTo(opts.MaxPrecision)
}

func (opts SVGOptions) format(n float64) string {
	if opts.MaxPrecision <= 0 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(roundTo(n, opts.MaxPrecision), 'f', opts.MaxPrecision, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// SVG converts fitted segments to a string of SVG path commands: a MoveTo
// to the first segment's start followed by one L or C command per segment.
//
// See [WriteSVG] for a version that writes to an [io.Writer] instead of
// returning a string.
func SVG(segs []PathSegment, opts SVGOptions) string {
	sb := &strings.Builder{}
	WriteSVG(sb, segs, opts)
	return sb.String()
}

// WriteSVG converts fitted segments to a string of SVG path commands and
// writes it to w.
func WriteSVG(w io.Writer, segs []PathSegment, opts SVGOptions) error {
	return WriteElementsSVG(w, PathFromSegments(segs).Elements(), opts)
}

// ElementsSVG converts a sequence of path elements to a string of SVG path
// commands.
func ElementsSVG(seq iter.Seq[PathElement], opts SVGOptions) string {
	sb := &strings.Builder{}
	WriteElementsSVG(sb, seq, opts)
	return sb.String()
}

// WriteElementsSVG converts a sequence of path elements to a string of SVG
// path commands and writes it to w.
//
// The current implementation doesn't take any special care to produce a
// short string (reducing precision, using relative movement).
func WriteElementsSVG(w io.Writer, seq iter.Seq[PathElement], opts SVGOptions) error {
	space := []byte(" ")
	z := []byte("Z")
	var err error
	write := func(s []byte) {
		if err != nil {
			return
		}
		_, err = w.Write(s)
	}
	writef := func(s string, v ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, s, v...)
	}
	f := opts.format

	first := true
	var pen, start Point
	hasPen := false
	for el := range seq {
		if err != nil {
			return err
		}
		if el.Kind == LineToKind && opts.DropDegenerate && hasPen && opts.round(el.P0) == opts.round(pen) {
			continue
		}
		if !first {
			write(space)
		}
		first = false
		switch el.Kind {
		case MoveToKind:
			writef("M%s,%s", f(el.P0.X), f(el.P0.Y))
			start = el.P0
		case LineToKind:
			writef("L%s,%s", f(el.P0.X), f(el.P0.Y))
		case QuadToKind:
			writef("Q%s,%s %s,%s",
				f(el.P0.X), f(el.P0.Y),
				f(el.P1.X), f(el.P1.Y))
		case CubicToKind:
			writef("C%s,%s %s,%s %s,%s",
				f(el.P0.X), f(el.P0.Y),
				f(el.P1.X), f(el.P1.Y),
				f(el.P2.X), f(el.P2.Y))
		case ClosePathKind:
			write(z)
			pen = start
			continue
		default:
			panic(fmt.Sprintf("unhandled case %v", el.Kind))
		}
		pen, _ = el.EndPoint()
		hasPen = true
	}
	if opts.Close && !first {
		write(space)
		write(z)
	}
	return err
}
