// Package preview rasterizes fitted strokes so that the result of a fit can
// be inspected without an SVG viewer.
package preview

import (
	"image"
	"image/png"
	"io"
	"iter"

	"github.com/pkg/errors"
	"golang.org/x/image/vector"

	"github.com/flux3dp/strokefit"
)

// Options describes the preview image. Sizes are in pixels.
type Options struct {
	Width       int
	Height      int
	StrokeWidth float64
	// Padding is kept free on every side of the drawing.
	Padding int
	// Tolerance is the flattening tolerance for curves. Zero means 0.1.
	Tolerance float64
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.Errorf("preview size %dx%d is not positive", o.Width, o.Height)
	}
	if !(o.StrokeWidth > 0) {
		return errors.Errorf("stroke width %g is not positive", o.StrokeWidth)
	}
	if o.Padding < 0 || 2*o.Padding >= min(o.Width, o.Height) {
		return errors.Errorf("padding %d does not fit a %dx%d preview", o.Padding, o.Width, o.Height)
	}
	return nil
}

// Render draws the strokes scaled uniformly to fit the image. Each stroke
// is outlined with [strokefit.StrokePath] using round joins and caps.
func Render(strokes [][]strokefit.PathSegment, opts Options) (*image.Alpha, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = 0.1
	}
	img := image.NewAlpha(image.Rect(0, 0, opts.Width, opts.Height))

	box := strokefit.BoundingBox(nil)
	for _, segs := range strokes {
		box = box.Union(strokefit.BoundingBox(segs))
	}
	if box.IsEmpty() {
		return img, nil
	}
	dst := strokefit.Rect{X1: float64(opts.Width), Y1: float64(opts.Height)}
	aff := strokefit.FitInto(box, dst.Inset(float64(opts.Padding)))

	style := strokefit.Stroke{Width: opts.StrokeWidth}
	r := vector.NewRasterizer(opts.Width, opts.Height)
	for i, segs := range strokes {
		if len(segs) == 0 {
			continue
		}
		// each stroke is composited on its own so that crossing strokes
		// cannot cancel each other's coverage
		if i > 0 {
			r.Reset(opts.Width, opts.Height)
		}
		path := strokefit.PathFromSegments(segs).Transform(aff)
		fill(r, strokefit.StrokePath(path.Elements(), style, tol))
		r.Draw(img, img.Bounds(), image.Opaque, image.Point{})
	}
	return img, nil
}

// fill adds the outline to the rasterizer, closing every subpath.
func fill(r *vector.Rasterizer, outline iter.Seq[strokefit.PathElement]) {
	open := false
	for el := range outline {
		switch el.Kind {
		case strokefit.MoveToKind:
			if open {
				r.ClosePath()
			}
			r.MoveTo(float32(el.P0.X), float32(el.P0.Y))
			open = true
		case strokefit.LineToKind:
			r.LineTo(float32(el.P0.X), float32(el.P0.Y))
		case strokefit.QuadToKind:
			r.QuadTo(float32(el.P0.X), float32(el.P0.Y), float32(el.P1.X), float32(el.P1.Y))
		case strokefit.CubicToKind:
			r.CubeTo(float32(el.P0.X), float32(el.P0.Y), float32(el.P1.X), float32(el.P1.Y), float32(el.P2.X), float32(el.P2.Y))
		case strokefit.ClosePathKind:
			r.ClosePath()
			open = false
		}
	}
	if open {
		r.ClosePath()
	}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "encoding preview")
}
