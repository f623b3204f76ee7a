package stitch

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Composite joins b after a along axis using DefaultOptions.
func Composite(a, b *PixelBuffer, axis Axis, overlap int) (*PixelBuffer, error) {
	return defaultEngine.Composite(a, b, axis, overlap)
}

// Composite paints a at the origin and b shifted so that its first overlap
// pixels along axis cover the last overlap pixels of a.
//
// The result measures extent(a)+extent(b)-overlap along axis and the larger of
// the two cross extents across it. b overwrites a where they meet; pixels
// covered by neither keep the engine's background colour. Inputs are not
// modified.
//
// overlap must lie in [0, min(extent(a), extent(b))); anything else returns
// an error wrapping ErrInvalidArgument.
func (e *Engine) Composite(a, b *PixelBuffer, axis Axis, overlap int) (*PixelBuffer, error) {
	if limit := min(a.Extent(axis), b.Extent(axis)); overlap < 0 || overlap >= limit {
		return nil, fmt.Errorf("%w: overlap %d outside [0, %d)", ErrInvalidArgument, overlap, limit)
	}

	var width, height int
	var at image.Point
	if axis == Vertical {
		width = max(a.Width(), b.Width())
		height = a.Height() + b.Height() - overlap
		at = image.Pt(0, a.Height()-overlap)
	} else {
		width = a.Width() + b.Width() - overlap
		height = max(a.Height(), b.Height())
		at = image.Pt(a.Width()-overlap, 0)
	}

	dst := imaging.New(width, height, e.opts.Background)
	dst = imaging.Paste(dst, a.img, image.Point{})
	dst = imaging.Paste(dst, b.img, at)
	return wrap(dst), nil
}
