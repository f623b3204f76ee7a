package stitch

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

// Axis is the direction along which images are joined.
type Axis int

const (
	// Horizontal joins images left to right; overlap is measured in columns.
	Horizontal Axis = iota
	// Vertical joins images top to bottom; overlap is measured in rows.
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis accepts "horizontal"/"h" and "vertical"/"v", case-insensitively.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	}
	return 0, fmt.Errorf("%w: unknown axis %q", ErrInvalidArgument, s)
}

func (a Axis) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Axis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseAxis(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// PixelBuffer is an immutable grid of 8-bit RGBA samples.
//
// Samples are stored row-major, four bytes per pixel in R, G, B, A order
// (not alpha-premultiplied), so len(samples) == width*height*4 always holds.
// Use NewPixelBuffer or FromImage to construct one.
type PixelBuffer struct {
	img *image.NRGBA
}

// NewPixelBuffer wraps a copy of samples as a width×height buffer.
//
// Returns an error wrapping ErrInvalidArgument if either dimension is not
// positive or len(samples) != width*height*4.
func NewPixelBuffer(width, height int, samples []uint8) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: buffer dimensions %dx%d must be positive", ErrInvalidArgument, width, height)
	}
	if len(samples) != width*height*4 {
		return nil, fmt.Errorf("%w: got %d samples, want %d for %dx%d",
			ErrInvalidArgument, len(samples), width*height*4, width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, samples)
	return &PixelBuffer{img: img}, nil
}

// FromImage converts any image to a PixelBuffer, moving its origin to (0,0).
//
// Returns an error wrapping ErrInvalidArgument for an empty image.
func FromImage(img image.Image) (*PixelBuffer, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: image has empty bounds %v", ErrInvalidArgument, b)
	}
	return &PixelBuffer{img: imaging.Clone(img)}, nil
}

// wrap adopts an NRGBA produced inside this package without copying it.
// The caller must not retain another reference to img.
func wrap(img *image.NRGBA) *PixelBuffer {
	return &PixelBuffer{img: img}
}

// Width returns the buffer width in pixels.
func (p *PixelBuffer) Width() int { return p.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (p *PixelBuffer) Height() int { return p.img.Rect.Dy() }

// Extent returns the size of the buffer along axis.
func (p *PixelBuffer) Extent(axis Axis) int {
	if axis == Vertical {
		return p.Height()
	}
	return p.Width()
}

// cross returns the size of the buffer across axis.
func (p *PixelBuffer) cross(axis Axis) int {
	if axis == Vertical {
		return p.Width()
	}
	return p.Height()
}

// Samples returns a copy of the RGBA samples.
func (p *PixelBuffer) Samples() []uint8 {
	out := make([]uint8, len(p.img.Pix))
	copy(out, p.img.Pix)
	return out
}

// Image exposes the buffer as an image.Image for encoding or display.
// The returned value shares memory with the buffer and must not be modified.
func (p *PixelBuffer) Image() image.Image {
	return p.img
}

// offset returns the index of the red sample of pixel (x, y).
func (p *PixelBuffer) offset(x, y int) int {
	return y*p.img.Stride + x*4
}
