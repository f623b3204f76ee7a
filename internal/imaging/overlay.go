package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

var (
	foundSeamColor  = color.NRGBA{0, 255, 0, 255}
	missedSeamColor = color.NRGBA{255, 0, 0, 255}
	labelColor      = color.NRGBA{255, 255, 255, 255}
	labelBackground = color.NRGBA{0, 0, 0, 180}
)

// MarkSeams returns a copy of the panorama with every seam drawn on it.
//
// A found seam is drawn as two green lines bounding the shared strip and
// labelled with its overlap in pixels. A missed seam is a single red line
// where the two images abut.
func MarkSeams(res *stitch.Result) (*stitch.PixelBuffer, error) {
	if res == nil || res.Image == nil {
		return nil, fmt.Errorf("%w: no panorama to mark", stitch.ErrInvalidArgument)
	}

	out := imaging.Clone(res.Image.Image())
	for _, s := range res.Seams {
		if !s.Found {
			drawSeamLine(out, res.Axis, s.Offset, missedSeamColor)
			continue
		}
		drawSeamLine(out, res.Axis, s.Offset, foundSeamColor)
		drawSeamLine(out, res.Axis, s.Offset+s.Overlap-1, foundSeamColor)

		x, y := s.Offset+2, 2
		if res.Axis == stitch.Vertical {
			x, y = 2, s.Offset+2
		}
		drawLabel(out, x, y, strconv.Itoa(s.Overlap), labelColor, labelBackground)
	}
	return stitch.FromImage(out)
}

// drawSeamLine draws a one pixel line across img at pos along axis.
func drawSeamLine(img *image.NRGBA, axis stitch.Axis, pos int, c color.NRGBA) {
	bounds := img.Bounds()
	if axis == stitch.Vertical {
		if pos < 0 || pos >= bounds.Dy() {
			return
		}
		for x := 0; x < bounds.Dx(); x++ {
			img.SetNRGBA(x, pos, c)
		}
		return
	}

	if pos < 0 || pos >= bounds.Dx() {
		return
	}
	for y := 0; y < bounds.Dy(); y++ {
		img.SetNRGBA(pos, y, c)
	}
}

// digitGlyphs is a 3x5 pixel font.
var digitGlyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws a small numeric label with its top-left corner at (x, y),
// clipped to the image.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	set := func(px, py int, c color.NRGBA) {
		if image.Pt(px, py).In(bounds) {
			img.SetNRGBA(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range digitGlyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
