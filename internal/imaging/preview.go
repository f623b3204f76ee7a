package imaging

import (
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

// Downscale shrinks buf so that neither side exceeds maxDim, keeping the
// aspect ratio. A buffer already within the limit, or a non-positive maxDim,
// is returned unchanged.
func Downscale(buf *stitch.PixelBuffer, maxDim int) (*stitch.PixelBuffer, error) {
	if maxDim <= 0 || (buf.Width() <= maxDim && buf.Height() <= maxDim) {
		return buf, nil
	}
	return stitch.FromImage(imaging.Fit(buf.Image(), maxDim, maxDim, imaging.Lanczos))
}
