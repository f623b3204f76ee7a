package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

// DecodeFile reads and decodes the image at path into a PixelBuffer.
//
// Parameters:
//   - path: Absolute or relative file path. Supported formats are PNG, JPEG,
//     GIF, BMP, TIFF and WebP. Detection is by content, not extension.
//
// Returns:
//   - *stitch.PixelBuffer: The decoded image in 8-bit RGBA at its native size.
//     JPEG EXIF orientation is applied so the buffer matches what viewers show.
//   - error: A *stitch.DecodeError (matching stitch.ErrDecode) if the file
//     cannot be opened or decoded.
//
// Nothing is cached: every call reads the file again.
func DecodeFile(path string) (*stitch.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &stitch.DecodeError{Source: path, Err: fmt.Errorf("failed to open image: %w", err)}
	}
	defer f.Close()

	return decode(path, f)
}

// DecodeBytes decodes an in-memory image. name is only used in errors.
func DecodeBytes(name string, data []byte) (*stitch.PixelBuffer, error) {
	return decode(name, bytes.NewReader(data))
}

func decode(source string, r io.Reader) (*stitch.PixelBuffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &stitch.DecodeError{Source: source, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	buf, err := stitch.FromImage(img)
	if err != nil {
		return nil, &stitch.DecodeError{Source: source, Err: err}
	}
	return buf, nil
}

// DecodeAll decodes every path and returns the buffers in the same order.
//
// Up to workers files are decoded at once (workers <= 0 means one per path).
// The first failure cancels the remaining work and is returned; no partial
// result is produced. Cancelling ctx stops decodes that have not started.
func DecodeAll(ctx context.Context, paths []string, workers int) ([]*stitch.PixelBuffer, error) {
	out := make([]*stitch.PixelBuffer, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, path := range paths {
		i, path := i, path // per-iteration copies; go directive is 1.21
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf, err := DecodeFile(path)
			if err != nil {
				return err
			}
			out[i] = buf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ImageInfo contains metadata about an image file.
//
// This struct provides essential information about an image without requiring
// the caller to decode the pixel data.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format reported by the registered decoder, for example
	// "png", "jpeg", "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the color model carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads the image header at path and returns its metadata.
//
// Only the header is decoded, so this is cheap even for large files. Width
// and Height are the stored dimensions, before any EXIF rotation.
func LoadImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, &stitch.DecodeError{Source: path, Err: fmt.Errorf("failed to decode image header: %w", err)}
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch cfg.ColorModel {
	case color.RGBAModel, color.NRGBAModel:
		hasAlpha = true
	case color.RGBA64Model, color.NRGBA64Model:
		hasAlpha = true
		colorDepth = "16-bit"
	case color.Gray16Model:
		colorDepth = "16-bit"
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(path string) (*DimensionsResult, error) {
	info, err := LoadImageInfo(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: info.Width, Height: info.Height}, nil
}
