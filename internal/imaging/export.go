package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

// ExportResult contains an encoded image ready to hand to a client.
type ExportResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type"`
	Path        string `json:"path,omitempty"`
}

// EncodePNGBase64 encodes buf as PNG and returns it base64-encoded.
func EncodePNGBase64(buf *stitch.PixelBuffer) (*ExportResult, error) {
	data, err := encodePNG(buf.Image())
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Width:       buf.Width(),
		Height:      buf.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes buf to path as PNG regardless of the file extension.
func SavePNG(buf *stitch.PixelBuffer, path string) (*ExportResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	if err := imaging.Encode(f, buf.Image(), imaging.PNG); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	return &ExportResult{
		Width:    buf.Width(),
		Height:   buf.Height(),
		MimeType: "image/png",
		Path:     path,
	}, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var b bytes.Buffer
	if err := imaging.Encode(&b, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return b.Bytes(), nil
}
