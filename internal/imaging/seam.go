package imaging

import (
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-stitch-mcp/internal/stitch"
)

// SeamDiffResult shows how well two images agree over a given overlap.
type SeamDiffResult struct {
	// Width and Height are the dimensions of the compared strip.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Overlap is the overlap that was inspected.
	Overlap int `json:"overlap"`

	// Score is the mean absolute RGB difference over the strip (0-255).
	Score float64 `json:"score"`

	// Accepted reports whether Score is below the threshold supplied.
	Accepted bool `json:"accepted"`

	// ImageBase64 is the per-pixel difference as a PNG: black where the two
	// images agree, bright where they differ.
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// SeamDiff renders the difference between the last overlap pixels of a and
// the first overlap pixels of b along axis.
//
// The strips span the cross extent both images share, the same region the
// overlap estimator scores. overlap must be in [1, min(extent(a), extent(b))].
func SeamDiff(a, b *stitch.PixelBuffer, axis stitch.Axis, overlap int, threshold float64) (*SeamDiffResult, error) {
	if limit := min(a.Extent(axis), b.Extent(axis)); overlap < 1 || overlap > limit {
		return nil, fmt.Errorf("%w: overlap %d outside [1, %d]", stitch.ErrInvalidArgument, overlap, limit)
	}

	var ra, rb image.Rectangle
	if axis == stitch.Vertical {
		common := min(a.Width(), b.Width())
		ra = image.Rect(0, a.Height()-overlap, common, a.Height())
		rb = image.Rect(0, 0, common, overlap)
	} else {
		common := min(a.Height(), b.Height())
		ra = image.Rect(a.Width()-overlap, 0, a.Width(), common)
		rb = image.Rect(0, 0, overlap, common)
	}

	stripA := imaging.Crop(a.Image(), ra)
	stripB := imaging.Crop(b.Image(), rb)
	diff := blend.Difference(stripA, stripB)

	data, err := encodePNG(diff)
	if err != nil {
		return nil, err
	}

	score := stitch.Score(a, b, axis, overlap)
	return &SeamDiffResult{
		Width:       ra.Dx(),
		Height:      ra.Dy(),
		Overlap:     overlap,
		Score:       math.Round(score*100) / 100,
		Accepted:    score < threshold,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// SeamSummary aggregates the seams of one reduction.
type SeamSummary struct {
	Seams        int     `json:"seams"`
	Found        int     `json:"found"`
	Missed       int     `json:"missed"`
	TotalOverlap int     `json:"total_overlap"`
	MeanScore    float64 `json:"mean_score"`
	StdDevScore  float64 `json:"stddev_score"`
}

// SummarizeSeams computes counts and score statistics. Scores are taken from
// found seams only, since a missed seam has no score.
func SummarizeSeams(seams []stitch.Seam) SeamSummary {
	sum := SeamSummary{Seams: len(seams)}
	scores := make([]float64, 0, len(seams))
	for _, s := range seams {
		if !s.Found {
			sum.Missed++
			continue
		}
		sum.Found++
		sum.TotalOverlap += s.Overlap
		scores = append(scores, s.Score)
	}

	switch len(scores) {
	case 0:
	case 1:
		sum.MeanScore = math.Round(scores[0]*100) / 100
	default:
		mean, std := stat.MeanStdDev(scores, nil)
		sum.MeanScore = math.Round(mean*100) / 100
		sum.StdDevScore = math.Round(std*100) / 100
	}
	return sum
}
