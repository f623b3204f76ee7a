package stitch

import (
	"context"
	"fmt"
	"log/slog"
)

// Seam describes how one adjacent pair was joined during a reduction.
type Seam struct {
	// Index is the position of the right (or lower) image of the pair in the
	// input sequence, so the first seam has Index 1.
	Index int `json:"index"`

	// Overlap is the number of pixels shared along the axis. Zero when Found
	// is false.
	Overlap int `json:"overlap"`

	// Score is the mean RGB difference at Overlap.
	Score float64 `json:"score"`

	// Found is false when no overlap was detected and the pair was abutted.
	Found bool `json:"found"`

	// Offset is where the image at Index starts in the panorama, measured
	// along the axis.
	Offset int `json:"offset"`
}

// Result is the output of a reduction.
type Result struct {
	Image *PixelBuffer
	Axis  Axis
	Seams []Seam
}

// Warnings returns the seams that were joined without a detected overlap.
func (r *Result) Warnings() []Seam {
	var out []Seam
	for _, s := range r.Seams {
		if !s.Found {
			out = append(out, s)
		}
	}
	return out
}

// Reduce stitches images in order along axis using DefaultOptions.
func Reduce(images []*PixelBuffer, axis Axis) (*Result, error) {
	return defaultEngine.Reduce(images, axis)
}

// Reduce folds the images into one buffer, left to right (or top to bottom).
//
// Each image is joined to the accumulated result at the overlap Estimate
// finds between them. A pair with no detected overlap is abutted and reported
// in Result.Seams; it never aborts the reduction. Fewer than two images
// returns an error wrapping ErrInsufficientInputs.
func (e *Engine) Reduce(images []*PixelBuffer, axis Axis) (*Result, error) {
	return e.ReduceContext(context.Background(), images, axis)
}

// ReduceContext is Reduce with cancellation checked between pairs. A pair
// that has started always completes.
func (e *Engine) ReduceContext(ctx context.Context, images []*PixelBuffer, axis Axis) (*Result, error) {
	if len(images) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientInputs, len(images))
	}
	for i, img := range images {
		if img == nil {
			return nil, fmt.Errorf("%w: image %d is nil", ErrInvalidArgument, i)
		}
	}

	log := Logger()
	acc := images[0]
	seams := make([]Seam, 0, len(images)-1)

	for i, img := range images[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx := i + 1

		est := e.Estimate(acc, img, axis)
		if !est.Found() {
			log.Warn("no overlap found, joining edge to edge",
				slog.Int("index", idx),
				slog.String("axis", axis.String()))
		}

		merged, err := e.Composite(acc, img, axis, est.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to composite image %d: %w", idx, err)
		}

		seams = append(seams, Seam{
			Index:   idx,
			Overlap: est.Amount,
			Score:   est.Score,
			Found:   est.Found(),
			Offset:  acc.Extent(axis) - est.Amount,
		})
		acc = merged
	}

	return &Result{Image: acc, Axis: axis, Seams: seams}, nil
}
