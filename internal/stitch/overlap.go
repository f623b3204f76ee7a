package stitch

import (
	"image/color"
	"log/slog"
)

const (
	// MinOverlap is the smallest overlap, in pixels, that Estimate will accept.
	// Narrower windows match by coincidence too easily.
	MinOverlap = 20

	// Threshold is the mean absolute per-channel difference (0-255 scale)
	// below which a candidate overlap is accepted.
	Threshold = 10.0
)

// Options tunes the overlap search and the compositor.
type Options struct {
	// MinOverlap is the smallest candidate overlap tried. Default MinOverlap.
	MinOverlap int

	// Threshold is the acceptance limit for the mean RGB difference.
	// Default Threshold.
	Threshold float64

	// Background fills pixels covered by neither image. Default transparent.
	Background color.NRGBA
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{
		MinOverlap: MinOverlap,
		Threshold:  Threshold,
	}
}

// OverlapResult is the outcome of an overlap search.
type OverlapResult struct {
	// Amount is the accepted overlap in pixels. Zero means no candidate
	// matched closely enough.
	Amount int `json:"amount"`

	// Score is the mean RGB difference at Amount, or zero when Amount is zero.
	Score float64 `json:"score"`
}

// Found reports whether an overlap was accepted.
func (r OverlapResult) Found() bool { return r.Amount > 0 }

// Engine runs overlap searches and compositing with fixed Options.
type Engine struct {
	opts Options
}

// NewEngine returns an Engine using opts. Non-positive MinOverlap or Threshold
// fall back to the package defaults.
func NewEngine(opts Options) *Engine {
	if opts.MinOverlap <= 0 {
		opts.MinOverlap = MinOverlap
	}
	if opts.Threshold <= 0 {
		opts.Threshold = Threshold
	}
	return &Engine{opts: opts}
}

// Options returns the options in effect.
func (e *Engine) Options() Options { return e.opts }

var defaultEngine = NewEngine(DefaultOptions())

// Estimate finds the overlap between a and b using DefaultOptions.
func Estimate(a, b *PixelBuffer, axis Axis) OverlapResult {
	return defaultEngine.Estimate(a, b, axis)
}

// Score returns the mean absolute R, G, B difference between the trailing
// overlap pixels of a and the leading overlap pixels of b along axis, taken
// over the extent both buffers share across the axis.
//
// Returns -1 if overlap is not in [1, min(extent(a), extent(b))].
func Score(a, b *PixelBuffer, axis Axis, overlap int) float64 {
	if overlap <= 0 || overlap > a.Extent(axis) || overlap > b.Extent(axis) {
		return -1
	}
	sum, n := stripDiff(a, b, axis, overlap, -1)
	return float64(sum) / float64(n)
}

// Estimate searches for the largest overlap between the end of a and the
// start of b along axis.
//
// Candidates run from min(extent(a), extent(b))-1 down to MinOverlap. The
// first one scoring below Threshold is returned; smaller candidates are not
// examined. If either buffer is shorter than MinOverlap along axis, or no
// candidate is accepted, the result has Amount zero.
func (e *Engine) Estimate(a, b *PixelBuffer, axis Axis) OverlapResult {
	maxOverlap := min(a.Extent(axis), b.Extent(axis)) - 1

	for overlap := maxOverlap; overlap >= e.opts.MinOverlap; overlap-- {
		n := overlap * min(a.cross(axis), b.cross(axis)) * 3
		limit := e.opts.Threshold * float64(n)

		sum, _ := stripDiff(a, b, axis, overlap, limit)
		if float64(sum) < limit {
			score := float64(sum) / float64(n)
			Logger().Debug("overlap accepted",
				slog.String("axis", axis.String()),
				slog.Int("overlap", overlap),
				slog.Float64("score", score))
			return OverlapResult{Amount: overlap, Score: score}
		}
	}

	return OverlapResult{}
}

// stripDiff sums |a-b| over R, G, B for the overlap strips and returns the
// sum with the number of channel samples compared. When limit is
// non-negative the scan stops once the sum reaches it, because the candidate
// can no longer be accepted.
func stripDiff(a, b *PixelBuffer, axis Axis, overlap int, limit float64) (int, int) {
	common := min(a.cross(axis), b.cross(axis))

	// Both strips are scanned as rows of contiguous pixels.
	rows, run := common, overlap
	if axis == Vertical {
		rows, run = overlap, common
	}

	pa, pb := a.img.Pix, b.img.Pix
	sum := 0
	for r := 0; r < rows; r++ {
		var ia, ib int
		if axis == Vertical {
			ia = a.offset(0, a.Height()-overlap+r)
			ib = b.offset(0, r)
		} else {
			ia = a.offset(a.Width()-overlap, r)
			ib = b.offset(0, r)
		}

		for end := ia + run*4; ia < end; ia, ib = ia+4, ib+4 {
			sum += absDiff(pa[ia], pb[ib]) + absDiff(pa[ia+1], pb[ib+1]) + absDiff(pa[ia+2], pb[ib+2])
		}

		if limit >= 0 && float64(sum) >= limit {
			break
		}
	}

	return sum, rows * run * 3
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
