// Package stitch joins overlapping images into a single strip.
//
// The package works on PixelBuffer values: 8-bit RGBA grids with a fixed
// row-major layout. Three operations build on each other:
//
//   - Estimate finds how many pixels two neighbouring images share along an axis.
//   - Composite paints the second image over the first at that seam.
//   - Reduce folds Estimate and Composite over an ordered list of buffers.
//
// # Overlap Search
//
// Estimate tries every candidate overlap from the largest possible one down to
// Options.MinOverlap and accepts the first candidate whose mean absolute RGB
// difference is below Options.Threshold. Larger overlaps win because a wide
// comparison window is less likely to match by coincidence. Alpha is ignored.
//
// When no candidate is accepted the result is zero. Reduce still joins such a
// pair edge to edge and records the miss on the returned Seam, so a weak seam
// degrades the panorama rather than failing it.
//
// # Compositing
//
// The second image of a pair always overwrites the shared region; there is no
// blending. Pixels covered by neither image keep Options.Background, which is
// fully transparent unless configured otherwise.
//
// # Thread Safety
//
// PixelBuffer is immutable after construction and every operation returns a
// new buffer, so all functions may be called concurrently on shared inputs.
//
// # Errors
//
// Failures wrap one of the package sentinels (ErrInsufficientInputs,
// ErrDecode, ErrInvalidArgument, ErrStitchFailed) and can be classified with
// errors.Is. Describe turns an error or result into a message for end users.
package stitch
