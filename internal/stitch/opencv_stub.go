//go:build !gocv

package stitch

import "fmt"

// OpenCVAvailable reports whether the OpenCV stitcher was compiled in.
const OpenCVAvailable = false

// NewOpenCVStitcher fails unless the binary was built with -tags gocv.
func NewOpenCVStitcher() (Stitcher, error) {
	return nil, fmt.Errorf("%w: OpenCV stitcher not available (rebuild with -tags gocv)", ErrStitchFailed)
}
