//go:build gocv

package stitch

import (
	"fmt"

	"gocv.io/x/gocv"
)

// OpenCVAvailable reports whether the OpenCV stitcher was compiled in.
const OpenCVAvailable = true

// OpenCVStitcher runs OpenCV's panorama pipeline (feature matching, camera
// estimation, warping and blending). Input order does not matter.
type OpenCVStitcher struct{}

// NewOpenCVStitcher returns the OpenCV-backed Stitcher.
func NewOpenCVStitcher() (Stitcher, error) {
	return OpenCVStitcher{}, nil
}

// Stitch converts the buffers to Mats, runs the stitcher and converts the
// panorama back. Every non-OK status is reported as ErrStitchFailed.
func (OpenCVStitcher) Stitch(images []*PixelBuffer) (*PixelBuffer, error) {
	if len(images) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientInputs, len(images))
	}

	mats := make([]gocv.Mat, 0, len(images))
	defer func() {
		for _, m := range mats {
			m.Close()
		}
	}()

	for i, img := range images {
		rgba, err := gocv.ImageToMatRGBA(img.Image())
		if err != nil {
			return nil, fmt.Errorf("failed to convert image %d: %w", i, err)
		}
		bgr := gocv.NewMat()
		gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
		rgba.Close()
		mats = append(mats, bgr)
	}

	st := gocv.NewStitcher(gocv.StitcherPanorama)
	defer st.Close()

	pano := gocv.NewMat()
	defer pano.Close()

	if err := fromOpenCVStatus(st.Stitch(mats, &pano)).Err(); err != nil {
		return nil, err
	}

	out, err := pano.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert panorama: %w", err)
	}
	return FromImage(out)
}

func fromOpenCVStatus(s gocv.StitcherStatus) Status {
	switch s {
	case gocv.StitcherOK:
		return StatusOK
	case gocv.StitcherErrNeedMoreImgs:
		return StatusNeedMoreImages
	case gocv.StitcherErrHomographyEstFail:
		return StatusHomographyFailure
	default:
		return StatusCameraParamsFailure
	}
}
