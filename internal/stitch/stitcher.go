package stitch

import "fmt"

// Status is the outcome code reported by a full panorama stitcher.
type Status int

const (
	StatusOK Status = iota
	StatusNeedMoreImages
	StatusHomographyFailure
	StatusCameraParamsFailure
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNeedMoreImages:
		return "NeedMoreImages"
	case StatusHomographyFailure:
		return "HomographyFailure"
	case StatusCameraParamsFailure:
		return "CameraParamsFailure"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Err converts s to nil for StatusOK and to an error wrapping ErrStitchFailed
// otherwise.
func (s Status) Err() error {
	if s == StatusOK {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrStitchFailed, s)
}

// Stitcher produces a panorama from a set of images without an explicit axis.
//
// Implementations other than OverlapStitcher treat the images as an unordered
// set and handle warping and blending themselves.
type Stitcher interface {
	Stitch(images []*PixelBuffer) (*PixelBuffer, error)
}

// OverlapStitcher adapts an Engine to the Stitcher interface for a fixed axis.
type OverlapStitcher struct {
	Engine *Engine
	Axis   Axis
}

// Stitch reduces images in order with the wrapped Engine.
func (s OverlapStitcher) Stitch(images []*PixelBuffer) (*PixelBuffer, error) {
	eng := s.Engine
	if eng == nil {
		eng = defaultEngine
	}
	res, err := eng.Reduce(images, s.Axis)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}
