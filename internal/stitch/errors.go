package stitch

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientInputs is returned when a reduction gets fewer than two images.
	ErrInsufficientInputs = errors.New("at least two images are required")

	// ErrDecode marks an input that could not be turned into a PixelBuffer.
	ErrDecode = errors.New("could not decode image")

	// ErrInvalidArgument marks a contract violation by the caller, such as an
	// overlap outside the valid range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStitchFailed is returned by a Stitcher whose status was not StatusOK.
	ErrStitchFailed = errors.New("stitching failed")
)

// DecodeError reports which source could not be decoded.
//
// errors.Is(err, ErrDecode) holds for every DecodeError.
type DecodeError struct {
	// Source names the input, usually a file path.
	Source string

	// Err is the underlying decoder or I/O error.
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v %q: %v", ErrDecode, e.Source, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// Describe returns the message shown to a person after a stitch attempt.
//
// It separates three outcomes: an unreadable input, a panorama whose seams
// were partly guessed, and an outright failure. A nil error with a nil result
// is treated as a failure.
func Describe(res *Result, err error) string {
	switch {
	case errors.Is(err, ErrDecode):
		return fmt.Sprintf("Could not read one of your images: %v", err)
	case err != nil:
		return fmt.Sprintf("Stitching failed: %v", err)
	case res == nil:
		return "Stitching failed: no result was produced"
	}

	if missed := res.Warnings(); len(missed) > 0 {
		return fmt.Sprintf("Stitched %dx%d, but %d seam(s) had no detected overlap and were joined edge to edge",
			res.Image.Width(), res.Image.Height(), len(missed))
	}
	return fmt.Sprintf("Stitched %dx%d", res.Image.Width(), res.Image.Height())
}
