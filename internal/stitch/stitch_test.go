package stitch

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solid returns a width×height buffer filled with c.
func solid(t *testing.T, width, height int, c color.NRGBA) *PixelBuffer {
	t.Helper()
	samples := make([]uint8, width*height*4)
	for i := 0; i < len(samples); i += 4 {
		samples[i], samples[i+1], samples[i+2], samples[i+3] = c.R, c.G, c.B, c.A
	}
	buf, err := NewPixelBuffer(width, height, samples)
	require.NoError(t, err)
	return buf
}

// noise returns a buffer of opaque random pixels from a fixed seed.
func noise(t *testing.T, width, height int, seed int64) *PixelBuffer {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	samples := make([]uint8, width*height*4)
	for i := 0; i < len(samples); i += 4 {
		samples[i] = uint8(rng.Intn(256))
		samples[i+1] = uint8(rng.Intn(256))
		samples[i+2] = uint8(rng.Intn(256))
		samples[i+3] = 255
	}
	buf, err := NewPixelBuffer(width, height, samples)
	require.NoError(t, err)
	return buf
}

// window cuts the columns [x0, x0+width) out of src.
func window(t *testing.T, src *PixelBuffer, x0, width int) *PixelBuffer {
	t.Helper()
	img := src.Image().(*image.NRGBA).SubImage(image.Rect(x0, 0, x0+width, src.Height()))
	buf, err := FromImage(img)
	require.NoError(t, err)
	return buf
}

// bands builds the three-image chain used by the reduction tests: each image
// is 100×100 and shares 30 columns with its neighbour. Noise keeps the shared
// regions from matching at any other offset.
func bands(t *testing.T) []*PixelBuffer {
	t.Helper()
	scene := noise(t, 240, 100, 7)
	return []*PixelBuffer{
		window(t, scene, 0, 100),
		window(t, scene, 70, 100),
		window(t, scene, 140, 100),
	}
}

func at(buf *PixelBuffer, x, y int) color.NRGBA {
	return buf.Image().(*image.NRGBA).NRGBAAt(x, y)
}

func TestNewPixelBuffer(t *testing.T) {
	buf, err := NewPixelBuffer(2, 3, make([]uint8, 2*3*4))
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Width())
	assert.Equal(t, 3, buf.Height())
	assert.Len(t, buf.Samples(), 24)
	assert.Equal(t, 2, buf.Extent(Horizontal))
	assert.Equal(t, 3, buf.Extent(Vertical))
}

func TestNewPixelBuffer_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		samples       int
	}{
		{"zero width", 0, 10, 0},
		{"negative height", 10, -1, 0},
		{"short samples", 2, 2, 15},
		{"long samples", 2, 2, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPixelBuffer(tt.width, tt.height, make([]uint8, tt.samples))
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestPixelBuffer_Immutable(t *testing.T) {
	samples := []uint8{1, 2, 3, 4}
	buf, err := NewPixelBuffer(1, 1, samples)
	require.NoError(t, err)

	samples[0] = 99
	assert.Equal(t, uint8(1), buf.Samples()[0], "constructor must copy its input")

	out := buf.Samples()
	out[1] = 99
	assert.Equal(t, uint8(2), buf.Samples()[1], "Samples must return a copy")
}

func TestFromImage_MovesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 10))
	src.Set(5, 5, color.RGBA{10, 20, 30, 255})

	buf, err := FromImage(src)
	require.NoError(t, err)
	assert.Equal(t, 10, buf.Width())
	assert.Equal(t, 5, buf.Height())
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, at(buf, 0, 0))

	_, err = FromImage(image.NewRGBA(image.Rect(0, 0, 0, 4)))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		in   string
		want Axis
	}{
		{"horizontal", Horizontal},
		{"H", Horizontal},
		{" vertical ", Vertical},
		{"v", Vertical},
	}
	for _, tt := range tests {
		got, err := ParseAxis(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAxis("diagonal")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEstimate_KnownOverlap(t *testing.T) {
	imgs := bands(t)

	res := Estimate(imgs[0], imgs[1], Horizontal)
	assert.Equal(t, 30, res.Amount)
	assert.Zero(t, res.Score)
	assert.True(t, res.Found())
}

func TestEstimate_Vertical(t *testing.T) {
	scene := noise(t, 60, 150, 3)
	img := scene.Image().(*image.NRGBA)
	top, err := FromImage(img.SubImage(image.Rect(0, 0, 60, 100)))
	require.NoError(t, err)
	bottom, err := FromImage(img.SubImage(image.Rect(0, 60, 60, 150)))
	require.NoError(t, err)

	res := Estimate(top, bottom, Vertical)
	assert.Equal(t, 40, res.Amount)

	// Along the other axis the two halves share nothing.
	assert.Equal(t, 0, Estimate(top, bottom, Horizontal).Amount)
}

func TestEstimate_PrefersLargestAcceptable(t *testing.T) {
	// Identical solid images match at every candidate; the largest must win.
	a := solid(t, 80, 40, color.NRGBA{200, 10, 10, 255})
	b := solid(t, 50, 40, color.NRGBA{200, 10, 10, 255})

	res := Estimate(a, b, Horizontal)
	assert.Equal(t, 49, res.Amount)
}

func TestEstimate_ToleratesSmallDifferences(t *testing.T) {
	a := solid(t, 100, 30, color.NRGBA{100, 100, 100, 255})
	b := solid(t, 100, 30, color.NRGBA{109, 109, 109, 255})
	c := solid(t, 100, 30, color.NRGBA{110, 110, 110, 255})

	assert.Equal(t, 99, Estimate(a, b, Horizontal).Amount, "difference 9 is below the threshold")
	assert.Equal(t, 0, Estimate(a, c, Horizontal).Amount, "difference 10 is not below the threshold")
}

func TestEstimate_IgnoresAlpha(t *testing.T) {
	a := solid(t, 60, 30, color.NRGBA{50, 60, 70, 255})
	b := solid(t, 60, 30, color.NRGBA{50, 60, 70, 0})

	assert.Equal(t, 59, Estimate(a, b, Horizontal).Amount)
}

func TestEstimate_NoSharedContent(t *testing.T) {
	a := noise(t, 100, 100, 1)
	b := noise(t, 100, 100, 2)

	res := Estimate(a, b, Horizontal)
	assert.Equal(t, 0, res.Amount)
	assert.False(t, res.Found())

	out, err := Composite(a, b, Horizontal, res.Amount)
	require.NoError(t, err)
	assert.Equal(t, 200, out.Width())
	assert.Equal(t, 100, out.Height())
}

func TestEstimate_BelowMinOverlap(t *testing.T) {
	a := solid(t, 19, 50, color.NRGBA{1, 2, 3, 255})
	b := solid(t, 100, 50, color.NRGBA{1, 2, 3, 255})
	assert.Equal(t, 0, Estimate(a, b, Horizontal).Amount)

	// An extent of exactly MinOverlap leaves no candidate either, because the
	// search starts one below the smaller extent.
	c := solid(t, 20, 50, color.NRGBA{1, 2, 3, 255})
	assert.Equal(t, 0, Estimate(c, b, Horizontal).Amount)

	d := solid(t, 21, 50, color.NRGBA{1, 2, 3, 255})
	assert.Equal(t, 20, Estimate(d, b, Horizontal).Amount)
}

func TestEstimate_MismatchedCrossExtent(t *testing.T) {
	scene := noise(t, 150, 80, 11)
	img := scene.Image().(*image.NRGBA)
	left, err := FromImage(img.SubImage(image.Rect(0, 0, 100, 80)))
	require.NoError(t, err)
	// Shorter right image: only the top 50 rows are compared.
	right, err := FromImage(img.SubImage(image.Rect(75, 0, 150, 50)))
	require.NoError(t, err)

	assert.Equal(t, 25, Estimate(left, right, Horizontal).Amount)
}

func TestEstimate_Deterministic(t *testing.T) {
	a := noise(t, 90, 60, 5)
	b := noise(t, 90, 60, 6)
	imgs := bands(t)

	for i := 0; i < 3; i++ {
		assert.Equal(t, Estimate(a, b, Vertical), Estimate(a, b, Vertical))
		assert.Equal(t, Estimate(imgs[1], imgs[2], Horizontal), Estimate(imgs[1], imgs[2], Horizontal))
	}
}

func TestEstimate_ThresholdProperty(t *testing.T) {
	// A gradient makes many offsets plausible; check the accepted one against
	// an exhaustive scan of the larger candidates.
	samples := make([]uint8, 120*40*4)
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			i := (y*120 + x) * 4
			samples[i], samples[i+1], samples[i+2], samples[i+3] = uint8(x*2), uint8(y), 0, 255
		}
	}
	scene, err := NewPixelBuffer(120, 40, samples)
	require.NoError(t, err)
	a := window(t, scene, 0, 80)
	b := window(t, scene, 30, 90)

	res := Estimate(a, b, Horizontal)
	require.True(t, res.Found())
	assert.Less(t, Score(a, b, Horizontal, res.Amount), Threshold)
	assert.InDelta(t, Score(a, b, Horizontal, res.Amount), res.Score, 1e-9)

	for k := min(a.Width(), b.Width()) - 1; k > res.Amount; k-- {
		assert.GreaterOrEqual(t, Score(a, b, Horizontal, k), Threshold, "candidate %d", k)
	}
}

func TestEngine_CustomOptions(t *testing.T) {
	a := solid(t, 30, 10, color.NRGBA{0, 0, 0, 255})
	b := solid(t, 30, 10, color.NRGBA{15, 15, 15, 255})

	assert.Equal(t, 0, Estimate(a, b, Horizontal).Amount)

	loose := NewEngine(Options{MinOverlap: 5, Threshold: 20})
	assert.Equal(t, 29, loose.Estimate(a, b, Horizontal).Amount)

	defaults := NewEngine(Options{})
	assert.Equal(t, MinOverlap, defaults.Options().MinOverlap)
	assert.Equal(t, Threshold, defaults.Options().Threshold)
}

func TestScore_OutOfRange(t *testing.T) {
	a := solid(t, 10, 10, color.NRGBA{})
	assert.Equal(t, -1.0, Score(a, a, Horizontal, 0))
	assert.Equal(t, -1.0, Score(a, a, Horizontal, 11))
	assert.Equal(t, 0.0, Score(a, a, Horizontal, 10))
}

func TestComposite_Extent(t *testing.T) {
	a := solid(t, 40, 30, color.NRGBA{255, 0, 0, 255})
	b := solid(t, 50, 20, color.NRGBA{0, 0, 255, 255})

	for _, axis := range []Axis{Horizontal, Vertical} {
		limit := min(a.Extent(axis), b.Extent(axis))
		for _, overlap := range []int{0, 1, limit / 2, limit - 1} {
			out, err := Composite(a, b, axis, overlap)
			require.NoError(t, err)
			assert.Equal(t, a.Extent(axis)+b.Extent(axis)-overlap, out.Extent(axis), "%s overlap %d", axis, overlap)
			assert.Len(t, out.Samples(), out.Width()*out.Height()*4)
		}
	}
}

func TestComposite_Horizontal(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	a := solid(t, 40, 30, red)
	b := solid(t, 50, 20, blue)

	out, err := Composite(a, b, Horizontal, 10)
	require.NoError(t, err)
	assert.Equal(t, 80, out.Width())
	assert.Equal(t, 30, out.Height())

	assert.Equal(t, red, at(out, 29, 0))
	assert.Equal(t, blue, at(out, 30, 0), "b overwrites the shared columns")
	assert.Equal(t, blue, at(out, 79, 19))
	assert.Equal(t, red, at(out, 10, 25))
	assert.Equal(t, color.NRGBA{}, at(out, 50, 25), "uncovered pixels stay transparent")

	// Inputs are untouched.
	assert.Equal(t, red, at(a, 39, 0))
	assert.Equal(t, 40, a.Width())
}

func TestComposite_Vertical(t *testing.T) {
	green := color.NRGBA{0, 255, 0, 255}
	gray := color.NRGBA{90, 90, 90, 255}
	a := solid(t, 20, 40, green)
	b := solid(t, 30, 25, gray)

	out, err := Composite(a, b, Vertical, 5)
	require.NoError(t, err)
	assert.Equal(t, 30, out.Width())
	assert.Equal(t, 60, out.Height())
	assert.Equal(t, green, at(out, 0, 34))
	assert.Equal(t, gray, at(out, 0, 35))
	assert.Equal(t, color.NRGBA{}, at(out, 25, 0))
}

func TestComposite_Background(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	eng := NewEngine(Options{Background: white})
	a := solid(t, 10, 10, color.NRGBA{1, 1, 1, 255})
	b := solid(t, 10, 5, color.NRGBA{2, 2, 2, 255})

	out, err := eng.Composite(a, b, Horizontal, 0)
	require.NoError(t, err)
	assert.Equal(t, white, at(out, 15, 8))
}

func TestComposite_InvalidOverlap(t *testing.T) {
	a := solid(t, 10, 10, color.NRGBA{})
	b := solid(t, 20, 10, color.NRGBA{})

	for _, overlap := range []int{-1, 10, 11} {
		_, err := Composite(a, b, Horizontal, overlap)
		assert.ErrorIs(t, err, ErrInvalidArgument, "overlap %d", overlap)
	}
}

func TestReduce_ThreeImageChain(t *testing.T) {
	res, err := Reduce(bands(t), Horizontal)
	require.NoError(t, err)

	assert.Equal(t, 240, res.Image.Width())
	assert.Equal(t, 100, res.Image.Height())
	require.Len(t, res.Seams, 2)
	assert.Equal(t, Seam{Index: 1, Overlap: 30, Found: true, Offset: 70}, res.Seams[0])
	assert.Equal(t, Seam{Index: 2, Overlap: 30, Found: true, Offset: 140}, res.Seams[1])
	assert.Empty(t, res.Warnings())

	// The chain reassembles the original scene exactly.
	assert.Equal(t, noise(t, 240, 100, 7).Samples(), res.Image.Samples())
}

func TestReduce_NoOverlapIsWarning(t *testing.T) {
	imgs := []*PixelBuffer{noise(t, 50, 40, 1), noise(t, 60, 40, 2)}

	res, err := Reduce(imgs, Horizontal)
	require.NoError(t, err)
	assert.Equal(t, 110, res.Image.Width())
	require.Len(t, res.Warnings(), 1)
	assert.Equal(t, 1, res.Warnings()[0].Index)
	assert.Equal(t, 50, res.Warnings()[0].Offset, "abutted image starts where the first ends")
}

func TestReduce_InsufficientInputs(t *testing.T) {
	_, err := Reduce(nil, Horizontal)
	assert.ErrorIs(t, err, ErrInsufficientInputs)

	_, err = Reduce([]*PixelBuffer{solid(t, 5, 5, color.NRGBA{})}, Vertical)
	assert.ErrorIs(t, err, ErrInsufficientInputs)
}

func TestReduce_Deterministic(t *testing.T) {
	imgs := bands(t)
	first, err := Reduce(imgs, Horizontal)
	require.NoError(t, err)
	second, err := Reduce(imgs, Horizontal)
	require.NoError(t, err)

	assert.Equal(t, first.Seams, second.Seams)
	assert.Equal(t, first.Image.Samples(), second.Image.Samples())
}

func TestReduceContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(DefaultOptions()).ReduceContext(ctx, bands(t), Horizontal)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOverlapStitcher(t *testing.T) {
	out, err := OverlapStitcher{Axis: Horizontal}.Stitch(bands(t))
	require.NoError(t, err)
	assert.Equal(t, 240, out.Width())
}

func TestStatus_Err(t *testing.T) {
	assert.NoError(t, StatusOK.Err())
	for _, s := range []Status{StatusNeedMoreImages, StatusHomographyFailure, StatusCameraParamsFailure} {
		err := s.Err()
		assert.ErrorIs(t, err, ErrStitchFailed)
		assert.Contains(t, err.Error(), s.String())
	}
}

func TestDescribe(t *testing.T) {
	decodeErr := &DecodeError{Source: "a.png", Err: errors.New("bad header")}
	assert.ErrorIs(t, decodeErr, ErrDecode)
	assert.Contains(t, Describe(nil, decodeErr), "Could not read one of your images")
	assert.Contains(t, Describe(nil, ErrInsufficientInputs), "Stitching failed")

	good, err := Reduce(bands(t), Horizontal)
	require.NoError(t, err)
	assert.Equal(t, "Stitched 240x100", Describe(good, nil))

	weak, err := Reduce([]*PixelBuffer{noise(t, 30, 30, 1), noise(t, 30, 30, 2)}, Horizontal)
	require.NoError(t, err)
	assert.Contains(t, Describe(weak, nil), "1 seam(s) had no detected overlap")
}
