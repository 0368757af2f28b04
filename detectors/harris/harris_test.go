package harris

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matajoh/visionnet-sub000/images"
)

// mixedGradientBlock builds a gradient image whose interior block carries
// alternating strong x and y gradients. After smoothing, pixels inside the
// block have a full-rank structure tensor (both eigenvalues large), the
// signature of a corner region.
func mixedGradientBlock(rows, cols int, block images.Rect) *images.Gradient {
	g := images.NewGradient(rows, cols)
	for row := block.Y1; row < block.Y2; row++ {
		for col := block.X1; col < block.X2; col++ {
			if (row+col)%2 == 0 {
				g.Set(row, col, images.GradientX, 1)
			} else {
				g.Set(row, col, images.GradientY, 1)
			}
		}
	}
	return g
}

func TestDetectValidation(t *testing.T) {
	g := images.NewGradient(8, 8)

	_, err := Detect(g, Options{Threshold: -0.5, Sigma: 1})
	assert.Error(t, err, "negative thresholds should be rejected")
	_, err = Detect(g, Options{Threshold: 0.001, Sigma: 0})
	assert.Error(t, err, "non-positive sigma should be rejected")
}

func TestDetectFindsMixedGradientRegion(t *testing.T) {
	block := images.Rect{X1: 6, Y1: 6, X2: 12, Y2: 12}
	g := mixedGradientBlock(18, 18, block)

	corners, err := Detect(g, DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, corners, "the mixed-gradient block must produce corners")

	// All detections concentrate in or immediately around the block; the
	// smoothing support widens the response by a few pixels.
	for _, p := range corners {
		assert.GreaterOrEqual(t, p.X, block.X1-3, "corner %v strays too far left", p)
		assert.LessOrEqual(t, p.X, block.X2+3, "corner %v strays too far right", p)
		assert.GreaterOrEqual(t, p.Y, block.Y1-3, "corner %v strays too far up", p)
		assert.LessOrEqual(t, p.Y, block.Y2+3, "corner %v strays too far down", p)
	}
	assert.Contains(t, corners, image.Point{X: 9, Y: 9}, "the block center must qualify")
}

func TestDetectZeroGradientHasNoCorners(t *testing.T) {
	corners, err := Detect(images.NewGradient(10, 10), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, corners, "a flat image has no corners")
}

func TestCornersThresholdBoundaryIsExclusive(t *testing.T) {
	im, err := images.NewImage(1, 2, 6)
	require.NoError(t, err)
	es := &images.EigenSystem{Image: im}
	threshold := float32(0.001)

	// Pixel 0 sits exactly on the threshold, pixel 1 just above it.
	es.Set(0, 0, images.EigenValue1, threshold)
	es.Set(0, 0, images.EigenValue2, threshold)
	es.Set(0, 1, images.EigenValue1, threshold*2)
	es.Set(0, 1, images.EigenValue2, threshold*2)

	corners := Corners(es, threshold)
	assert.Equal(t, []image.Point{{X: 1, Y: 0}}, corners,
		"eigenvalues equal to the threshold must not qualify; strictly above must")
}

func TestCornersRasterScanOrder(t *testing.T) {
	im, err := images.NewImage(2, 2, 6)
	require.NoError(t, err)
	es := &images.EigenSystem{Image: im}
	for _, p := range []image.Point{{X: 1, Y: 0}, {X: 0, Y: 1}} {
		es.Set(p.Y, p.X, images.EigenValue1, 1)
		es.Set(p.Y, p.X, images.EigenValue2, 1)
	}

	corners := Corners(es, 0.001)
	assert.Equal(t, []image.Point{{X: 1, Y: 0}, {X: 0, Y: 1}}, corners,
		"corners are reported in row-major discovery order")
}

func TestDetectDeterministic(t *testing.T) {
	g := mixedGradientBlock(16, 16, images.Rect{X1: 4, Y1: 4, X2: 12, Y2: 12})

	first, err := Detect(g, DefaultOptions())
	require.NoError(t, err)
	second, err := Detect(g, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second, "repeated detection must be bit-identical")
}
