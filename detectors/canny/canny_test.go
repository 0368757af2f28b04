package canny

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matajoh/visionnet-sub000/images"
)

// ridgeGradient builds a gradient image with a vertical one-pixel ridge of
// the given magnitude at column col, gradient pointing in +x.
func ridgeGradient(rows, cols, col int, magnitude float32) *images.Gradient {
	g := images.NewGradient(rows, cols)
	for row := 1; row < rows-1; row++ {
		g.Set(row, col, images.GradientMagnitude, magnitude)
		g.Set(row, col, images.GradientX, magnitude)
	}
	return g
}

// noiseGradient fills a gradient image with deterministic pseudo-random
// magnitudes and +x direction.
func noiseGradient(rows, cols int) *images.Gradient {
	g := images.NewGradient(rows, cols)
	seed := uint32(7)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			seed = seed*1664525 + 1013904223
			m := float32(seed % 256)
			g.Set(row, col, images.GradientMagnitude, m)
			g.Set(row, col, images.GradientX, m)
		}
	}
	return g
}

func TestDetectRejectsBadFractions(t *testing.T) {
	g := ridgeGradient(8, 8, 4, 10)

	_, err := Detect(g, Options{Low: -0.1, High: 0.8})
	assert.Error(t, err, "negative low fraction should be rejected")
	_, err = Detect(g, Options{Low: 0.3, High: 1.5})
	assert.Error(t, err, "high fraction above 1 should be rejected")
}

func TestDetectSingleRidge(t *testing.T) {
	g := ridgeGradient(10, 10, 5, 10)

	mask, err := Detect(g, DefaultOptions())
	require.NoError(t, err)

	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			want := col == 5 && row >= 1 && row <= 8
			assert.Equal(t, want, mask.At(row, col),
				"ridge pixels and only ridge pixels are edges (row=%d col=%d)", row, col)
		}
	}
}

func TestDetectBorderInvariant(t *testing.T) {
	g := noiseGradient(16, 12)

	mask, err := Detect(g, DefaultOptions())
	require.NoError(t, err)

	for col := 0; col < 12; col++ {
		assert.False(t, mask.At(0, col), "row 0 must stay edge-free")
		assert.False(t, mask.At(15, col), "last row must stay edge-free")
	}
	for row := 0; row < 16; row++ {
		assert.False(t, mask.At(row, 0), "column 0 must stay edge-free")
		assert.False(t, mask.At(row, 11), "last column must stay edge-free")
	}
}

func TestDetectZeroGradient(t *testing.T) {
	g := images.NewGradient(8, 8)

	mask, err := Detect(g, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, mask.Count(), "a zero-magnitude image has no edges")
}

func TestDetectHighThresholdMonotonicity(t *testing.T) {
	g := noiseGradient(32, 32)

	prev := -1
	for _, high := range []float32{0.2, 0.5, 0.8, 0.95} {
		mask, err := Detect(g, Options{Low: 0.33, High: high})
		require.NoError(t, err)
		count := mask.Count()
		if prev >= 0 {
			assert.LessOrEqual(t, count, prev,
				"raising the high fraction must never add edges (high=%v)", high)
		}
		prev = count
	}
}

func TestDetectDeterministic(t *testing.T) {
	g := noiseGradient(24, 24)

	first, err := Detect(g, DefaultOptions())
	require.NoError(t, err)
	second, err := Detect(g, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first.Data, second.Data, "identical input must produce bit-identical masks")
}

func TestDetectHysteresisAnnexesWeakNeighbors(t *testing.T) {
	// A ridge whose lower half is weaker: strong pixels seed the fill and
	// annex the connected weak pixels above the low threshold.
	g := images.NewGradient(12, 8)
	for row := 1; row < 11; row++ {
		m := float32(255)
		if row > 5 {
			m = 100
		}
		g.Set(row, 4, images.GradientMagnitude, m)
		g.Set(row, 4, images.GradientX, m)
	}

	mask, err := Detect(g, Options{Low: 0.33, High: 0.80})
	require.NoError(t, err)
	for row := 1; row < 11; row++ {
		assert.True(t, mask.At(row, 4), "weak but connected ridge pixels are annexed (row=%d)", row)
	}
}

func TestDetectProgressCallback(t *testing.T) {
	g := ridgeGradient(10, 10, 5, 10)
	stages := map[string]int{}

	_, err := Detect(g, Options{Low: 0.33, High: 0.80, Progress: func(stage string, done, total int) {
		stages[stage]++
		assert.LessOrEqual(t, done, total, "progress must never exceed its total")
	}})
	require.NoError(t, err)
	assert.Positive(t, stages[StageSuppress], "suppression progress should be reported")
	assert.Positive(t, stages[StageHysteresis], "hysteresis progress should be reported")
}
