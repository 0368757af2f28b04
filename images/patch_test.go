package images

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePatchZeroMeanUnitVariance(t *testing.T) {
	p := NewPlane(3, 3)
	p.Data = []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}

	out := NormalizePatch(p)
	require.Len(t, out, 9)

	var mean float64
	for _, v := range out {
		mean += float64(v)
	}
	mean /= float64(len(out))
	assert.InDelta(t, 0, mean, 1e-6, "normalized patch must have zero mean")

	var variance float64
	for _, v := range out {
		variance += (float64(v) - mean) * (float64(v) - mean)
	}
	variance /= float64(len(out))
	assert.InDelta(t, 1, math.Sqrt(variance), 1e-5, "normalized patch must have unit population deviation")
}

func TestNormalizePatchConstantProducesNaN(t *testing.T) {
	p := NewPlane(2, 2)
	p.Data = []float32{7, 7, 7, 7}

	out := NormalizePatch(p)
	for _, v := range out {
		assert.True(t, math.IsNaN(float64(v)), "constant patches divide by zero deviation; the NaN is propagated, not masked")
	}
}

func TestNormalizePatchTensorShape(t *testing.T) {
	p := NewPlane(4, 5)
	for i := range p.Data {
		p.Data[i] = float32(i)
	}

	vec := NormalizePatchTensor(p)
	assert.Equal(t, []int{20}, []int(vec.Shape()), "tensor output is the flattened vector")
	assert.Equal(t, 20, len(vec.Data().([]float32)))
}
