package images

import (
	"github.com/chewxy/math32"
	"gorgonia.org/tensor"
)

// NormalizePatch flattens a patch into a zero-mean, unit-variance vector.
// The standard deviation is the population form (no Bessel correction).
//
// A constant patch has zero variance; the division then produces NaN (or
// ±Inf) values, which are propagated as-is. Callers feeding patches into
// descriptor pipelines are responsible for rejecting constant patches
// upstream.
//
// Arguments:
//   - p: Patch of arbitrary rows x cols.
//
// Returns:
//   - []float32: Flattened row-major vector, len == rows*cols.
func NormalizePatch(p *Plane) []float32 {
	n := len(p.Data)
	out := make([]float32, n)
	if n == 0 {
		return out
	}

	var sum float32
	for _, v := range p.Data {
		sum += v
	}
	mean := sum / float32(n)

	var varSum float32
	for _, v := range p.Data {
		d := v - mean
		varSum += d * d
	}
	std := math32.Sqrt(varSum / float32(n))

	for i, v := range p.Data {
		out[i] = (v - mean) / std
	}
	return out
}

// NormalizePatchTensor is NormalizePatch with a tensor-valued result, for
// callers assembling descriptor matrices out of many patches.
func NormalizePatchTensor(p *Plane) *tensor.Dense {
	vec := NormalizePatch(p)
	return tensor.New(tensor.WithShape(len(vec)), tensor.WithBacking(vec))
}
