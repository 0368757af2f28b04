package images

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// secondMomentAt builds a 1x1 second moment image holding one tensor.
func secondMomentAt(a11, a22, a12 float32) *SecondMoment {
	im, _ := NewImage(1, 1, 3)
	im.Data[SecondMomentA11] = a11
	im.Data[SecondMomentA22] = a22
	im.Data[SecondMomentA12] = a12
	return &SecondMoment{Image: im}
}

func TestEigenValuesOrdered(t *testing.T) {
	tensors := [][3]float32{
		{2.5, 1.2, 0.7},
		{0.1, 4.0, -1.3},
		{3.0, 3.0, 0.0},
		{1.0, 1.0, 1.0},
	}
	for _, tc := range tensors {
		es := ComputeEigenSystem(secondMomentAt(tc[0], tc[1], tc[2]))
		l1 := es.At(0, 0, EigenValue1)
		l2 := es.At(0, 0, EigenValue2)
		assert.GreaterOrEqual(t, l1, l2, "lambda1 must never fall below lambda2 for tensor %v", tc)
	}
}

// The eigenvalues carry the reference doubled scale: halving them must
// reproduce the conventional eigenvalues of the symmetric tensor.
func TestEigenValuesAreDoubledConventionalValues(t *testing.T) {
	tensors := [][3]float32{
		{2.5, 1.2, 0.7},
		{0.1, 4.0, -1.3},
		{5.0, 0.5, 2.0},
	}
	for _, tc := range tensors {
		es := ComputeEigenSystem(secondMomentAt(tc[0], tc[1], tc[2]))

		sym := mat.NewSymDense(2, []float64{float64(tc[0]), float64(tc[2]), float64(tc[2]), float64(tc[1])})
		var eig mat.EigenSym
		require.True(t, eig.Factorize(sym, false), "gonum factorization should succeed")
		want := eig.Values(nil) // ascending

		assert.InDelta(t, want[1], float64(es.At(0, 0, EigenValue1))/2, 1e-4,
			"lambda1/2 must match the conventional larger eigenvalue for %v", tc)
		assert.InDelta(t, want[0], float64(es.At(0, 0, EigenValue2))/2, 1e-4,
			"lambda2/2 must match the conventional smaller eigenvalue for %v", tc)
	}
}

func TestEigenVectorsUnitLength(t *testing.T) {
	es := ComputeEigenSystem(secondMomentAt(2.5, 1.2, 0.7))
	for _, ch := range [][2]int{{EigenVector1X, EigenVector1Y}, {EigenVector2X, EigenVector2Y}} {
		x := es.At(0, 0, ch[0])
		y := es.At(0, 0, ch[1])
		assert.InDelta(t, 1, float64(math32.Hypot(x, y)), 1e-5, "eigenvectors must be unit length")
	}
}

func TestEigenZeroTensorYieldsZeroVectors(t *testing.T) {
	es := ComputeEigenSystem(secondMomentAt(0, 0, 0))
	for ch := 0; ch < 6; ch++ {
		assert.Equal(t, float32(0), es.At(0, 0, ch), "a zero tensor produces zero eigenvalues and zero vectors")
	}
}

func TestClassifyRegions(t *testing.T) {
	im, _ := NewImage(1, 3, 3)
	// Pixel 0: zero tensor (uniform). Pixel 1: rank one (edge).
	// Pixel 2: isotropic full rank (corner).
	im.Data[1*secondMomentChannels+SecondMomentA11] = 1
	im.Data[2*secondMomentChannels+SecondMomentA11] = 1
	im.Data[2*secondMomentChannels+SecondMomentA22] = 1
	es := ComputeEigenSystem(&SecondMoment{Image: im})

	classes := es.Classify(DefaultEigenSensitivity)
	require.Len(t, classes, 3)
	assert.Equal(t, RegionUniform, classes[0])
	assert.Equal(t, RegionEdge, classes[1])
	assert.Equal(t, RegionCorner, classes[2])
}

func TestSecondMomentFromGradient(t *testing.T) {
	g := NewGradient(1, 1)
	g.Data[GradientX] = 3
	g.Data[GradientY] = -2

	sm := ComputeSecondMoment(g)
	assert.Equal(t, float32(9), sm.At(0, 0, SecondMomentA11), "a11 = gx*gx")
	assert.Equal(t, float32(4), sm.At(0, 0, SecondMomentA22), "a22 = gy*gy")
	assert.Equal(t, float32(-6), sm.At(0, 0, SecondMomentA12), "a12 = gx*gy")
}
