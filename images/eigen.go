package images

import (
	"github.com/chewxy/math32"
)

// Channel layout of an eigensystem image.
const (
	// EigenValue1 is the larger eigenvalue.
	EigenValue1 = 0
	// EigenValue2 is the smaller eigenvalue.
	EigenValue2 = 1
	// EigenVector1X, EigenVector1Y are the unit eigenvector of EigenValue1.
	EigenVector1X = 2
	EigenVector1Y = 3
	// EigenVector2X, EigenVector2Y are the unit eigenvector of EigenValue2.
	EigenVector2X = 4
	EigenVector2Y = 5

	eigenChannels = 6
)

// DefaultEigenSensitivity is the eigenvalue threshold used by the region
// classification view and by the Harris detector.
const DefaultEigenSensitivity float32 = 0.001

// EigenSystem is a 6-channel image of per-pixel structure tensor
// eigensystems: (λ1, λ2, ex1, ey1, ex2, ey2) with λ1 >= λ2.
//
// The eigenvalues are computed as sum ± sqrt_term without the conventional
// halving, so they come out at twice the tensor's true scale. Downstream
// thresholds (DefaultEigenSensitivity, the Harris threshold) are calibrated
// against this scaling, so it is preserved rather than corrected.
type EigenSystem struct {
	*Image
}

// ComputeEigenSystem decomposes every pixel's structure tensor.
//
// Arguments:
//   - sm: Second moment image, typically pre-smoothed via Smooth.
//
// Returns:
//   - *EigenSystem: Newly allocated eigensystem image.
func ComputeEigenSystem(sm *SecondMoment) *EigenSystem {
	im, _ := NewImage(sm.Rows, sm.Cols, eigenChannels)
	n := sm.Rows * sm.Cols
	for i := 0; i < n; i++ {
		a11 := sm.Data[i*secondMomentChannels+SecondMomentA11]
		a22 := sm.Data[i*secondMomentChannels+SecondMomentA22]
		a12 := sm.Data[i*secondMomentChannels+SecondMomentA12]
		a21 := a12

		diff := a11 - a22
		sqrtTerm := math32.Sqrt(4*a12*a21 + diff*diff)
		sum := a11 + a22
		lambda1 := sum + sqrtTerm
		lambda2 := sum - sqrtTerm

		x1, y1 := eigenVector(a11, a22, a12, lambda1)
		x2, y2 := eigenVector(a11, a22, a12, lambda2)

		base := i * eigenChannels
		im.Data[base+EigenValue1] = lambda1
		im.Data[base+EigenValue2] = lambda2
		im.Data[base+EigenVector1X] = x1
		im.Data[base+EigenVector1Y] = y1
		im.Data[base+EigenVector2X] = x2
		im.Data[base+EigenVector2Y] = y2
	}
	return &EigenSystem{Image: im}
}

// eigenVector solves (A - λI)v = 0 for a unit vector. A zero eigenvalue
// yields the zero vector. When the first row degenerates (a11 == λ) the
// second row is used instead.
func eigenVector(a11, a22, a12, lambda float32) (float32, float32) {
	if lambda == 0 {
		return 0, 0
	}
	var x, y float32
	switch {
	case a11-lambda != 0:
		x = -a12 / (a11 - lambda)
		y = 1
	case a22-lambda != 0:
		x = 1
		y = -a12 / (a22 - lambda)
	default:
		// Isotropic tensor; every direction is an eigenvector.
		x = 1
		y = 0
	}
	norm := math32.Sqrt(x*x + y*y)
	return x / norm, y / norm
}

// RegionClass labels a pixel's local structure. This is a visualization
// view; no detector consumes it.
type RegionClass uint8

const (
	// RegionUniform marks pixels whose both eigenvalues fall below the
	// sensitivity threshold.
	RegionUniform RegionClass = iota
	// RegionEdge marks pixels with exactly one eigenvalue above it.
	RegionEdge
	// RegionCorner marks pixels with both eigenvalues above it.
	RegionCorner
)

// Classify thresholds both eigenvalues against sensitivity and labels every
// pixel uniform, edge or corner.
//
// Arguments:
//   - sensitivity: Eigenvalue threshold; DefaultEigenSensitivity when <= 0
//     is not substituted, callers pass the constant explicitly.
//
// Returns:
//   - []RegionClass: Row-major per-pixel labels, len == Rows*Cols.
func (es *EigenSystem) Classify(sensitivity float32) []RegionClass {
	out := make([]RegionClass, es.Rows*es.Cols)
	for i := range out {
		l1 := es.Data[i*eigenChannels+EigenValue1]
		l2 := es.Data[i*eigenChannels+EigenValue2]
		switch {
		case l1 > sensitivity && l2 > sensitivity:
			out[i] = RegionCorner
		case l1 > sensitivity || l2 > sensitivity:
			out[i] = RegionEdge
		default:
			out[i] = RegionUniform
		}
	}
	return out
}
