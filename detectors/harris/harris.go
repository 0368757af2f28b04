// Package harris - Harris corner detection via the structure tensor
// eigensystem.
//
// This is the thresholded-eigenvalue form of the detector: a pixel is a
// corner when both eigenvalues of its smoothed second moment tensor exceed
// the threshold. There is no corner-response function and no non-maximum
// suppression, so qualifying pixels cluster around strong corners; callers
// wanting isolated points must filter downstream.
package harris

import (
	"image"

	"github.com/pkg/errors"

	"github.com/matajoh/visionnet-sub000/images"
)

// DefaultSigma is the Gaussian smoothing applied to the second moment
// tensor before eigen-decomposition.
const DefaultSigma float32 = 1

// Options configures a Detect call.
type Options struct {
	// Threshold is the eigenvalue threshold. Both eigenvalues must exceed
	// it strictly for a pixel to be reported.
	Threshold float32
	// Sigma is the second moment smoothing parameter.
	Sigma float32
}

// DefaultOptions returns the reference parameters: threshold 0.001 and
// sigma 1.
func DefaultOptions() Options {
	return Options{Threshold: images.DefaultEigenSensitivity, Sigma: DefaultSigma}
}

// Detect reports every pixel whose structure tensor eigenvalues both exceed
// the threshold.
//
// Arguments:
//   - g: Gradient image with gx and gy channels populated.
//   - opts: Detection parameters.
//
// Returns:
//   - []image.Point: Corner coordinates (X = column, Y = row) in raster-scan
//     discovery order.
//   - error: Non-nil for a negative threshold or non-positive sigma.
func Detect(g *images.Gradient, opts Options) ([]image.Point, error) {
	if opts.Threshold < 0 {
		return nil, errors.Errorf("harris: threshold must be non-negative, got %v", opts.Threshold)
	}
	if opts.Sigma <= 0 {
		return nil, errors.Errorf("harris: sigma must be positive, got %v", opts.Sigma)
	}

	sm := images.ComputeSecondMoment(g)
	smoothed, err := sm.Smooth(opts.Sigma)
	if err != nil {
		return nil, errors.Wrap(err, "harris: smoothing second moment image")
	}
	es := images.ComputeEigenSystem(smoothed)

	return Corners(es, opts.Threshold), nil
}

// Corners scans a precomputed eigensystem image and reports pixels whose
// eigenvalues both strictly exceed the threshold. Pixels with eigenvalues
// exactly equal to the threshold are not corners.
func Corners(es *images.EigenSystem, threshold float32) []image.Point {
	var corners []image.Point
	for row := 0; row < es.Rows; row++ {
		for col := 0; col < es.Cols; col++ {
			l1 := es.At(row, col, images.EigenValue1)
			l2 := es.At(row, col, images.EigenValue2)
			if l1 > threshold && l2 > threshold {
				corners = append(corners, image.Point{X: col, Y: row})
			}
		}
	}
	return corners
}
