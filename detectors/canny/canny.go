// Package canny - Canny edge detection over precomputed gradient images.
//
// The detector runs in two stages. Non-maximal suppression thins gradient
// ridges to single-pixel width by comparing every pixel against the two
// neighbors interpolated along its gradient direction. Hysteresis then
// selects thresholds from the magnitude histogram and grows edges outward
// from strong seed pixels through an 8-connected worklist flood fill.
package canny

import (
	"github.com/pkg/errors"

	"github.com/matajoh/visionnet-sub000/images"
)

// Default threshold fractions.
const (
	// DefaultLow is the low hysteresis threshold fraction.
	DefaultLow float32 = 0.33
	// DefaultHigh is the high hysteresis threshold fraction.
	DefaultHigh float32 = 0.80
)

// Tri-state pixel labels used between the two stages.
const (
	edge         uint8 = 0
	possibleEdge uint8 = 128
	noEdge       uint8 = 255
)

// Stage names reported through the progress callback.
const (
	StageSuppress   = "suppress"
	StageHysteresis = "hysteresis"
)

// Options configures a Detect call.
type Options struct {
	// Low is the low threshold fraction in [0,1]. The low hysteresis
	// threshold is Low * highthreshold.
	Low float32
	// High is the high threshold fraction in [0,1]. The high threshold is
	// chosen so that High of all candidate pixels fall below it.
	High float32
	// Progress, when non-nil, is invoked once per processed row with the
	// current stage name. It replaces any process-wide progress state; the
	// detector itself has none.
	Progress func(stage string, done, total int)
}

// DefaultOptions returns the reference threshold fractions (0.33, 0.80).
func DefaultOptions() Options {
	return Options{Low: DefaultLow, High: DefaultHigh}
}

// Detect runs the full Canny pipeline over a gradient image.
//
// Arguments:
//   - g: Gradient image with magnitude, gx and gy channels populated.
//   - opts: Threshold fractions and optional progress callback.
//
// Returns:
//   - *images.Binary: Edge mask; true marks edge pixels. All border pixels
//     are always false.
//   - error: Non-nil if either threshold fraction is outside [0,1].
func Detect(g *images.Gradient, opts Options) (*images.Binary, error) {
	if opts.Low < 0 || opts.Low > 1 {
		return nil, errors.Errorf("canny: low threshold fraction %v outside [0,1]", opts.Low)
	}
	if opts.High < 0 || opts.High > 1 {
		return nil, errors.Errorf("canny: high threshold fraction %v outside [0,1]", opts.High)
	}

	mag := g.Magnitude()
	result := suppressNonMaxima(g, mag, opts.Progress)
	hysteresis(result, mag, opts.Low, opts.High, opts.Progress)

	mask := images.NewBinary(g.Rows, g.Cols)
	for i, v := range result {
		if v == edge {
			mask.Data[i] = true
		}
	}
	return mask, nil
}

// suppressNonMaxima classifies every interior pixel NOEDGE or POSSIBLE_EDGE.
//
// The gradient direction is resolved into one of eight octants from the
// signs and relative magnitudes of gx and gy. Each octant selects the two
// neighbor pairs straddling the gradient line; their magnitudes are
// interpolated with the normalized direction components (xperp, yperp) and
// compared against the center magnitude. The pixel survives only when it is
// not exceeded on either side: mag1 <= 0 and mag2 < 0. A zero mag2 rejects
// the pixel, which breaks ties on flat plateaus in favor of a neighbor.
func suppressNonMaxima(g *images.Gradient, mag *images.Plane, progress func(string, int, int)) []uint8 {
	rows, cols := g.Rows, g.Cols
	result := make([]uint8, rows*cols)
	for i := range result {
		result[i] = noEdge
	}

	m := mag.Data
	for row := 1; row < rows-1; row++ {
		for col := 1; col < cols-1; col++ {
			i := row*cols + col
			m00 := m[i]
			if m00 == 0 {
				continue
			}
			gx := g.Data[i*g.Channels+images.GradientX]
			gy := g.Data[i*g.Channels+images.GradientY]
			xperp := -gx / m00
			yperp := gy / m00

			var mag1, mag2 float32
			if gx >= 0 {
				if gy >= 0 {
					if gx >= gy {
						// octant 0
						z1 := m[i-1]
						z2 := m[i-cols-1]
						mag1 = (m00-z1)*xperp + (z2-z1)*yperp
						z1 = m[i+1]
						z2 = m[i+cols+1]
						mag2 = (m00-z1)*xperp + (z2-z1)*yperp
					} else {
						// octant 1
						z1 := m[i-cols]
						z2 := m[i-cols-1]
						mag1 = (z1-z2)*xperp + (z1-m00)*yperp
						z1 = m[i+cols]
						z2 = m[i+cols+1]
						mag2 = (z1-z2)*xperp + (z1-m00)*yperp
					}
				} else {
					if gx >= -gy {
						// octant 7
						z1 := m[i-1]
						z2 := m[i+cols-1]
						mag1 = (m00-z1)*xperp + (z1-z2)*yperp
						z1 = m[i+1]
						z2 = m[i-cols+1]
						mag2 = (m00-z1)*xperp + (z1-z2)*yperp
					} else {
						// octant 6
						z1 := m[i+cols]
						z2 := m[i+cols-1]
						mag1 = (z1-z2)*xperp + (m00-z1)*yperp
						z1 = m[i-cols]
						z2 = m[i-cols+1]
						mag2 = (z1-z2)*xperp + (m00-z1)*yperp
					}
				}
			} else {
				if gy >= 0 {
					if -gx >= gy {
						// octant 3
						z1 := m[i+1]
						z2 := m[i-cols+1]
						mag1 = (z1-m00)*xperp + (z2-z1)*yperp
						z1 = m[i-1]
						z2 = m[i+cols-1]
						mag2 = (z1-m00)*xperp + (z2-z1)*yperp
					} else {
						// octant 2
						z1 := m[i-cols]
						z2 := m[i-cols+1]
						mag1 = (z2-z1)*xperp + (z1-m00)*yperp
						z1 = m[i+cols]
						z2 = m[i+cols-1]
						mag2 = (z2-z1)*xperp + (z1-m00)*yperp
					}
				} else {
					if -gx > -gy {
						// octant 4
						z1 := m[i+1]
						z2 := m[i+cols+1]
						mag1 = (z1-m00)*xperp + (z1-z2)*yperp
						z1 = m[i-1]
						z2 = m[i-cols-1]
						mag2 = (z1-m00)*xperp + (z1-z2)*yperp
					} else {
						// octant 5
						z1 := m[i+cols]
						z2 := m[i+cols+1]
						mag1 = (z1-z2)*xperp + (m00-z1)*yperp
						z1 = m[i-cols]
						z2 = m[i-cols-1]
						mag2 = (z1-z2)*xperp + (m00-z1)*yperp
					}
				}
			}

			if mag1 <= 0 && mag2 < 0 {
				result[i] = possibleEdge
			}
		}
		if progress != nil {
			progress(StageSuppress, row, rows-1)
		}
	}
	return result
}

// hysteresis promotes candidate pixels to edges. Thresholds are selected
// from a histogram of scaled magnitudes: the high threshold is the magnitude
// bin below which a High fraction of all candidates fall, the low threshold
// is Low times that. Every candidate at or above the high threshold seeds an
// 8-connected flood fill that annexes candidates above the low threshold.
//
// The fill runs over an explicit stack rather than recursing, so arbitrarily
// long edge chains cannot exhaust the call stack.
func hysteresis(result []uint8, mag *images.Plane, low, high float32, progress func(string, int, int)) {
	rows, cols := mag.Rows, mag.Cols

	// Scale magnitudes into [0,255] 16-bit values for histogram bucketing.
	maxMag := mag.MaxValue()
	scaled := make([]int16, len(mag.Data))
	if maxMag > 0 {
		scale := 255 / maxMag
		for i, v := range mag.Data {
			scaled[i] = int16(v * scale)
		}
	}

	var hist [256]int
	numEdges := 0
	for i, v := range result {
		if v == possibleEdge {
			hist[scaled[i]]++
			numEdges++
		}
	}
	if numEdges == 0 {
		return
	}

	maximumMag := 0
	for bin, count := range hist {
		if count != 0 {
			maximumMag = bin
		}
	}

	highCount := int(float32(numEdges)*high + 0.5)
	r := 1
	cum := hist[1]
	for r < maximumMag-1 && cum < highCount {
		r++
		cum += hist[r]
	}
	highThreshold := int16(r)
	lowThreshold := int16(float32(highThreshold)*low + 0.5)

	stack := make([]int, 0, 256)
	for i, v := range result {
		if v == possibleEdge && scaled[i] >= highThreshold {
			result[i] = edge
			stack = append(stack, i)
			followEdges(result, scaled, stack, cols, lowThreshold)
			stack = stack[:0]
		}
		if progress != nil && (i+1)%cols == 0 {
			progress(StageHysteresis, (i+1)/cols, rows)
		}
	}

	for i, v := range result {
		if v != edge {
			result[i] = noEdge
		}
	}
}

// followEdges drains the worklist, promoting every 8-connected candidate
// whose scaled magnitude exceeds the low threshold. Border pixels were
// labeled NOEDGE during suppression, so the neighborhood offsets never leave
// the raster.
func followEdges(result []uint8, scaled []int16, stack []int, cols int, lowThreshold int16) {
	offsets := [8]int{-cols - 1, -cols, -cols + 1, -1, 1, cols - 1, cols, cols + 1}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, off := range offsets {
			j := i + off
			if result[j] == possibleEdge && scaled[j] > lowThreshold {
				result[j] = edge
				stack = append(stack, j)
			}
		}
	}
}
