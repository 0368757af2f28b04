// Package fast - FAST corner detection over intensity images.
//
// A pixel is a corner when a contiguous arc of at least SegmentLength of the
// 16 pixels on the radius-3 Bresenham ring around it is uniformly brighter
// than center+threshold or uniformly darker than center-threshold. The
// segment test is implemented as a circular arc scan over the ring, which
// produces corner sets identical to the compiled decision-tree form.
package fast

import (
	"image"

	"github.com/pkg/errors"

	"github.com/matajoh/visionnet-sub000/images"
)

// ringRadius is the Bresenham circle radius; candidates closer than this to
// any border are never tested.
const ringRadius = 3

// minCandidatesForNMS is the smallest candidate count non-maximum
// suppression operates on. With fewer candidates the detector returns an
// empty result; callers must handle empty output.
const minCandidatesForNMS = 5

// ring holds the 16 offsets of the radius-3 Bresenham circle, clockwise
// from 12 o'clock.
var ring = [16]image.Point{
	{0, -3}, {1, -3}, {2, -2}, {3, -1},
	{3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
	{-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

// Options configures a Detect call.
type Options struct {
	// Threshold is the intensity difference a ring pixel must clear to
	// count as brighter or darker than the center (the barrier).
	Threshold int
	// SegmentLength is the minimum contiguous arc length; must be 9, 10,
	// 11 or 12.
	SegmentLength int
	// NonMaxSuppression enables score-based suppression of adjacent
	// candidates.
	NonMaxSuppression bool
}

// DefaultOptions returns a commonly useful configuration: barrier 20,
// 9-pixel segments, suppression on.
func DefaultOptions() Options {
	return Options{Threshold: 20, SegmentLength: 9, NonMaxSuppression: true}
}

// xy is a transient corner candidate carrying its suppression score.
// Candidates are discarded once filtering completes.
type xy struct {
	x, y  int
	score int
}

// Detect locates FAST corners in an intensity image.
//
// Arguments:
//   - img: Single-channel intensity image.
//   - opts: Detection parameters.
//
// Returns:
//   - []image.Point: Corner coordinates in raster-scan discovery order.
//     When suppression is enabled and fewer than 5 candidates were found,
//     the result is empty.
//   - error: Non-nil if SegmentLength is outside {9,10,11,12}.
func Detect(img *images.Gray, opts Options) ([]image.Point, error) {
	if opts.SegmentLength < 9 || opts.SegmentLength > 12 {
		return nil, errors.Errorf("fast: segment length must be in {9,10,11,12}, got %d", opts.SegmentLength)
	}

	rows, cols := img.Rows, img.Cols
	var offsets [16]int
	for i, p := range ring {
		offsets[i] = p.Y*cols + p.X
	}

	var candidates []xy
	for row := ringRadius; row < rows-ringRadius; row++ {
		for col := ringRadius; col < cols-ringRadius; col++ {
			i := row*cols + col
			if !segmentTest(img.Data, i, offsets, opts.Threshold, opts.SegmentLength) {
				continue
			}
			c := xy{x: col, y: row}
			if opts.NonMaxSuppression {
				c.score = score(img.Data, i, offsets, opts.Threshold)
			}
			candidates = append(candidates, c)
		}
	}

	if !opts.NonMaxSuppression {
		return points(candidates), nil
	}
	return points(suppress(candidates, rows)), nil
}

// segmentTest reports whether any contiguous arc of at least segLen ring
// pixels is uniformly brighter than center+barrier or uniformly darker than
// center-barrier. The ring is walked twice so arcs wrapping past 12 o'clock
// are seen as contiguous; runs are capped at the ring length.
func segmentTest(data []uint8, center int, offsets [16]int, barrier, segLen int) bool {
	c := int(data[center])
	high := c + barrier
	low := c - barrier

	brightRun, darkRun := 0, 0
	for k := 0; k < 32; k++ {
		v := int(data[center+offsets[k&15]])
		if v > high {
			brightRun++
			if brightRun >= segLen {
				return true
			}
		} else {
			brightRun = 0
		}
		if v < low {
			darkRun++
			if darkRun >= segLen {
				return true
			}
		} else {
			darkRun = 0
		}
	}
	return false
}

// score is the suppression score of a candidate: the larger of the total
// overshoot above center+barrier and the total undershoot below
// center-barrier, summed over all 16 ring samples.
func score(data []uint8, center int, offsets [16]int, barrier int) int {
	c := int(data[center])
	high := c + barrier
	low := c - barrier

	over, under := 0, 0
	for _, off := range offsets {
		v := int(data[center+off])
		if v > high {
			over += v - high
		}
		if v < low {
			under += low - v
		}
	}
	if over > under {
		return over
	}
	return under
}

// suppress removes candidates with a strictly higher-scoring neighbor.
// Neighbors are the immediately adjacent candidates on the same row and all
// candidates in the rows above and below whose x lies within [x-1, x+1].
// Ties survive. Candidates arrive in raster-scan order, which makes a
// per-row start-index table sufficient to find the vertical neighbors.
func suppress(candidates []xy, rows int) []xy {
	n := len(candidates)
	if n < minCandidatesForNMS {
		return nil
	}

	// rowStart[y] is the index of the first candidate on row y, -1 if none.
	rowStart := make([]int, rows)
	for i := range rowStart {
		rowStart[i] = -1
	}
	for i, c := range candidates {
		if rowStart[c.y] == -1 {
			rowStart[c.y] = i
		}
	}

	kept := make([]xy, 0, n)
	for i, c := range candidates {
		if i > 0 {
			prev := candidates[i-1]
			if prev.y == c.y && prev.x == c.x-1 && prev.score > c.score {
				continue
			}
		}
		if i < n-1 {
			next := candidates[i+1]
			if next.y == c.y && next.x == c.x+1 && next.score > c.score {
				continue
			}
		}
		if beatenByRow(candidates, rowStart, c, c.y-1) || beatenByRow(candidates, rowStart, c, c.y+1) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// beatenByRow reports whether any candidate on row y with x within
// [c.x-1, c.x+1] scores strictly higher than c.
func beatenByRow(candidates []xy, rowStart []int, c xy, y int) bool {
	if y < 0 || y >= len(rowStart) || rowStart[y] == -1 {
		return false
	}
	for j := rowStart[y]; j < len(candidates); j++ {
		o := candidates[j]
		if o.y != y || o.x > c.x+1 {
			break
		}
		if o.x >= c.x-1 && o.score > c.score {
			return true
		}
	}
	return false
}

func points(candidates []xy) []image.Point {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]image.Point, len(candidates))
	for i, c := range candidates {
		out[i] = image.Point{X: c.x, Y: c.y}
	}
	return out
}
