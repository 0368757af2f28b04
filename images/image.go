// Package images - dense array substrate and pixel-level building blocks for
// the feature detection kernels.
//
// Every container in this package stores its samples in a single contiguous,
// row-major buffer. Neighbor access inside hot loops is plain index
// arithmetic (index = (row*cols + col)*channels + channel); bounds are
// checked once at the abstraction boundary, not per pixel.
package images

import (
	"github.com/pkg/errors"
)

// Image is a rows x cols x channels dense float32 array.
//
// The channel layout is fixed by the producer of the image (see Gradient,
// SecondMoment and EigenSystem for the layouts used by the detection
// kernels). Kernels treat their inputs as read-only and return new images.
type Image struct {
	// Rows is the image height in pixels.
	Rows int
	// Cols is the image width in pixels.
	Cols int
	// Channels is the number of samples per pixel.
	Channels int
	// Data is the backing buffer, len == Rows*Cols*Channels.
	Data []float32
}

// NewImage allocates a zero-filled image.
//
// Arguments:
//   - rows: Image height in pixels.
//   - cols: Image width in pixels.
//   - channels: Samples per pixel.
//
// Returns:
//   - *Image: The allocated image.
//   - error: Non-nil if any dimension is not positive.
func NewImage(rows, cols, channels int) (*Image, error) {
	if rows <= 0 || cols <= 0 || channels <= 0 {
		return nil, errors.Errorf("images: invalid dimensions %dx%dx%d", rows, cols, channels)
	}
	return &Image{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Data:     make([]float32, rows*cols*channels),
	}, nil
}

// Index returns the flat buffer index of (row, col, channel). It performs no
// bounds checking; kernel loops are expected to have proven their coordinates
// in range at loop setup.
func (im *Image) Index(row, col, channel int) int {
	return (row*im.Cols+col)*im.Channels + channel
}

// At returns the sample at (row, col, channel).
func (im *Image) At(row, col, channel int) float32 {
	return im.Data[(row*im.Cols+col)*im.Channels+channel]
}

// Set writes the sample at (row, col, channel).
func (im *Image) Set(row, col, channel int, v float32) {
	im.Data[(row*im.Cols+col)*im.Channels+channel] = v
}

// InBounds reports whether (row, col) is a valid pixel coordinate.
func (im *Image) InBounds(row, col int) bool {
	return row >= 0 && row < im.Rows && col >= 0 && col < im.Cols
}

// Clone returns a deep copy of the image.
func (im *Image) Clone() *Image {
	data := make([]float32, len(im.Data))
	copy(data, im.Data)
	return &Image{Rows: im.Rows, Cols: im.Cols, Channels: im.Channels, Data: data}
}

// ExtractChannel copies one channel out of the image into a single-channel
// plane.
//
// Arguments:
//   - channel: Channel index to extract.
//
// Returns:
//   - *Plane: A newly allocated rows x cols plane.
//   - error: Non-nil if channel is out of range.
func (im *Image) ExtractChannel(channel int) (*Plane, error) {
	if channel < 0 || channel >= im.Channels {
		return nil, errors.Errorf("images: channel %d out of range [0,%d)", channel, im.Channels)
	}
	p := NewPlane(im.Rows, im.Cols)
	for r := 0; r < im.Rows; r++ {
		rowBase := r * im.Cols
		for c := 0; c < im.Cols; c++ {
			p.Data[rowBase+c] = im.Data[(rowBase+c)*im.Channels+channel]
		}
	}
	return p, nil
}

// Plane is a single-channel rows x cols float32 array. It is the working
// currency of the kernels: gradient magnitudes, eigenvalue slices and image
// patches are all planes.
type Plane struct {
	Rows int
	Cols int
	Data []float32
}

// NewPlane allocates a zero-filled plane.
func NewPlane(rows, cols int) *Plane {
	return &Plane{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// At returns the sample at (row, col).
func (p *Plane) At(row, col int) float32 {
	return p.Data[row*p.Cols+col]
}

// Set writes the sample at (row, col).
func (p *Plane) Set(row, col int, v float32) {
	p.Data[row*p.Cols+col] = v
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	data := make([]float32, len(p.Data))
	copy(data, p.Data)
	return &Plane{Rows: p.Rows, Cols: p.Cols, Data: data}
}

// Extract copies the region described by r into a new plane.
//
// Arguments:
//   - r: Region to extract; X2/Y2 are exclusive, image.Rectangle style.
//
// Returns:
//   - *Plane: The extracted (Y2-Y1) x (X2-X1) patch.
//   - error: Non-nil if the region is empty or falls outside the plane.
func (p *Plane) Extract(r Rect) (*Plane, error) {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > p.Cols || r.Y2 > p.Rows || r.X2 <= r.X1 || r.Y2 <= r.Y1 {
		return nil, errors.Errorf("images: region %+v outside %dx%d plane", r, p.Rows, p.Cols)
	}
	out := NewPlane(r.Y2-r.Y1, r.X2-r.X1)
	for row := r.Y1; row < r.Y2; row++ {
		src := p.Data[row*p.Cols+r.X1 : row*p.Cols+r.X2]
		copy(out.Data[(row-r.Y1)*out.Cols:], src)
	}
	return out, nil
}

// RectSum returns the sum of all samples inside r. The region is clipped to
// the plane before summing, so out-of-range rectangles contribute only their
// in-bounds part.
func (p *Plane) RectSum(r Rect) float32 {
	x1, y1, x2, y2 := r.X1, r.Y1, r.X2, r.Y2
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 > p.Cols {
		x2 = p.Cols
	}
	if y2 > p.Rows {
		y2 = p.Rows
	}
	var sum float32
	for row := y1; row < y2; row++ {
		base := row * p.Cols
		for col := x1; col < x2; col++ {
			sum += p.Data[base+col]
		}
	}
	return sum
}

// MaxValue returns the largest sample in the plane. Empty planes return 0.
func (p *Plane) MaxValue() float32 {
	if len(p.Data) == 0 {
		return 0
	}
	max := p.Data[0]
	for _, v := range p.Data[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
