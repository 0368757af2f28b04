package images

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// Gray is a single-channel 8-bit intensity image, the input of the FAST
// segment test. Data is row-major, len == Rows*Cols.
type Gray struct {
	Rows int
	Cols int
	Data []uint8
}

// NewGray allocates a zero-filled intensity image.
func NewGray(rows, cols int) *Gray {
	return &Gray{Rows: rows, Cols: cols, Data: make([]uint8, rows*cols)}
}

// GrayFromImage converts any image.Image to an intensity image using the
// standard library's luminance model.
func GrayFromImage(img image.Image) *Gray {
	bounds := img.Bounds()
	g := NewGray(bounds.Dy(), bounds.Dx())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g.Data[i] = color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			i++
		}
	}
	return g
}

// At returns the intensity at (row, col).
func (g *Gray) At(row, col int) uint8 {
	return g.Data[row*g.Cols+col]
}

// Set writes the intensity at (row, col).
func (g *Gray) Set(row, col int, v uint8) {
	g.Data[row*g.Cols+col] = v
}

// Plane returns a float32 copy of the intensity image.
func (g *Gray) Plane() *Plane {
	p := NewPlane(g.Rows, g.Cols)
	for i, v := range g.Data {
		p.Data[i] = float32(v)
	}
	return p
}

// ToImage converts the intensity image back to a standard library grayscale
// image, e.g. for encoding to PNG.
func (g *Gray) ToImage() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, g.Cols, g.Rows))
	for row := 0; row < g.Rows; row++ {
		copy(out.Pix[row*out.Stride:row*out.Stride+g.Cols], g.Data[row*g.Cols:(row+1)*g.Cols])
	}
	return out
}

// Binary is a rows x cols boolean raster. The Canny detector produces one,
// with true marking edge pixels. Once returned it is final; nothing in this
// package mutates a produced mask.
type Binary struct {
	Rows int
	Cols int
	Data []bool
}

// NewBinary allocates an all-false mask.
func NewBinary(rows, cols int) *Binary {
	return &Binary{Rows: rows, Cols: cols, Data: make([]bool, rows*cols)}
}

// At returns the mask value at (row, col).
func (b *Binary) At(row, col int) bool {
	return b.Data[row*b.Cols+col]
}

// Set writes the mask value at (row, col).
func (b *Binary) Set(row, col int, v bool) {
	b.Data[row*b.Cols+col] = v
}

// Count returns the number of true pixels.
func (b *Binary) Count() int {
	n := 0
	for _, v := range b.Data {
		if v {
			n++
		}
	}
	return n
}

// ToGray renders the mask as an intensity image, 255 for true and 0 for
// false.
func (b *Binary) ToGray() *Gray {
	g := NewGray(b.Rows, b.Cols)
	for i, v := range b.Data {
		if v {
			g.Data[i] = 255
		}
	}
	return g
}

// CheckSameSize returns an error unless both rasters share dimensions. The
// detectors use it to validate multi-input operations up front.
func CheckSameSize(aRows, aCols, bRows, bCols int) error {
	if aRows != bRows || aCols != bCols {
		return errors.Errorf("images: size mismatch %dx%d vs %dx%d", aRows, aCols, bRows, bCols)
	}
	return nil
}
