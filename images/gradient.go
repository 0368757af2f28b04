package images

import (
	"github.com/chewxy/math32"
)

// Channel layout of a gradient image. The orientation channel is reserved;
// none of the detection kernels read it, but it is populated by
// SobelGradient for visualization consumers.
const (
	// GradientMagnitude is the per-pixel gradient strength.
	GradientMagnitude = 0
	// GradientOrientation is the gradient angle in radians (reserved).
	GradientOrientation = 1
	// GradientX is the horizontal derivative.
	GradientX = 2
	// GradientY is the vertical derivative.
	GradientY = 3

	gradientChannels = 4
)

// Gradient is a 4-channel image holding (magnitude, orientation, gx, gy) per
// pixel. It is the input of the Canny detector and the source of the second
// moment image consumed by Harris.
type Gradient struct {
	*Image
}

// NewGradient allocates a zero gradient image.
func NewGradient(rows, cols int) *Gradient {
	im, _ := NewImage(rows, cols, gradientChannels)
	return &Gradient{Image: im}
}

// SobelGradient computes the gradient image of an intensity image with the
// 3x3 Sobel operator. Border pixels keep zero gradient; the detectors never
// read them (Canny forces its 1-pixel border to no-edge regardless).
//
// Arguments:
//   - g: Source intensity image.
//
// Returns:
//   - *Gradient: Newly allocated gradient image of the same size.
func SobelGradient(g *Gray) *Gradient {
	out := NewGradient(g.Rows, g.Cols)
	rows, cols := g.Rows, g.Cols
	for row := 1; row < rows-1; row++ {
		for col := 1; col < cols-1; col++ {
			i := row*cols + col
			tl := float32(g.Data[i-cols-1])
			tc := float32(g.Data[i-cols])
			tr := float32(g.Data[i-cols+1])
			ml := float32(g.Data[i-1])
			mr := float32(g.Data[i+1])
			bl := float32(g.Data[i+cols-1])
			bc := float32(g.Data[i+cols])
			br := float32(g.Data[i+cols+1])

			gx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			gy := (bl + 2*bc + br) - (tl + 2*tc + tr)

			base := i * gradientChannels
			out.Data[base+GradientMagnitude] = math32.Hypot(gx, gy)
			out.Data[base+GradientOrientation] = math32.Atan2(gy, gx)
			out.Data[base+GradientX] = gx
			out.Data[base+GradientY] = gy
		}
	}
	return out
}

// Magnitude extracts the magnitude channel.
func (g *Gradient) Magnitude() *Plane {
	p, _ := g.ExtractChannel(GradientMagnitude)
	return p
}
