package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageRejectsBadDimensions(t *testing.T) {
	_, err := NewImage(0, 4, 1)
	assert.Error(t, err, "zero rows should be rejected")
	_, err = NewImage(4, -1, 1)
	assert.Error(t, err, "negative cols should be rejected")
	_, err = NewImage(4, 4, 0)
	assert.Error(t, err, "zero channels should be rejected")
}

func TestImageIndexingRoundTrip(t *testing.T) {
	im, err := NewImage(3, 4, 2)
	require.NoError(t, err)

	im.Set(1, 2, 1, 42)
	assert.Equal(t, float32(42), im.At(1, 2, 1), "value should round-trip through At/Set")
	assert.Equal(t, float32(42), im.Data[im.Index(1, 2, 1)], "Index should address the same sample")
}

func TestExtractChannel(t *testing.T) {
	im, err := NewImage(2, 2, 3)
	require.NoError(t, err)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			im.Set(r, c, 1, float32(r*10+c))
		}
	}

	p, err := im.ExtractChannel(1)
	require.NoError(t, err)
	assert.Equal(t, float32(11), p.At(1, 1), "extracted plane should hold channel 1 samples")
	assert.Equal(t, float32(0), p.At(0, 0), "channel 1 of (0,0) was never written")

	_, err = im.ExtractChannel(3)
	assert.Error(t, err, "channel out of range should error")
}

func TestPlaneExtractAndRectSum(t *testing.T) {
	p := NewPlane(4, 4)
	for i := range p.Data {
		p.Data[i] = 1
	}
	p.Set(1, 1, 5)

	patch, err := p.Extract(Rect{X1: 1, Y1: 1, X2: 3, Y2: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, patch.Rows)
	assert.Equal(t, 2, patch.Cols)
	assert.Equal(t, float32(5), patch.At(0, 0), "patch should start at (1,1)")

	assert.Equal(t, float32(8), p.RectSum(Rect{X1: 1, Y1: 1, X2: 3, Y2: 3}), "2x2 region: 5+1+1+1")
	assert.Equal(t, float32(20), p.RectSum(Rect{X1: -5, Y1: -5, X2: 10, Y2: 10}), "out-of-range rect clips to the full plane")

	_, err = p.Extract(Rect{X1: 2, Y1: 2, X2: 6, Y2: 6})
	assert.Error(t, err, "region outside the plane should error")
	_, err = p.Extract(Rect{X1: 2, Y1: 2, X2: 2, Y2: 3})
	assert.Error(t, err, "empty region should error")
}

func TestRectAroundAndIoU(t *testing.T) {
	r := RectAround(5, 7, 2)
	assert.Equal(t, Rect{X1: 3, Y1: 5, X2: 8, Y2: 10}, r)
	assert.Equal(t, 25, r.Area())

	assert.Equal(t, float32(1), r.IoU(r), "identical regions overlap fully")
	assert.Equal(t, float32(0), r.IoU(Rect{X1: 100, Y1: 100, X2: 101, Y2: 101}), "disjoint regions do not overlap")

	half := Rect{X1: 3, Y1: 5, X2: 8, Y2: 15}
	assert.InDelta(t, 0.5, float64(r.IoU(half)), 1e-6, "nested region covering half the union")
}

func TestGrayAndBinaryConversions(t *testing.T) {
	g := NewGray(2, 3)
	g.Set(1, 2, 200)
	p := g.Plane()
	assert.Equal(t, float32(200), p.At(1, 2), "plane conversion should preserve intensities")

	img := g.ToImage()
	assert.Equal(t, uint8(200), img.GrayAt(2, 1).Y, "ToImage uses (x,y) addressing")

	b := NewBinary(2, 3)
	b.Set(0, 1, true)
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, uint8(255), b.ToGray().At(0, 1), "true pixels render as 255")
	assert.Equal(t, uint8(0), b.ToGray().At(0, 0), "false pixels render as 0")
}

func TestMaxValue(t *testing.T) {
	p := NewPlane(2, 2)
	p.Data = []float32{-3, -1, -2, -5}
	assert.Equal(t, float32(-1), p.MaxValue(), "all-negative planes report the largest sample, not zero")
}
