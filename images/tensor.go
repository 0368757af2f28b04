package images

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Tensor interchange. The detection kernels run over the flat buffers
// directly; these conversions exist for consumers that post-process
// detector outputs with tensor-based pipelines.

// ToTensor wraps the image's buffer in a rows x cols x channels dense
// tensor. The tensor shares the image's backing slice; writes through one
// are visible through the other.
func (im *Image) ToTensor() *tensor.Dense {
	return tensor.New(
		tensor.WithShape(im.Rows, im.Cols, im.Channels),
		tensor.WithBacking(im.Data),
	)
}

// ToTensor wraps the plane's buffer in a rows x cols dense tensor, sharing
// the backing slice.
func (p *Plane) ToTensor() *tensor.Dense {
	return tensor.New(
		tensor.WithShape(p.Rows, p.Cols),
		tensor.WithBacking(p.Data),
	)
}

// FromTensor builds an Image around a float32 dense tensor of shape
// (rows, cols, channels) or (rows, cols). The image shares the tensor's
// backing slice.
//
// Arguments:
//   - t: Source tensor; must be float32 and 2- or 3-dimensional.
//
// Returns:
//   - *Image: Image view over the tensor data.
//   - error: Non-nil for unsupported dtypes or shapes.
func FromTensor(t *tensor.Dense) (*Image, error) {
	if t.Dtype() != tensor.Float32 {
		return nil, errors.Errorf("images: tensor dtype %v, want float32", t.Dtype())
	}
	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("images: tensor backing is not []float32")
	}
	shape := t.Shape()
	switch len(shape) {
	case 2:
		return &Image{Rows: shape[0], Cols: shape[1], Channels: 1, Data: data}, nil
	case 3:
		return &Image{Rows: shape[0], Cols: shape[1], Channels: shape[2], Data: data}, nil
	default:
		return nil, errors.Errorf("images: tensor rank %d, want 2 or 3", len(shape))
	}
}
