package images

import (
	"runtime"
	"sync"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ConvolveOptions configures Gaussian convolution. Keeping this extensible
// reduces churn later.
type ConvolveOptions struct {
	// Sigma is the Gaussian standard deviation. Must be > 0.
	Sigma float32
	// Parallel enables row/column parallelism (worthwhile at 1080p+).
	Parallel bool
	// Pool optionally supplies reusable intermediate buffers to reduce GC
	// pressure when smoothing frame streams.
	Pool *PlanePool
}

// PlanePool lets callers reuse intermediate buffers across convolution
// calls. The zero value (or a nil pool) allocates fresh buffers.
type PlanePool struct {
	planes sync.Pool
}

// Get returns a rows x cols scratch buffer, recycled when its shape matches.
func (p *PlanePool) Get(rows, cols int) []float32 {
	if p == nil {
		return make([]float32, rows*cols)
	}
	if v := p.planes.Get(); v != nil {
		buf := v.([]float32)
		if len(buf) == rows*cols {
			return buf
		}
	}
	return make([]float32, rows*cols)
}

// Put returns a scratch buffer to the pool. Contents are not cleared; the
// next writer fully overwrites.
func (p *PlanePool) Put(buf []float32) {
	if p == nil || buf == nil {
		return
	}
	p.planes.Put(buf)
}

// gaussianKernel builds the normalized 1-D kernel for sigma. The window is
// 1 + 2*ceil(2.5*sigma) samples, matching the reference smoothing support.
func gaussianKernel(sigma float32) []float32 {
	radius := int(math32.Ceil(2.5 * sigma))
	kernel := make([]float32, 2*radius+1)
	var sum float32
	for i := range kernel {
		x := float32(i - radius)
		kernel[i] = math32.Exp(-x * x / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// ConvolveGaussian smooths every channel of an image with a separable
// Gaussian. Samples beyond the border are clamped to the nearest edge pixel.
// The input is never mutated.
//
// Arguments:
//   - im: Source image.
//   - opts: Convolution options; Sigma must be positive.
//
// Returns:
//   - *Image: Newly allocated smoothed image of the same shape.
//   - error: Non-nil if Sigma is not positive.
func ConvolveGaussian(im *Image, opts ConvolveOptions) (*Image, error) {
	if opts.Sigma <= 0 {
		return nil, errors.Errorf("images: gaussian sigma must be positive, got %v", opts.Sigma)
	}
	kernel := gaussianKernel(opts.Sigma)
	radius := len(kernel) / 2

	out := &Image{
		Rows:     im.Rows,
		Cols:     im.Cols,
		Channels: im.Channels,
		Data:     make([]float32, len(im.Data)),
	}
	tmp := opts.Pool.Get(im.Rows, im.Cols)
	defer opts.Pool.Put(tmp)
	col := opts.Pool.Get(im.Rows, im.Cols)
	defer opts.Pool.Put(col)

	for ch := 0; ch < im.Channels; ch++ {
		// Deinterleave one channel into a flat scratch plane so both passes
		// run over unit-stride memory.
		for i := 0; i < im.Rows*im.Cols; i++ {
			col[i] = im.Data[i*im.Channels+ch]
		}
		convolveRows(col, tmp, im.Rows, im.Cols, kernel, radius, opts.Parallel)
		convolveCols(tmp, col, im.Rows, im.Cols, kernel, radius, opts.Parallel)
		for i := 0; i < im.Rows*im.Cols; i++ {
			out.Data[i*im.Channels+ch] = col[i]
		}
	}
	return out, nil
}

// ConvolveGaussianPlane is the single-channel form of ConvolveGaussian.
func ConvolveGaussianPlane(p *Plane, opts ConvolveOptions) (*Plane, error) {
	im := &Image{Rows: p.Rows, Cols: p.Cols, Channels: 1, Data: p.Data}
	smoothed, err := ConvolveGaussian(im, opts)
	if err != nil {
		return nil, err
	}
	return &Plane{Rows: p.Rows, Cols: p.Cols, Data: smoothed.Data}, nil
}

func convolveRows(src, dst []float32, rows, cols int, kernel []float32, radius int, parallel bool) {
	process := func(rowStart, rowEnd int) {
		for row := rowStart; row < rowEnd; row++ {
			base := row * cols
			for c := 0; c < cols; c++ {
				var acc float32
				for k := -radius; k <= radius; k++ {
					cc := c + k
					if cc < 0 {
						cc = 0
					} else if cc >= cols {
						cc = cols - 1
					}
					acc += src[base+cc] * kernel[k+radius]
				}
				dst[base+c] = acc
			}
		}
	}
	runPartitioned(rows, parallel, process)
}

func convolveCols(src, dst []float32, rows, cols int, kernel []float32, radius int, parallel bool) {
	process := func(rowStart, rowEnd int) {
		for row := rowStart; row < rowEnd; row++ {
			for c := 0; c < cols; c++ {
				var acc float32
				for k := -radius; k <= radius; k++ {
					rr := row + k
					if rr < 0 {
						rr = 0
					} else if rr >= rows {
						rr = rows - 1
					}
					acc += src[rr*cols+c] * kernel[k+radius]
				}
				dst[row*cols+c] = acc
			}
		}
	}
	runPartitioned(rows, parallel, process)
}

// runPartitioned splits [0, rows) across GOMAXPROCS workers when parallel is
// set. Each worker owns a disjoint row range, so no synchronization is
// needed beyond the final wait.
func runPartitioned(rows int, parallel bool, process func(rowStart, rowEnd int)) {
	workers := runtime.GOMAXPROCS(0)
	if !parallel || workers < 2 || rows < workers*4 {
		process(0, rows)
		return
	}
	chunk := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			process(s, e)
		}(start, end)
	}
	wg.Wait()
}
