package images

// Channel layout of a second moment image. The symmetric 2x2 structure
// tensor is stored as three channels; a21 is implied by a12.
const (
	// SecondMomentA11 holds gx*gx.
	SecondMomentA11 = 0
	// SecondMomentA22 holds gy*gy.
	SecondMomentA22 = 1
	// SecondMomentA12 holds gx*gy.
	SecondMomentA12 = 2

	secondMomentChannels = 3
)

// SecondMoment is a 3-channel image of per-pixel structure tensors.
type SecondMoment struct {
	*Image
}

// ComputeSecondMoment builds the raw (unsmoothed) second moment image from a
// gradient image: per pixel, (gx², gy², gx·gy).
func ComputeSecondMoment(g *Gradient) *SecondMoment {
	im, _ := NewImage(g.Rows, g.Cols, secondMomentChannels)
	n := g.Rows * g.Cols
	for i := 0; i < n; i++ {
		gx := g.Data[i*gradientChannels+GradientX]
		gy := g.Data[i*gradientChannels+GradientY]
		im.Data[i*secondMomentChannels+SecondMomentA11] = gx * gx
		im.Data[i*secondMomentChannels+SecondMomentA22] = gy * gy
		im.Data[i*secondMomentChannels+SecondMomentA12] = gx * gy
	}
	return &SecondMoment{Image: im}
}

// Smooth returns a Gaussian-smoothed copy of the second moment image. Each
// tensor entry is smoothed independently, which preserves symmetry.
func (sm *SecondMoment) Smooth(sigma float32) (*SecondMoment, error) {
	smoothed, err := ConvolveGaussian(sm.Image, ConvolveOptions{Sigma: sigma, Parallel: true})
	if err != nil {
		return nil, err
	}
	return &SecondMoment{Image: smoothed}, nil
}
