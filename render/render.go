// Package render - visualization of detector outputs: edge masks as
// grayscale PNGs and keypoint overlays drawn onto the source image.
package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/matajoh/visionnet-sub000/images"
)

// Layer is one set of keypoints to draw, e.g. the output of one detector.
type Layer struct {
	// Name labels the layer; unused for drawing but useful to callers
	// tracking which detector produced which color.
	Name string
	// Points are the keypoint coordinates (X = column, Y = row).
	Points []image.Point
	// Radius is the marker radius in pixels; 3 when zero.
	Radius float64
}

// MaskImage renders a binary mask as an 8-bit grayscale image, 255 for edge
// pixels.
func MaskImage(mask *images.Binary) *image.Gray {
	return mask.ToGray().ToImage()
}

// MaskPNG encodes a binary mask as a base64 PNG string, the transport form
// used by the HTTP API.
func MaskPNG(mask *images.Binary) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, MaskImage(mask)); err != nil {
		return "", errors.Wrap(err, "render: encoding mask")
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Overlay draws keypoint layers over the source image, each layer in its
// own color. Colors are evenly spaced warm hues so neighboring layers stay
// distinguishable on grayscale sources.
//
// Arguments:
//   - src: Background image.
//   - layers: Keypoint sets to draw.
//
// Returns:
//   - image.Image: The composited overlay.
func Overlay(src image.Image, layers []Layer) image.Image {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	dc := gg.NewContext(w, h)
	dc.DrawImage(src, 0, 0)

	palette := layerPalette(len(layers))
	for li, layer := range layers {
		radius := layer.Radius
		if radius == 0 {
			radius = 3
		}
		c := palette[li]
		dc.SetRGBA(c.R, c.G, c.B, 0.6)
		for _, p := range layer.Points {
			dc.DrawCircle(float64(p.X), float64(p.Y), radius)
			dc.Fill()
		}
	}
	return dc.Image()
}

// SaveOverlayPNG renders the overlay and writes it to path.
func SaveOverlayPNG(src image.Image, layers []Layer, path string) error {
	w := src.Bounds().Dx()
	h := src.Bounds().Dy()
	dc := gg.NewContext(w, h)
	dc.DrawImage(Overlay(src, layers), 0, 0)
	if err := dc.SavePNG(path); err != nil {
		return errors.Wrapf(err, "render: writing %s", path)
	}
	return nil
}

// layerPalette returns n distinct, saturated colors.
func layerPalette(n int) []colorful.Color {
	colors := make([]colorful.Color, n)
	for i := range colors {
		hue := float64(i) * 360.0 / float64(max(n, 1))
		colors[i] = colorful.Hsv(hue, 0.9, 0.9)
	}
	return colors
}
