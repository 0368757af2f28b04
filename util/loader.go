// Package util - image loading pipeline feeding the detectors: decode,
// optional denoise and downscale, grayscale conversion.
package util

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/matajoh/visionnet-sub000/images"
)

// LoadOptions configures the preprocessing applied before detection.
type LoadOptions struct {
	// MaxEdge bounds the longer image edge in pixels; larger images are
	// downscaled preserving aspect ratio. Zero disables resizing.
	MaxEdge int
	// BlurRadius is the denoise Gaussian radius applied before grayscale
	// conversion. Zero disables the blur.
	BlurRadius float64
}

// ImageFile is one decoded input image.
type ImageFile struct {
	// Path is the originating file path.
	Path string
	// Source is the preprocessed color image, kept for overlay rendering.
	Source image.Image
	// Gray is the intensity image handed to the detectors.
	Gray *images.Gray
}

// LoadImage decodes a single image file and applies the preprocessing
// pipeline.
//
// Arguments:
//   - path: Image file; JPEG, PNG, BMP and WebP are supported.
//   - opts: Preprocessing options.
//
// Returns:
//   - *ImageFile: The decoded and preprocessed image.
//   - error: Non-nil on read or decode failure.
func LoadImage(path string, opts LoadOptions) (*ImageFile, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrapf(err, "util: reading %s", path)
	}
	img, err := decode(raw, path)
	if err != nil {
		return nil, err
	}

	if opts.MaxEdge > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxEdge || b.Dy() > opts.MaxEdge {
			if b.Dx() >= b.Dy() {
				img = resize.Resize(uint(opts.MaxEdge), 0, img, resize.Bilinear)
			} else {
				img = resize.Resize(0, uint(opts.MaxEdge), img, resize.Bilinear)
			}
		}
	}
	if opts.BlurRadius > 0 {
		img = blur.Gaussian(img, opts.BlurRadius)
	}

	return &ImageFile{
		Path:   path,
		Source: img,
		Gray:   images.GrayFromImage(imaging.Grayscale(img)),
	}, nil
}

// LoadDirectoryImageFiles decodes every supported image in a directory,
// sorted by file name.
//
// Arguments:
//   - dir: Directory containing image files.
//   - opts: Preprocessing options applied to each image.
//
// Returns:
//   - []*ImageFile: Decoded images in name order.
//   - error: Non-nil if the directory cannot be read or any image fails to
//     decode.
func LoadDirectoryImageFiles(dir string, opts LoadOptions) ([]*ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "util: reading directory %s", dir)
	}

	var loaded []*ImageFile
	for _, entry := range entries {
		if entry.IsDir() || !supportedExt(entry.Name()) {
			continue
		}
		img, err := LoadImage(filepath.Join(dir, entry.Name()), opts)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, img)
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].Path < loaded[j].Path })
	return loaded, nil
}

func supportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".bmp", ".webp":
		return true
	}
	return false
}

func decode(raw []byte, path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		img, err := webp.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "util: decoding %s", path)
		}
		return img, nil
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "util: decoding %s", path)
	}
	return img, nil
}
