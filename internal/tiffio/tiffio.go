// Package tiffio converts between single-page TIFF files and ndimage images.
//
// Images are two-dimensional with shape {height, width}. Samples are stored
// as 16-bit grayscale, the usual format of microscope frames.
package tiffio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/cwbudde/algo-decon/dsp/core"
	"github.com/cwbudde/algo-decon/dsp/ndimage"
)

// ErrNotPlanar is returned when encoding an image that is not 2-D.
var ErrNotPlanar = errors.New("tiffio: image must have two dimensions")

// Read decodes the TIFF file at path.
func Read(path string) (*ndimage.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tiffio: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}

	return img, nil
}

// Decode reads a TIFF image from r. Gray and Gray16 samples are taken as
// stored; other pixel models go through the Gray16 color model.
func Decode(r io.Reader) (*ndimage.Image, error) {
	src, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("tiffio: decode: %w", err)
	}

	b := src.Bounds()
	out, err := ndimage.New(ndimage.Shape{b.Dy(), b.Dx()})
	if err != nil {
		return nil, fmt.Errorf("tiffio: %w", err)
	}

	data := out.Data()
	i := 0

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			switch m := src.(type) {
			case *image.Gray16:
				data[i] = float64(m.Gray16At(x, y).Y)
			case *image.Gray:
				data[i] = float64(m.GrayAt(x, y).Y)
			default:
				data[i] = float64(color.Gray16Model.Convert(src.At(x, y)).(color.Gray16).Y)
			}
			i++
		}
	}

	return out, nil
}

// Write encodes img as a 16-bit grayscale TIFF at path, replacing any
// existing file.
func Write(path string, img *ndimage.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tiffio: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, img); err != nil {
		f.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("tiffio: %w", err)
	}

	return f.Close()
}

// Encode writes img to w as a deflate-compressed 16-bit grayscale TIFF.
// Samples are rounded and clamped to [0, 65535]; non-finite samples are
// written as 0.
func Encode(w io.Writer, img *ndimage.Image) error {
	if img == nil || img.Dims() != 2 {
		return ErrNotPlanar
	}

	shape := img.Shape()
	height, width := shape[0], shape[1]
	dst := image.NewGray16(image.Rect(0, 0, width, height))

	data := img.Data()
	for y := range height {
		for x := range width {
			dst.SetGray16(x, y, color.Gray16{Y: quantize(data[y*width+x])})
		}
	}

	if err := tiff.Encode(w, dst, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return fmt.Errorf("tiffio: encode: %w", err)
	}

	return nil
}

func quantize(v float64) uint16 {
	if !core.IsFinite(v) {
		return 0
	}

	return uint16(core.Clamp(math.Round(v), 0, math.MaxUint16))
}
