package loaders

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-cubemap-sh/pkg/core"
)

// ErrUnsupportedPixels is returned when a decoded HDR image does not expose
// floating-point pixels.
var ErrUnsupportedPixels = errors.New("loaders: image has no HDR pixel access")

// hdrImage is the pixel accessor implemented by mdouchement/hdr images.
type hdrImage interface {
	HDRAt(x, y int) hdrcolor.Color
}

// ImageData contains a row-major linear RGB pixel buffer
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewImageData allocates a black width×height image
func NewImageData(width, height int) *ImageData {
	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the pixel at (x, y)
func (d *ImageData) At(x, y int) core.Color {
	return d.Pixels[y*d.Width+x]
}

// Set stores the pixel at (x, y)
func (d *ImageData) Set(x, y int, c core.Color) {
	d.Pixels[y*d.Width+x] = c
}

// IsSquare reports whether width equals height
func (d *ImageData) IsSquare() bool {
	return d.Width == d.Height
}

// IsHDRFile reports whether the file extension denotes a Radiance RGBE image
func IsHDRFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hdr", ".pic", ".rgbe":
		return true
	}
	return false
}

// LoadImage loads a Radiance HDR image, or any LDR format registered with the
// image package (PNG, JPEG, BMP, TIFF, WebP), into linear RGB.
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if IsHDRFile(filename) {
		return DecodeHDR(file)
	}
	return DecodeLDR(file)
}

// DecodeHDR decodes a Radiance RGBE stream. Pixel values are used as is.
func DecodeHDR(r io.Reader) (*ImageData, error) {
	img, err := rgbe.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode HDR image: %w", err)
	}

	hdrImg, ok := img.(hdrImage)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPixels, img)
	}

	bounds := img.Bounds()
	data := NewImageData(bounds.Dx(), bounds.Dy())
	for y := 0; y < data.Height; y++ {
		for x := 0; x < data.Width; x++ {
			r, g, b, _ := hdrImg.HDRAt(x+bounds.Min.X, y+bounds.Min.Y).HDRRGBA()
			data.Set(x, y, core.NewColor(r, g, b))
		}
	}
	return data, nil
}

// DecodeLDR decodes an 8 or 16 bit image. Values are treated as sRGB encoded
// and converted to linear RGB in [0, 1].
func DecodeLDR(r io.Reader) (*ImageData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	data := NewImageData(bounds.Dx(), bounds.Dy())
	for y := 0; y < data.Height; y++ {
		for x := 0; x < data.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			encoded := colorful.Color{
				R: float64(r) / 65535.0,
				G: float64(g) / 65535.0,
				B: float64(b) / 65535.0,
			}
			lr, lg, lb := encoded.LinearRgb()
			data.Set(x, y, core.NewColor(lr, lg, lb))
		}
	}
	return data, nil
}
