package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/material"
)

// ImageData contains loaded image data as 8-bit RGB pixels
type ImageData struct {
	Width  int
	Height int
	Format string       // Decoder that recognised the file
	Pixels []color.RGBA // Row-major, alpha forced to 255
}

// LoadImage loads an image and converts it to an RGB pixel array.
// The format is detected from the file header.
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image %s has no pixels", filename)
	}
	pixels := make([]color.RGBA, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Alpha is dropped; only the color channels are kept
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			pixels[y*width+x] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Format: format,
		Pixels: pixels,
	}, nil
}

// LoadTexture loads an image file as a block texture. Failures are logged and
// reported as nil so the face falls back to its base color.
func LoadTexture(filename string, logger core.Logger) *material.Texture {
	data, err := LoadImage(filename)
	if err != nil {
		if logger != nil {
			logger.Printf("Warning: texture %s unavailable, using flat color: %v\n", filename, err)
		}
		return nil
	}
	return material.NewTexture(data.Width, data.Height, data.Pixels)
}
