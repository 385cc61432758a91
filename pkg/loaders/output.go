package loaders

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// JPEGQuality is the quality used when saving .jpg/.jpeg output
const JPEGQuality = 95

// SaveImage writes img to filename, choosing the encoder from the extension:
// .png, .jpg/.jpeg or .bmp
func SaveImage(filename string, img image.Image) error {
	encoder, err := encoderFor(filename)
	if err != nil {
		return err
	}
	if err := imgio.Save(filename, img, encoder); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// EncodeImage writes img to w in the format named by ext (".png", ".jpg",
// ".jpeg" or ".bmp")
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	encoder, err := encoderFor("image" + ext)
	if err != nil {
		return err
	}
	if err := encoder(w, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

func encoderFor(filename string) (imgio.Encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(JPEGQuality), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use .png, .jpg or .bmp)", ext)
	}
}
