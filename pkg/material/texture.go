package material

import "image/color"

// Texture provides color from a decoded 2D image
type Texture struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major: Pixels[y*Width + x], row 0 at the top of the image
}

// NewTexture creates a new texture from row-major pixels
func NewTexture(width, height int, pixels []color.RGBA) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Sample returns the nearest pixel for the given UV coordinates.
// UV is clamped to [0, 1]; V=0 is the bottom of the image.
func (t *Texture) Sample(u, v float64) color.RGBA {
	u = clamp01(u)
	v = 1.0 - clamp01(v)

	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)

	return t.Pixels[y*t.Width+x]
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
