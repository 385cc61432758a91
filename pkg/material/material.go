package material

import (
	"fmt"
	"image/color"

	"github.com/df07/go-voxel-raytracer/pkg/core"
)

// Face identifies one side of an axis-aligned block.
// The numeric values index Material.Textures.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceNorth
	FaceSouth
	FaceEast
	FaceWest
)

// FaceCount is the number of faces on a block
const FaceCount = 6

var faceNames = [FaceCount]string{"top", "bottom", "north", "south", "east", "west"}

// String returns the lowercase face name
func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// Valid reports whether f is one of the six faces
func (f Face) Valid() bool {
	return f >= FaceTop && f <= FaceWest
}

// Material describes how a block type looks. Materials are built once and
// shared by pointer between every cube of the same block type.
type Material struct {
	Name            string
	BaseColor       color.RGBA
	Textures        [FaceCount]*Texture // nil entries fall back to BaseColor
	Reflectivity    float64             // 0..1
	Transparency    float64             // 0..1
	RefractiveIndex float64             // > 0
}

// NewSolid creates an untextured, opaque, non-reflective material
func NewSolid(name string, base color.RGBA) *Material {
	return &Material{
		Name:            name,
		BaseColor:       base,
		RefractiveIndex: 1.0,
	}
}

// ColorAt returns the surface color of a face at the given UV coordinates
func (m *Material) ColorAt(face Face, u, v float64) color.RGBA {
	if face.Valid() {
		if tex := m.Textures[face]; tex != nil {
			return tex.Sample(u, v)
		}
	}
	return m.BaseColor
}

// Albedo returns ColorAt as a linear [0,1] color
func (m *Material) Albedo(face Face, u, v float64) core.Vec3 {
	c := m.ColorAt(face, u, v)
	return core.NewVec3(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0)
}
