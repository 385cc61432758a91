package scene

import (
	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/geometry"
	"github.com/df07/go-voxel-raytracer/pkg/material"
)

// Scene is an ordered list of cubes. It is built once and only read while
// rendering, so it can be shared freely between render workers.
type Scene struct {
	Cubes []geometry.Cube
}

// New creates an empty scene
func New() *Scene {
	return &Scene{Cubes: make([]geometry.Cube, 0)}
}

// AddCube appends a cube of the given edge length centered at center
func (s *Scene) AddCube(center core.Vec3, size float64, mat *material.Material) {
	s.Cubes = append(s.Cubes, geometry.NewCube(center, size, mat))
}

// Len returns the number of cubes in the scene
func (s *Scene) Len() int {
	return len(s.Cubes)
}

// Bounds returns the box enclosing every cube. ok is false for an empty scene.
func (s *Scene) Bounds() (lo, hi core.Vec3, ok bool) {
	if len(s.Cubes) == 0 {
		return core.Vec3{}, core.Vec3{}, false
	}
	lo, hi = s.Cubes[0].Min, s.Cubes[0].Max
	for _, c := range s.Cubes[1:] {
		lo = core.NewVec3(min(lo.X, c.Min.X), min(lo.Y, c.Min.Y), min(lo.Z, c.Min.Z))
		hi = core.NewVec3(max(hi.X, c.Max.X), max(hi.Y, c.Max.Y), max(hi.Z, c.Max.Z))
	}
	return lo, hi, true
}

// MaterialCounts returns how many cubes use each material, keyed by name
func (s *Scene) MaterialCounts() map[string]int {
	counts := make(map[string]int)
	for _, c := range s.Cubes {
		name := "unnamed"
		if c.Material != nil && c.Material.Name != "" {
			name = c.Material.Name
		}
		counts[name]++
	}
	return counts
}
