package geometry

import (
	"math"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/material"
)

// HitRecord contains information about a ray-cube intersection
type HitRecord struct {
	Point    core.Vec3     // Point of intersection
	Normal   core.Vec3     // Outward normal of the hit face
	T        float64       // Parameter t along the ray
	Face     material.Face // Which face was hit
	U, V     float64       // Texture coordinates on the face, in [0,1]
	Material *material.Material
}

// Cube is an axis-aligned box
type Cube struct {
	Min      core.Vec3
	Max      core.Vec3
	Material *material.Material
}

// NewCube creates a cube of the given edge length centered at center
func NewCube(center core.Vec3, size float64, mat *material.Material) Cube {
	half := core.NewVec3(size/2, size/2, size/2)
	return Cube{
		Min:      center.Subtract(half),
		Max:      center.Add(half),
		Material: mat,
	}
}

// Center returns the center point of the cube
func (c Cube) Center() core.Vec3 {
	return c.Min.Add(c.Max).Multiply(0.5)
}

// Size returns the extent of the cube along each axis
func (c Cube) Size() core.Vec3 {
	return c.Max.Subtract(c.Min)
}

// Contains reports whether p lies inside or on the cube
func (c Cube) Contains(p core.Vec3) bool {
	return p.X >= c.Min.X && p.X <= c.Max.X &&
		p.Y >= c.Min.Y && p.Y <= c.Max.Y &&
		p.Z >= c.Min.Z && p.Z <= c.Max.Z
}

// Hit tests the ray against the cube using the slab method.
//
// The reported face is the one that produced the entry distance. When the ray
// starts inside the cube (entry not beyond tMin) the exit face is reported
// instead, together with the exit distance.
func (c Cube) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	entryT, exitT := math.Inf(-1), math.Inf(1)
	entryFace, exitFace := material.FaceTop, material.FaceTop

	for axis := 0; axis < 3; axis++ {
		// A zero component gives ±Inf here; the comparisons below then
		// either accept or reject the whole slab, or see NaN and skip it.
		invD := 1.0 / ray.Direction.Component(axis)
		origin := ray.Origin.Component(axis)
		t0 := (c.Min.Component(axis) - origin) * invD
		t1 := (c.Max.Component(axis) - origin) * invD

		enter, leave := slabFaces[axis].entry, slabFaces[axis].exit
		if invD < 0 {
			t0, t1 = t1, t0
			enter, leave = leave, enter
		}

		if t0 > entryT {
			entryT, entryFace = t0, enter
		}
		if t1 < exitT {
			exitT, exitFace = t1, leave
		}

		if max(entryT, tMin) > min(exitT, tMax) {
			return nil, false
		}
	}

	t, face := entryT, entryFace
	if !(entryT > tMin) {
		t, face = exitT, exitFace
	}
	if t < tMin || t > tMax || math.IsInf(t, 0) {
		return nil, false
	}

	point := ray.At(t)
	size := c.Size()
	local := point.Subtract(c.Min)
	local = core.NewVec3(local.X/size.X, local.Y/size.Y, local.Z/size.Z)
	u, v := FaceUV(face, local)

	return &HitRecord{
		Point:    point,
		Normal:   FaceNormal(face),
		T:        t,
		Face:     face,
		U:        u,
		V:        v,
		Material: c.Material,
	}, true
}
