package geometry

import (
	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/material"
)

// uvAxis selects a local coordinate for one texture axis, optionally mirrored
type uvAxis struct {
	axis int // 0=X, 1=Y, 2=Z
	flip bool
}

func (a uvAxis) eval(local core.Vec3) float64 {
	c := local.Component(a.axis)
	if a.flip {
		return 1.0 - c
	}
	return c
}

// faceInfo keeps everything that depends on the face in one table so the
// normal and the texture orientation cannot drift apart
type faceInfo struct {
	normal core.Vec3
	u, v   uvAxis
}

var faces = [material.FaceCount]faceInfo{
	material.FaceTop:    {normal: core.NewVec3(0, 1, 0), u: uvAxis{0, false}, v: uvAxis{2, false}},
	material.FaceBottom: {normal: core.NewVec3(0, -1, 0), u: uvAxis{0, false}, v: uvAxis{2, true}},
	material.FaceNorth:  {normal: core.NewVec3(0, 0, -1), u: uvAxis{0, false}, v: uvAxis{1, false}},
	material.FaceSouth:  {normal: core.NewVec3(0, 0, 1), u: uvAxis{0, true}, v: uvAxis{1, false}},
	material.FaceEast:   {normal: core.NewVec3(1, 0, 0), u: uvAxis{2, false}, v: uvAxis{1, false}},
	material.FaceWest:   {normal: core.NewVec3(-1, 0, 0), u: uvAxis{2, true}, v: uvAxis{1, false}},
}

// slabFaces lists, per axis, the face a ray enters through and the face it
// leaves through when travelling in the positive direction along that axis.
// Travelling negatively swaps the pair.
var slabFaces = [3]struct{ entry, exit material.Face }{
	{material.FaceWest, material.FaceEast},
	{material.FaceBottom, material.FaceTop},
	{material.FaceNorth, material.FaceSouth},
}

// FaceNormal returns the outward unit normal of a face
func FaceNormal(f material.Face) core.Vec3 {
	return faces[f].normal
}

// FaceUV maps a point's fractional position inside a box onto the texture
// coordinates of the given face
func FaceUV(f material.Face, local core.Vec3) (u, v float64) {
	info := faces[f]
	return clamp01(info.u.eval(local)), clamp01(info.v.eval(local))
}

func clamp01(x float64) float64 {
	return max(0, min(1, x))
}
