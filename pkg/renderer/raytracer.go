package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/geometry"
	"github.com/df07/go-voxel-raytracer/pkg/scene"
)

// ShadingConfig contains the lighting and recursion parameters
type ShadingConfig struct {
	MaxDepth    int     // Trace returns black at this depth
	BounceDepth int     // Secondary rays are only spawned below this depth
	HitEpsilon  float64 // Minimum t accepted for an intersection

	Ambient  float64   // Constant light term
	Diffuse  float64   // Weight of the n·L term
	LightDir core.Vec3 // Unit direction towards the light

	ReflectThreshold      float64 // Reflectivity must exceed this to reflect
	TransparencyThreshold float64 // Transparency must exceed this to refract
	SurfaceOffset         float64 // Secondary ray origin offset along the normal

	SkyZenith  core.Vec3 // Sky color straight up
	SkyHorizon core.Vec3 // Sky color straight down
}

// DefaultShadingConfig returns the standard block lighting
func DefaultShadingConfig() ShadingConfig {
	return ShadingConfig{
		MaxDepth:              2,
		BounceDepth:           2,
		HitEpsilon:            0.001,
		Ambient:               0.4,
		Diffuse:               0.6,
		LightDir:              core.NewVec3(0.5, 1.0, 0.3).Normalize(),
		ReflectThreshold:      0.3,
		TransparencyThreshold: 0.5,
		SurfaceOffset:         0.001,
		SkyZenith:             core.NewVec3(0.5, 0.7, 1.0),
		SkyHorizon:            core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Raytracer shades rays against a scene. It holds no mutable state and may be
// shared by any number of goroutines.
type Raytracer struct {
	scene  *scene.Scene
	config ShadingConfig
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, config ShadingConfig) *Raytracer {
	return &Raytracer{
		scene:  s,
		config: config,
	}
}

// Config returns the shading configuration
func (rt *Raytracer) Config() ShadingConfig {
	return rt.config
}

// hitWorld finds the nearest cube hit by the ray. On equal distances the cube
// later in scene order wins.
func (rt *Raytracer) hitWorld(ray core.Ray, tMin, tMax float64) (*geometry.HitRecord, bool) {
	var closestHit *geometry.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for i := range rt.scene.Cubes {
		if hit, isHit := rt.scene.Cubes[i].Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}

// Intersect returns the nearest hit along a ray, ignoring hits closer than
// HitEpsilon
func (rt *Raytracer) Intersect(ray core.Ray) (*geometry.HitRecord, bool) {
	return rt.hitWorld(ray, rt.config.HitEpsilon, math.Inf(1))
}

// Sky returns the background gradient for a ray direction
func (rt *Raytracer) Sky(direction core.Vec3) core.Vec3 {
	unitDirection := direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return rt.config.SkyHorizon.Lerp(rt.config.SkyZenith, t)
}

// Lighting returns the scalar light factor for a surface normal
func (rt *Raytracer) Lighting(normal core.Vec3) float64 {
	intensity := math.Max(0, normal.Dot(rt.config.LightDir))
	return math.Min(1.0, rt.config.Ambient+rt.config.Diffuse*intensity)
}

// Trace returns the linear, unclamped color seen along a ray. depth counts
// the bounces taken so far; primary rays start at 0.
func (rt *Raytracer) Trace(ray core.Ray, depth int) core.Vec3 {
	if depth >= rt.config.MaxDepth {
		return core.Vec3{}
	}

	hit, isHit := rt.Intersect(ray)
	if !isHit {
		return rt.Sky(ray.Direction)
	}

	mat := hit.Material
	result := mat.Albedo(hit.Face, hit.U, hit.V).Multiply(rt.Lighting(hit.Normal))

	if depth >= rt.config.BounceDepth {
		return result
	}

	if mat.Reflectivity > rt.config.ReflectThreshold {
		reflected := core.NewRay(
			hit.Point.Add(hit.Normal.Multiply(rt.config.SurfaceOffset)),
			ray.Direction.Reflect(hit.Normal),
		)
		weight := mat.Reflectivity * 0.5
		result = result.Lerp(rt.Trace(reflected, depth+1), weight)
	}

	if mat.Transparency > rt.config.TransparencyThreshold {
		if refracted, ok := rt.refract(ray, hit); ok {
			weight := mat.Transparency * 0.5
			result = result.Lerp(rt.Trace(refracted, depth+1), weight)
		}
	}

	return result
}

// refract builds the transmitted ray, or reports false on total internal
// reflection. A ray travelling against the normal is entering the block.
func (rt *Raytracer) refract(ray core.Ray, hit *geometry.HitRecord) (core.Ray, bool) {
	normal := hit.Normal
	eta := hit.Material.RefractiveIndex
	if normal.Dot(ray.Direction) < 0 {
		eta = 1.0 / eta
	} else {
		normal = normal.Negate()
	}

	direction, ok := ray.Direction.Normalize().Refract(normal, eta)
	if !ok {
		return core.Ray{}, false
	}

	origin := hit.Point.Subtract(normal.Multiply(rt.config.SurfaceOffset))
	return core.NewRay(origin, direction), true
}

// vec3ToColor gamma-corrects (sqrt), clamps and quantizes a linear color
func vec3ToColor(c core.Vec3) color.RGBA {
	corrected := c.Sqrt().Clamp(0, 1)
	return color.RGBA{
		R: uint8(corrected.X * 255),
		G: uint8(corrected.Y * 255),
		B: uint8(corrected.Z * 255),
		A: 255,
	}
}
