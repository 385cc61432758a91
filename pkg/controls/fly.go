// Package controls turns held keys and mouse motion into a moving camera.
package controls

import (
	"math"

	"github.com/df07/go-voxel-raytracer/pkg/core"
	"github.com/df07/go-voxel-raytracer/pkg/renderer"
)

// MaxPitch keeps the view direction away from straight up or down
const MaxPitch = 89.0

// Keys holds the movement keys currently pressed
type Keys struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
}

// FlyController is a free-flying first-person camera. Angles are in degrees;
// yaw 0 looks down +X and yaw 90 down +Z.
type FlyController struct {
	Position    core.Vec3
	Yaw         float64
	Pitch       float64
	Speed       float64 // World units per second
	Sensitivity float64 // Degrees per unit of mouse motion
	VFov        float64
	Keys        Keys
}

// NewFlyController returns a controller placed inside the example scene's
// cave, looking down towards its far corner
func NewFlyController() *FlyController {
	return &FlyController{
		Position:    core.NewVec3(6, 3.5, 6),
		Yaw:         -135,
		Pitch:       -30,
		Speed:       10,
		Sensitivity: 1,
		VFov:        60,
	}
}

// Forward returns the unit view direction
func (fc *FlyController) Forward() core.Vec3 {
	yaw := radians(fc.Yaw)
	pitch := radians(fc.Pitch)
	return core.NewVec3(
		math.Cos(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Sin(yaw)*math.Cos(pitch),
	).Normalize()
}

// Strafe returns the horizontal unit vector at yaw-90°, which points to the
// viewer's left
func (fc *FlyController) Strafe() core.Vec3 {
	yaw := radians(fc.Yaw) - math.Pi/2
	return core.NewVec3(math.Cos(yaw), 0, math.Sin(yaw)).Normalize()
}

// Update moves the camera according to the held keys over dt seconds
func (fc *FlyController) Update(dt float64) {
	step := fc.Speed * dt
	forward := fc.Forward()
	strafe := fc.Strafe()
	up := core.NewVec3(0, 1, 0)

	if fc.Keys.Forward {
		fc.Position = fc.Position.Add(forward.Multiply(step))
	}
	if fc.Keys.Backward {
		fc.Position = fc.Position.Subtract(forward.Multiply(step))
	}
	if fc.Keys.Right {
		fc.Position = fc.Position.Subtract(strafe.Multiply(step))
	}
	if fc.Keys.Left {
		fc.Position = fc.Position.Add(strafe.Multiply(step))
	}
	if fc.Keys.Up {
		fc.Position = fc.Position.Add(up.Multiply(step))
	}
	if fc.Keys.Down {
		fc.Position = fc.Position.Subtract(up.Multiply(step))
	}
}

// Rotate turns the view by a mouse delta. Moving the mouse up (negative dy)
// looks up.
func (fc *FlyController) Rotate(dx, dy float64) {
	fc.Yaw += dx * fc.Sensitivity
	fc.Pitch -= dy * fc.Sensitivity
	fc.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, fc.Pitch))
}

// CameraConfig returns the camera for the current pose
func (fc *FlyController) CameraConfig(aspectRatio float64) renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom:    fc.Position,
		LookAt:      fc.Position.Add(fc.Forward()),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        fc.VFov,
		AspectRatio: aspectRatio,
	}
}

// Camera builds the camera for the current pose
func (fc *FlyController) Camera(aspectRatio float64) *renderer.Camera {
	return renderer.NewCamera(fc.CameraConfig(aspectRatio))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
