package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraUniformSize is the byte size of the packed camera uniform.
const CameraUniformSize = 144

type CameraState struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Speed       float32
	Sensitivity float32
	FovDegrees  float32
	Near        float32
	Far         float32
}

func NewCameraState() *CameraState {
	return &CameraState{
		Position:    mgl32.Vec3{0, 4, 18},
		Yaw:         0,
		Pitch:       -0.15,
		Speed:       8.0,
		Sensitivity: 0.003,
		FovDegrees:  60,
		Near:        0.1,
		Far:         500,
	}
}

func (c *CameraState) GetForward() mgl32.Vec3 {
	// Y-up: yaw turns around Y, pitch tilts towards Y
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Pitch)) * math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		float32(-math.Cos(float64(c.Pitch)) * math.Cos(float64(c.Yaw))),
	}
}

func (c *CameraState) GetRight() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Yaw))),
		0,
		float32(math.Sin(float64(c.Yaw))),
	}
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	eye := c.Position
	return mgl32.LookAtV(eye, eye.Add(c.GetForward()), mgl32.Vec3{0, 1, 0})
}

func (c *CameraState) GetProjection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovDegrees), aspect, c.Near, c.Far)
}

// Move translates the camera in its local frame.
func (c *CameraState) Move(forward, right, up, dt float32) {
	step := c.Speed * dt
	c.Position = c.Position.
		Add(c.GetForward().Mul(forward * step)).
		Add(c.GetRight().Mul(right * step)).
		Add(mgl32.Vec3{0, up * step, 0})
}

// Bytes packs view_proj (64), view (64) and position (16).
func (c *CameraState) Bytes(aspect float32) []byte {
	view := c.GetViewMatrix()
	viewProj := c.GetProjection(aspect).Mul4(view)

	out := make([]float32, 0, CameraUniformSize/4)
	out = append(out, viewProj[:]...)
	out = append(out, view[:]...)
	out = append(out, c.Position[0], c.Position[1], c.Position[2], 1)
	return float32Bytes(out)
}
