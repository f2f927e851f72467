package ember

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

// CameraModule flies the particle camera: WASD moves, Q/E lowers and raises,
// and the mouse looks around while captured (Tab).
type CameraModule struct{}

// FlyingCamera holds the per-frame intent read from input. It keeps its own
// wall time so the camera still moves while the simulation is paused.
type FlyingCamera struct {
	Move mgl32.Vec3
	Look mgl32.Vec2

	last time.Time
	now  func() time.Time
}

func (m CameraModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&FlyingCamera{now: time.Now})
	app.UseSystem(
		System(flyingCameraInputSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(flyingCameraControlSystem).
			InStage(Update),
	)
}

func flyingCameraInputSystem(input *Input, fly *FlyingCamera) {
	fly.Move = mgl32.Vec3{}
	if input.Pressed[KeyW] {
		fly.Move[2] += 1
	}
	if input.Pressed[KeyS] {
		fly.Move[2] -= 1
	}
	if input.Pressed[KeyA] {
		fly.Move[0] -= 1
	}
	if input.Pressed[KeyD] {
		fly.Move[0] += 1
	}
	if input.Pressed[KeyE] {
		fly.Move[1] += 1
	}
	if input.Pressed[KeyQ] {
		fly.Move[1] -= 1
	}

	if input.MouseCaptured {
		fly.Look = mgl32.Vec2{float32(input.MouseDeltaX), float32(input.MouseDeltaY)}
	} else {
		fly.Look = mgl32.Vec2{}
	}
}

func flyingCameraControlSystem(fly *FlyingCamera, cam *core.CameraState) {
	now := fly.now()
	if fly.last.IsZero() {
		fly.last = now
		return
	}
	dt := float32(now.Sub(fly.last).Seconds())
	fly.last = now
	fly.apply(cam, dt)
}

func (fly *FlyingCamera) apply(cam *core.CameraState, dt float32) {
	if dt <= 0 {
		return
	}

	cam.Yaw += fly.Look[0] * cam.Sensitivity
	cam.Pitch -= fly.Look[1] * cam.Sensitivity
	limit := mgl32.DegToRad(89)
	cam.Pitch = mgl32.Clamp(cam.Pitch, -limit, limit)

	if fly.Move.Len() > 0 {
		dir := fly.Move.Normalize()
		cam.Move(dir[2], dir[0], dir[1], dt)
	}
}
