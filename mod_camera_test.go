package ember

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

func TestFlyingCamera_InputToMove(t *testing.T) {
	fly := &FlyingCamera{}
	flyingCameraInputSystem(keys([]int{KeyW, KeyD, KeyE}), fly)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, fly.Move)
	assert.Equal(t, mgl32.Vec2{}, fly.Look)

	in := keys([]int{KeyS, KeyA, KeyQ})
	in.MouseCaptured = true
	in.MouseDeltaX, in.MouseDeltaY = 4, -2
	flyingCameraInputSystem(in, fly)
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, fly.Move)
	assert.Equal(t, mgl32.Vec2{4, -2}, fly.Look)
}

func TestFlyingCamera_MovesForwardWithWallTime(t *testing.T) {
	now := time.Unix(100, 0)
	fly := &FlyingCamera{now: func() time.Time { return now }, Move: mgl32.Vec3{0, 0, 1}}
	cam := core.NewCameraState()
	start := cam.Position

	flyingCameraControlSystem(fly, cam)
	assert.Equal(t, start, cam.Position, "first frame only records time")

	now = now.Add(500 * time.Millisecond)
	flyingCameraControlSystem(fly, cam)
	moved := cam.Position.Sub(start)
	assert.InDelta(t, cam.Speed*0.5, moved.Len(), 1e-4)
	assert.Greater(t, moved.Dot(cam.GetForward()), float32(0))
}

func TestFlyingCamera_PitchIsClamped(t *testing.T) {
	cam := core.NewCameraState()
	fly := &FlyingCamera{Look: mgl32.Vec2{0, -1e6}}
	fly.apply(cam, 0.016)
	assert.InDelta(t, mgl32.DegToRad(89), cam.Pitch, 1e-5)
}
