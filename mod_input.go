package ember

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	KeyA int = iota
	KeyD
	KeyE
	KeyJ
	KeyQ
	KeyS
	KeyU
	KeyW
	KeyX
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEscape
	KeyTab
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyComma
	KeyPeriod
	KeyF1
	KeyF5
	KeyF6
	KeyShift
	MouseButtonLeft
	MouseButtonRight
	keyCount
)

type InputModule struct{}

// Input is the polled keyboard and mouse state of the current frame.
type Input struct {
	Pressed [keyCount]bool

	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseCaptured            bool

	WindowWidth, WindowHeight int
}

// press records the new state of key and derives the edge flags.
func (input *Input) press(key int, down bool) {
	input.JustPressed[key] = down && !input.Pressed[key]
	input.JustReleased[key] = !down && input.Pressed[key]
	input.Pressed[key] = down
}

// Digit returns the digit key pressed this frame, if any.
func (input *Input) Digit() (int, bool) {
	for d := 0; d <= 9; d++ {
		if input.JustPressed[Key0+d] {
			return d, true
		}
	}
	return 0, false
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(s *WindowState, input *Input) {
	glfw.PollEvents()
	win := s.windowGlfw

	for key, glfwKey := range keyToGlfw {
		input.press(key, win.GetKey(glfwKey) == glfw.Press)
	}
	input.press(MouseButtonLeft, win.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press)
	input.press(MouseButtonRight, win.GetMouseButton(glfw.MouseButtonRight) == glfw.Press)

	if input.JustPressed[KeyTab] {
		input.MouseCaptured = !input.MouseCaptured
	}

	mx, my := win.GetCursorPos()
	if input.MouseCaptured {
		input.MouseDeltaX = mx - input.MouseX
		input.MouseDeltaY = my - input.MouseY
	} else {
		input.MouseDeltaX = 0
		input.MouseDeltaY = 0
	}
	input.MouseX = mx
	input.MouseY = my

	input.WindowWidth, input.WindowHeight = win.GetSize()

	if input.MouseCaptured {
		win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyA:      glfw.KeyA,
	KeyD:      glfw.KeyD,
	KeyE:      glfw.KeyE,
	KeyJ:      glfw.KeyJ,
	KeyQ:      glfw.KeyQ,
	KeyS:      glfw.KeyS,
	KeyU:      glfw.KeyU,
	KeyW:      glfw.KeyW,
	KeyX:      glfw.KeyX,
	Key0:      glfw.Key0,
	Key1:      glfw.Key1,
	Key2:      glfw.Key2,
	Key3:      glfw.Key3,
	Key4:      glfw.Key4,
	Key5:      glfw.Key5,
	Key6:      glfw.Key6,
	Key7:      glfw.Key7,
	Key8:      glfw.Key8,
	Key9:      glfw.Key9,
	KeySpace:  glfw.KeySpace,
	KeyEscape: glfw.KeyEscape,
	KeyTab:    glfw.KeyTab,
	KeyInsert: glfw.KeyInsert,
	KeyDelete: glfw.KeyDelete,
	KeyRight:  glfw.KeyRight,
	KeyLeft:   glfw.KeyLeft,
	KeyDown:   glfw.KeyDown,
	KeyUp:     glfw.KeyUp,
	KeyComma:  glfw.KeyComma,
	KeyPeriod: glfw.KeyPeriod,
	KeyF1:     glfw.KeyF1,
	KeyF5:     glfw.KeyF5,
	KeyF6:     glfw.KeyF6,
	KeyShift:  glfw.KeyLeftShift,
}
