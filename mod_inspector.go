package ember

import (
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/fx"
	"github.com/gekko3d/ember/emberrt/rt/inspect"
	"github.com/gekko3d/ember/emberrt/rt/sim"
)

// InspectorModule edits the running scene from the keyboard:
//
//	, .        previous / next target
//	Up Down    previous / next field
//	Left Right nudge the field (Shift: x10)
//	X          toggle enabled
//	U J        move up / down in its list
//	Delete     delete the animation, effect or emitter
//	Insert     add an emitter (Shift: add a particle animation to it)
type InspectorModule struct{}

// InspectorTarget is one editable thing in the scene. Control is nil for
// emitters, which are not list-managed.
type InspectorTarget struct {
	Title   string
	Fields  []inspect.Field
	Control *core.Control
	Emitter *sim.Emitter
}

type Inspector struct {
	Target int
	Field  int

	nextAnimation int
}

func (mod InspectorModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Inspector{})
	app.UseSystem(
		System(inspectorSystem).
			InStage(Update),
	)
}

func inspectorSystem(input *Input, insp *Inspector, state *EmberState, cmd *Commands) {
	insp.Apply(input, state.Sim(), state.Chain(), cmd.Logger())
}

// Targets lists every emitter followed by its animations, then the FX nodes.
func Targets(sm *sim.Simulation, chain *fx.Chain) []InspectorTarget {
	var out []InspectorTarget
	for _, e := range sm.Emitters() {
		title := "emitter " + e.ID()
		if e.IsLight {
			title += " (light)"
		}
		out = append(out, InspectorTarget{Title: title, Fields: inspect.UniformFields(&e.Uniform), Emitter: e})
		for _, p := range e.ParticleAnimations {
			out = append(out, InspectorTarget{
				Title:   fmt.Sprintf("%s / particle %s", e.ID(), p.Tag()),
				Fields:  inspect.ParticleFields(p.Effect),
				Control: &p.Control,
				Emitter: e,
			})
		}
		for _, a := range e.EmitterAnimations {
			out = append(out, InspectorTarget{
				Title:   fmt.Sprintf("%s / emitter %s", e.ID(), a.Tag()),
				Fields:  inspect.EmitterFields(a.Effect),
				Control: &a.Control,
				Emitter: e,
			})
		}
	}
	for _, n := range chain.Nodes() {
		out = append(out, InspectorTarget{
			Title:   "fx " + n.Tag(),
			Fields:  inspect.EffectFields(n.Effect),
			Control: &n.Control,
		})
	}
	return out
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Current returns the selected target, clamping the selection to the scene.
func (insp *Inspector) Current(targets []InspectorTarget) (InspectorTarget, bool) {
	if len(targets) == 0 {
		insp.Target, insp.Field = 0, 0
		return InspectorTarget{}, false
	}
	insp.Target = wrap(insp.Target, len(targets))
	t := targets[insp.Target]
	insp.Field = wrap(insp.Field, len(t.Fields))
	return t, true
}

// Apply performs this frame's inspector key presses. List edits are only
// requested here; the next sweep applies them.
func (insp *Inspector) Apply(input *Input, sm *sim.Simulation, chain *fx.Chain, log Logger) {
	if input.JustPressed[KeyInsert] && !input.Pressed[KeyShift] {
		if e, err := sm.AddDefault(); err != nil {
			log.Errorf("add emitter: %v", err)
		} else {
			log.Infof("added emitter %s", e.ID())
		}
	}

	targets := Targets(sm, chain)
	if input.JustPressed[KeyPeriod] {
		insp.Target++
		insp.Field = 0
	}
	if input.JustPressed[KeyComma] {
		insp.Target--
		insp.Field = 0
	}
	t, ok := insp.Current(targets)
	if !ok {
		return
	}

	if input.JustPressed[KeyDown] {
		insp.Field = wrap(insp.Field+1, len(t.Fields))
	}
	if input.JustPressed[KeyUp] {
		insp.Field = wrap(insp.Field-1, len(t.Fields))
	}
	step := 1
	if input.Pressed[KeyShift] {
		step = 10
	}
	if len(t.Fields) > 0 {
		if input.JustPressed[KeyRight] {
			t.Fields[insp.Field].Nudge(step)
		}
		if input.JustPressed[KeyLeft] {
			t.Fields[insp.Field].Nudge(-step)
		}
	}

	if c := t.Control; c != nil {
		switch {
		case input.JustPressed[KeyX] && c.Enabled:
			c.SelectedAction = core.ActionDisable
		case input.JustPressed[KeyX]:
			c.Enabled = true
		case input.JustPressed[KeyDelete]:
			c.SelectedAction = core.ActionDelete
		case input.JustPressed[KeyU]:
			c.SelectedAction = core.ActionMoveUp
		case input.JustPressed[KeyJ]:
			c.SelectedAction = core.ActionMoveDown
		}
	} else if input.JustPressed[KeyDelete] {
		if err := sm.Remove(t.Emitter.ID()); err != nil {
			log.Warnf("%v", err)
		}
	}

	if input.JustPressed[KeyInsert] && input.Pressed[KeyShift] && t.Emitter != nil {
		insp.addAnimation(sm, t.Emitter, log)
	}
}

// addAnimation attaches the next registered particle animation, cycling
// through the registry tags.
func (insp *Inspector) addAnimation(sm *sim.Simulation, e *sim.Emitter, log Logger) {
	tags := sm.ParticleRegistry().Tags()
	if len(tags) == 0 {
		return
	}
	tag := tags[wrap(insp.nextAnimation, len(tags))]
	insp.nextAnimation++
	p, ok := sm.ParticleRegistry().Create(tag)
	if !ok {
		return
	}
	if err := e.AddParticleAnimation(p); err != nil {
		log.Errorf("add %s to %s: %v", tag, e.ID(), err)
	}
}

// Text renders the selected target for the overlay.
func (insp *Inspector) Text(targets []InspectorTarget) string {
	t, ok := insp.Current(targets)
	if !ok {
		return "inspector: empty scene"
	}
	title := fmt.Sprintf("[%d/%d] %s", insp.Target+1, len(targets), t.Title)
	if t.Control != nil && !t.Control.Enabled {
		title += " (disabled)"
	}
	return inspect.Format(title, t.Fields, insp.Field)
}
