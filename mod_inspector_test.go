package ember

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

func keys(held []int, pressed ...int) *Input {
	in := &Input{}
	for _, k := range held {
		in.Pressed[k] = true
	}
	for _, k := range pressed {
		in.Pressed[k] = true
		in.JustPressed[k] = true
	}
	return in
}

func TestTargets_ListsEmittersAnimationsAndEffects(t *testing.T) {
	sm, chain := newScene(t)
	targets := Targets(sm, chain)

	titles := make([]string, len(targets))
	for i, tg := range targets {
		titles[i] = tg.Title
	}
	assert.Equal(t, []string{
		"emitter lights (light)",
		"emitter fountain",
		"fountain / particle color",
		"fountain / particle force",
		"fountain / emitter sway",
		"fx bloom",
	}, titles)
	assert.Nil(t, targets[0].Control)
	assert.NotNil(t, targets[2].Control)
	assert.Nil(t, targets[5].Emitter)
}

func TestInspector_NavigateAndNudge(t *testing.T) {
	sm, chain := newScene(t)
	insp := &Inspector{}
	log := NewNopLogger()

	insp.Apply(keys(nil, KeyPeriod), sm, chain, log)
	assert.Equal(t, 1, insp.Target)

	fountain, _ := sm.Lookup("fountain")
	before := fountain.Uniform.SpawnCount
	insp.Apply(keys(nil, KeyRight), sm, chain, log)
	assert.Equal(t, before+1, fountain.Uniform.SpawnCount)
	insp.Apply(keys([]int{KeyShift}, KeyLeft), sm, chain, log)
	assert.Equal(t, before-9, fountain.Uniform.SpawnCount)

	insp.Apply(keys(nil, KeyUp), sm, chain, log)
	assert.Equal(t, len(Targets(sm, chain)[1].Fields)-1, insp.Field)

	insp.Target = 0
	insp.Apply(keys(nil, KeyComma), sm, chain, log)
	assert.Equal(t, 5, insp.Target)
	assert.Zero(t, insp.Field)
}

func TestInspector_ListActions(t *testing.T) {
	sm, chain := newScene(t)
	insp := &Inspector{Target: 2}
	log := NewNopLogger()
	fountain, _ := sm.Lookup("fountain")
	color := fountain.ParticleAnimations[0]

	insp.Apply(keys(nil, KeyX), sm, chain, log)
	assert.Equal(t, core.ActionDisable, color.SelectedAction)
	sm.Sweep()
	assert.False(t, color.Enabled)
	insp.Apply(keys(nil, KeyX), sm, chain, log)
	assert.True(t, color.Enabled)

	insp.Apply(keys(nil, KeyJ), sm, chain, log)
	sm.Sweep()
	assert.Same(t, color, fountain.ParticleAnimations[1])

	insp.Target = 5
	insp.Apply(keys(nil, KeyDelete), sm, chain, log)
	chain.Sweep()
	assert.Empty(t, chain.Nodes())
}

func TestInspector_EmitterActions(t *testing.T) {
	sm, chain := newScene(t)
	insp := &Inspector{}
	log := NewNopLogger()

	insp.Apply(keys(nil, KeyDelete), sm, chain, log)
	assert.Len(t, sm.Emitters(), 2, "the light emitter stays")

	insp.Apply(keys(nil, KeyInsert), sm, chain, log)
	require.Len(t, sm.Emitters(), 3)
	assert.True(t, strings.HasPrefix(sm.Emitters()[2].ID(), "emitter-"))

	insp.Target = 1
	fountain, _ := sm.Lookup("fountain")
	insp.Apply(keys([]int{KeyShift}, KeyInsert), sm, chain, log)
	assert.Len(t, fountain.ParticleAnimations, 3)
	assert.Len(t, sm.Emitters(), 3)

	insp.Apply(keys(nil, KeyDelete), sm, chain, log)
	_, ok := sm.Lookup("fountain")
	assert.False(t, ok)
}

func TestInspector_Text(t *testing.T) {
	sm, chain := newScene(t)
	insp := &Inspector{}
	text := insp.Text(Targets(sm, chain))
	assert.True(t, strings.HasPrefix(text, "[1/6] emitter lights (light)\n > spawn_count: 8\n"), text)

	empty := &Inspector{Target: 3}
	assert.Equal(t, "inspector: empty scene", empty.Text(nil))
	assert.Zero(t, empty.Target)
}
