package ember

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInput_EdgeFlags(t *testing.T) {
	in := &Input{}
	in.press(KeySpace, true)
	assert.True(t, in.JustPressed[KeySpace])
	assert.True(t, in.Pressed[KeySpace])

	in.press(KeySpace, true)
	assert.False(t, in.JustPressed[KeySpace])
	assert.True(t, in.Pressed[KeySpace])

	in.press(KeySpace, false)
	assert.True(t, in.JustReleased[KeySpace])
	assert.False(t, in.Pressed[KeySpace])
}

func TestInput_Digit(t *testing.T) {
	in := &Input{}
	_, ok := in.Digit()
	assert.False(t, ok)

	in.press(Key7, true)
	d, ok := in.Digit()
	assert.True(t, ok)
	assert.Equal(t, 7, d)
}

func TestInput_EveryKeyIsMapped(t *testing.T) {
	for k := KeyA; k < MouseButtonLeft; k++ {
		_, ok := keyToGlfw[k]
		assert.True(t, ok, "key %d", k)
	}
}
