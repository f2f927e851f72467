package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	Control
	name string
}

func items(names ...string) []*item {
	out := make([]*item, len(names))
	for i, n := range names {
		out[i] = &item{Control: NewControl(), name: n}
	}
	return out
}

func names(list []*item) []string {
	out := make([]string, len(list))
	for i, it := range list {
		out[i] = it.name
	}
	return out
}

func TestUpdateList_Delete(t *testing.T) {
	list := items("a", "b", "c", "d")
	list[1].SelectedAction = ActionDelete
	list[2].SelectedAction = ActionDelete

	list = UpdateList(list)
	assert.Equal(t, []string{"a", "d"}, names(list))
}

func TestUpdateList_MoveUp(t *testing.T) {
	list := items("a", "b", "c")
	list[2].SelectedAction = ActionMoveUp

	list = UpdateList(list)
	assert.Equal(t, []string{"a", "c", "b"}, names(list))
	for _, it := range list {
		assert.Equal(t, ActionNone, it.SelectedAction)
	}
}

func TestUpdateList_MoveDown(t *testing.T) {
	list := items("a", "b", "c")
	list[0].SelectedAction = ActionMoveDown

	list = UpdateList(list)
	assert.Equal(t, []string{"b", "a", "c"}, names(list))
	for _, it := range list {
		assert.Equal(t, ActionNone, it.SelectedAction)
	}
}

func TestUpdateList_EdgesAreReset(t *testing.T) {
	list := items("a", "b")
	list[0].SelectedAction = ActionMoveUp
	list[1].SelectedAction = ActionMoveDown

	list = UpdateList(list)
	assert.Equal(t, []string{"a", "b"}, names(list))
	assert.Equal(t, ActionNone, list[0].SelectedAction)
	assert.Equal(t, ActionNone, list[1].SelectedAction)
}

func TestUpdateList_ConflictingMoves(t *testing.T) {
	list := items("a", "b", "c")
	list[0].SelectedAction = ActionMoveDown
	list[1].SelectedAction = ActionMoveUp

	list = UpdateList(list)
	assert.Equal(t, []string{"b", "a", "c"}, names(list))
	for _, it := range list {
		assert.Equal(t, ActionNone, it.SelectedAction, it.name)
	}

	list = UpdateList(list)
	assert.Equal(t, []string{"b", "a", "c"}, names(list))
}

func TestUpdateList_Disable(t *testing.T) {
	list := items("a", "b")
	list[1].SelectedAction = ActionDisable

	list = UpdateList(list)
	assert.Equal(t, []string{"a", "b"}, names(list))
	assert.True(t, list[0].Enabled)
	assert.False(t, list[1].Enabled)
	assert.Equal(t, ActionNone, list[1].SelectedAction)
}

func TestUpdateList_IdempotentWithoutActions(t *testing.T) {
	list := items("a", "b", "c", "d")
	list[3].Enabled = false

	first := UpdateList(list)
	snapshot := names(first)
	second := UpdateList(first)

	assert.Equal(t, snapshot, names(second))
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(second))
	assert.False(t, second[3].Enabled)
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "move_down", ActionMoveDown.String())
	assert.Equal(t, "none", Action(42).String())
}
