package core

// Action is a pending list edit requested by the UI and applied on the next
// UpdateList sweep.
type Action int

const (
	ActionNone Action = iota
	ActionDelete
	ActionMoveUp
	ActionMoveDown
	ActionDisable
)

func (a Action) String() string {
	switch a {
	case ActionDelete:
		return "delete"
	case ActionMoveUp:
		return "move_up"
	case ActionMoveDown:
		return "move_down"
	case ActionDisable:
		return "disable"
	default:
		return "none"
	}
}

// Control is the UI-facing state shared by animations and effects.
type Control struct {
	Enabled        bool
	SelectedAction Action
}

func NewControl() Control {
	return Control{Enabled: true}
}

func (c *Control) Controls() *Control { return c }

type Controlled interface {
	Controls() *Control
}

// UpdateList applies pending actions in one forward pass and returns the
// resulting list. For index i: Delete removes entry i and re-examines i;
// MoveUp on entry i swaps it with i-1; MoveDown on entry i-1 swaps it with i;
// Disable clears Enabled. Every applied action is reset to ActionNone, so an
// entry changes position at most once per sweep. With no pending actions the
// list is returned unchanged.
func UpdateList[T Controlled](list []T) []T {
	i := 0
	for i < len(list) {
		ctl := list[i].Controls()

		switch {
		case ctl.SelectedAction == ActionDelete:
			list = append(list[:i], list[i+1:]...)
			continue
		case ctl.SelectedAction == ActionDisable:
			ctl.Enabled = false
			ctl.SelectedAction = ActionNone
		case ctl.SelectedAction == ActionMoveUp && i > 0:
			list[i-1], list[i] = list[i], list[i-1]
			list[i-1].Controls().SelectedAction = ActionNone
			// The displaced entry already moved down by this swap.
			if d := list[i].Controls(); d.SelectedAction == ActionMoveDown {
				d.SelectedAction = ActionNone
			}
		case i > 0 && list[i-1].Controls().SelectedAction == ActionMoveDown:
			list[i-1], list[i] = list[i], list[i-1]
			list[i].Controls().SelectedAction = ActionNone
		}
		i++
	}

	// A leading MoveUp or a trailing MoveDown has nowhere to go.
	if n := len(list); n > 0 {
		if ctl := list[0].Controls(); ctl.SelectedAction == ActionMoveUp {
			ctl.SelectedAction = ActionNone
		}
		if ctl := list[n-1].Controls(); ctl.SelectedAction == ActionMoveDown {
			ctl.SelectedAction = ActionNone
		}
	}
	return list
}
