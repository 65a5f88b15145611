package editor

import "fmt"

// State is a step in the life of one applied edit.
type State int

const (
	StateLocated State = iota
	StateCursorShown
	StateStruckThrough
	StateTyping
	StateStaged
	StateAccepted
	StateDeclined

	// StateReplaced marks frames for whole-document changes made outside
	// the staging sequence: undo, user typing, deletion.
	StateReplaced
)

var stateNames = [...]string{
	StateLocated:       "located",
	StateCursorShown:   "cursor_shown",
	StateStruckThrough: "struck_through",
	StateTyping:        "typing",
	StateStaged:        "staged",
	StateAccepted:      "accepted",
	StateDeclined:      "declined",
	StateReplaced:      "replaced",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateDeclined
}

// canAdvance encodes the single forward path. Typing repeats once per
// character.
func (s State) canAdvance(to State) bool {
	switch s {
	case StateLocated:
		return to == StateCursorShown
	case StateCursorShown:
		return to == StateStruckThrough
	case StateStruckThrough:
		return to == StateTyping
	case StateTyping:
		return to == StateTyping || to == StateStaged
	case StateStaged:
		return to == StateAccepted || to == StateDeclined
	}
	return false
}

type machine struct {
	state State
}

func (m *machine) advance(to State) error {
	if !m.state.canAdvance(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
	}
	m.state = to
	return nil
}

// Frame is an immutable snapshot of the document emitted on every change.
type Frame struct {
	Seq    uint64 `json:"seq"`
	State  State  `json:"state"`
	EditID string `json:"edit_id,omitempty"`
	Markup string `json:"markup"`

	// Typed is the number of replacement characters shown while typing.
	Typed int `json:"typed,omitempty"`

	// ScrollTo is set when the edit position had to be scrolled into view.
	ScrollTo *int `json:"scroll_to,omitempty"`
}
