package bridge

import "strings"

// Key is a keyboard event as reported by the page (KeyboardEvent.key plus modifiers).
type Key struct {
	Code  string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Alt   bool   `json:"alt"`
	Shift bool   `json:"shift"`
}

// Modifier reports whether the navigation modifier (Ctrl or Meta) is held.
func (k Key) Modifier() bool {
	return k.Ctrl || k.Meta
}

// String returns a compact representation such as "mod+ArrowRight".
func (k Key) String() string {
	if k.Modifier() {
		return "mod+" + k.Code
	}
	return k.Code
}

// Action is the effect of a keyboard shortcut.
type Action int

const (
	ActionNone Action = iota
	ActionAdvance
	ActionRetreat
	ActionLike
	ActionSkip
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionAdvance:
		return "advance"
	case ActionRetreat:
		return "retreat"
	case ActionLike:
		return "like"
	case ActionSkip:
		return "skip"
	default:
		return "none"
	}
}

// Binding maps a key (with or without the modifier) to an action.
type Binding struct {
	Key      string `json:"key"`
	Modifier bool   `json:"modifier"`
	Action   string `json:"action"`
}

var bindings = []struct {
	key      string
	modifier bool
	action   Action
}{
	{"ArrowRight", true, ActionAdvance},
	{"ArrowLeft", true, ActionRetreat},
	{"ArrowUp", false, ActionLike},
	{"ArrowDown", false, ActionSkip},
}

// Lookup returns the action bound to k. Unmodified bindings do not fire
// while the modifier is held.
func Lookup(k Key) Action {
	for _, b := range bindings {
		if strings.EqualFold(b.key, k.Code) && b.modifier == k.Modifier() {
			return b.action
		}
	}
	return ActionNone
}

// Bindings returns the shortcut table so the page can suppress defaults
// synchronously before forwarding the key.
func Bindings() []Binding {
	out := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, Binding{Key: b.key, Modifier: b.modifier, Action: b.action.String()})
	}
	return out
}
