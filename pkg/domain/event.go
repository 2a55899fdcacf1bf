package domain

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// EventValue is what firing an event does: move to a target state and run actions.
//
// It has two encodings. The shorthand is a bare target name; the full form is an
// object with a target, optional actions (a single action or a list) and an
// optional guard expression. Use Shorthand and Full to build values and
// ParseEventValue to read them.
type EventValue struct {
	target  string
	actions []string
	guard   string
	full    bool
	// scalar records that a single action was written without a list.
	scalar bool
}

// Transition is the canonical reading of an EventValue.
// An empty Target means "no transition".
type Transition struct {
	Target  string   `json:"target"`
	Actions []string `json:"actions"`
	Guard   string   `json:"guard,omitempty"`
}

// Shorthand returns the bare-target form of an event value.
func Shorthand(target string) EventValue {
	return EventValue{target: target}
}

// Full returns the object form of an event value.
func Full(target string, actions ...string) EventValue {
	return EventValue{
		target:  target,
		actions: append([]string(nil), actions...),
		full:    true,
	}
}

// WithGuard returns a copy of v in full form carrying the guard expression.
func (v EventValue) WithGuard(expression string) EventValue {
	v.actions = append([]string(nil), v.actions...)
	v.guard = expression
	v.full = true
	return v
}

// IsShorthand reports whether v is encoded as a bare target name.
func (v EventValue) IsShorthand() bool {
	return !v.full
}

// Target returns the target state name, possibly empty.
func (v EventValue) Target() string {
	return v.target
}

// Retarget points v at a new target, keeping its actions and guard.
// The result is the shorthand form when there is nothing but a target to keep.
func (v EventValue) Retarget(target string) EventValue {
	if len(v.actions) == 0 && v.guard == "" {
		return Shorthand(target)
	}
	out := Full(target, v.actions...)
	out.guard = v.guard
	out.scalar = v.scalar
	return out
}

// ParseEventValue normalizes either encoding into a Transition.
// It never fails: malformed values degrade to an empty target and no actions.
func ParseEventValue(v EventValue) Transition {
	actions := make([]string, len(v.actions))
	copy(actions, v.actions)
	return Transition{
		Target:  v.target,
		Actions: actions,
		Guard:   v.guard,
	}
}

type fullWire struct {
	Target  string `json:"target" yaml:"target"`
	Actions any    `json:"actions,omitempty" yaml:"actions,omitempty"`
	Guard   string `json:"guard,omitempty" yaml:"guard,omitempty"`
}

// wire keeps the form the value was written in: a lone action written as a
// scalar stays a scalar.
func (v EventValue) wire() any {
	if !v.full {
		return v.target
	}
	w := fullWire{Target: v.target, Guard: v.guard}
	switch {
	case len(v.actions) == 1 && v.scalar:
		w.Actions = v.actions[0]
	case len(v.actions) > 0:
		w.Actions = v.actions
	}
	return w
}

// MarshalJSON encodes the shorthand as a string and the full form as an object.
func (v EventValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.wire())
}

// UnmarshalJSON accepts any JSON value; shapes other than a string or an
// object degrade to an empty full value.
func (v *EventValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = eventValueFrom(raw)
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (v EventValue) MarshalYAML() (any, error) {
	return v.wire(), nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (v *EventValue) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = eventValueFrom(raw)
	return nil
}

func eventValueFrom(raw any) EventValue {
	switch t := raw.(type) {
	case string:
		return Shorthand(t)
	case map[string]any:
		v := EventValue{full: true}
		v.target, _ = t["target"].(string)
		v.guard, _ = t["guard"].(string)
		v.actions = normalizeActions(t["actions"])
		_, v.scalar = t["actions"].(string)
		return v
	default:
		return EventValue{full: true}
	}
}

// normalizeActions wraps a single action and drops anything that is not a string.
func normalizeActions(raw any) []string {
	switch t := raw.(type) {
	case string:
		return []string{t}
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
