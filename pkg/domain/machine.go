package domain

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Event is one entry of a StateValue.
type Event struct {
	Name  string
	Value EventValue
}

// StateValue maps event names to event values, preserving insertion order for display.
// The zero value is an empty map. A StateValue is never modified after construction.
type StateValue struct {
	on *orderedmap.OrderedMap[string, EventValue]
}

type stateValueWire struct {
	On *orderedmap.OrderedMap[string, EventValue] `json:"on"`
}

// NewStateValue builds a StateValue from events in order.
// A repeated event name keeps its first position and its last value.
func NewStateValue(events ...Event) StateValue {
	on := orderedmap.New[string, EventValue]()
	for _, e := range events {
		on.Set(e.Name, e.Value)
	}
	return StateValue{on: on}
}

// Len returns the number of events.
func (s StateValue) Len() int {
	if s.on == nil {
		return 0
	}
	return s.on.Len()
}

// Events returns the events in insertion order.
func (s StateValue) Events() []Event {
	if s.on == nil {
		return nil
	}
	out := make([]Event, 0, s.on.Len())
	for pair := s.on.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Event{Name: pair.Key, Value: pair.Value})
	}
	return out
}

// Lookup returns the value of the named event.
func (s StateValue) Lookup(event string) (EventValue, bool) {
	if s.on == nil {
		return EventValue{}, false
	}
	return s.on.Get(event)
}

// Retarget returns a StateValue in which every event targeting from targets to instead.
// When nothing matches, s itself is returned.
func (s StateValue) Retarget(from, to string) StateValue {
	events := s.Events()
	changed := false
	for i, e := range events {
		if ParseEventValue(e.Value).Target == from {
			events[i].Value = e.Value.Retarget(to)
			changed = true
		}
	}
	if !changed {
		return s
	}
	return NewStateValue(events...)
}

func (s StateValue) wire() stateValueWire {
	if s.on == nil {
		return stateValueWire{On: orderedmap.New[string, EventValue]()}
	}
	return stateValueWire{On: s.on}
}

// MarshalJSON encodes the value as {"on": {...}}.
func (s StateValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// UnmarshalJSON decodes {"on": {...}} keeping the order of the event keys.
func (s *StateValue) UnmarshalJSON(data []byte) error {
	var w stateValueWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.on = w.On
	return nil
}

// MarshalYAML encodes the value as an "on" mapping.
func (s StateValue) MarshalYAML() (any, error) {
	on := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range s.Events() {
		var value yaml.Node
		if err := value.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Name, err)
		}
		on.Content = append(on.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name}, &value)
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "on"},
			on,
		},
	}, nil
}

// UnmarshalYAML decodes an "on" mapping keeping the order of the event keys.
func (s *StateValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: state value must be a mapping", node.Line)
	}
	on := orderedmap.New[string, EventValue]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "on" {
			continue
		}
		events := node.Content[i+1]
		if events.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: on must be a mapping", events.Line)
		}
		for j := 0; j+1 < len(events.Content); j += 2 {
			var v EventValue
			if err := events.Content[j+1].Decode(&v); err != nil {
				return err
			}
			on.Set(events.Content[j].Value, v)
		}
	}
	s.on = on
	return nil
}

// State is a named entry of a StateMachine.
type State struct {
	Name  string
	Value StateValue
}

// MarshalJSON encodes the state as a [name, value] tuple.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Name, s.Value})
}

// UnmarshalJSON decodes a [name, value] tuple.
func (s *State) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("state entry must have 2 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &s.Name); err != nil {
		return fmt.Errorf("state name: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &s.Value); err != nil {
		return fmt.Errorf("state %q: %w", s.Name, err)
	}
	return nil
}

// MarshalYAML encodes the state as a [name, value] sequence.
func (s State) MarshalYAML() (any, error) {
	return []any{s.Name, s.Value}, nil
}

// UnmarshalYAML decodes a [name, value] sequence.
func (s *State) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: state entry must be a [name, value] pair", node.Line)
	}
	if err := node.Content[0].Decode(&s.Name); err != nil {
		return err
	}
	return node.Content[1].Decode(&s.Value)
}

// StateMachine is an immutable snapshot of a machine definition.
//
// States keep their authoring order. Initial may name a state that is not
// defined yet, and event targets may reference undefined states; both are
// surfaced by package analysis rather than rejected here.
type StateMachine struct {
	initial string
	states  []State
	index   map[string]int
}

type machineWire struct {
	Initial string  `json:"initial" yaml:"initial"`
	States  []State `json:"states" yaml:"states"`
}

// NewStateMachine builds a snapshot. It fails only when a state name repeats.
func NewStateMachine(initial string, states ...State) (*StateMachine, error) {
	m := &StateMachine{
		initial: initial,
		states:  make([]State, len(states)),
		index:   make(map[string]int, len(states)),
	}
	for i, s := range states {
		if _, exists := m.index[s.Name]; exists {
			return nil, &ValidationError{
				Reason: fmt.Sprintf("duplicate name %q", s.Name),
				Err:    ErrDuplicateState,
			}
		}
		m.index[s.Name] = i
		m.states[i] = s
	}
	return m, nil
}

// Initial returns the name of the initial state, or "" when unset.
func (m *StateMachine) Initial() string {
	if m == nil {
		return ""
	}
	return m.initial
}

// Len returns the number of defined states.
func (m *StateMachine) Len() int {
	if m == nil {
		return 0
	}
	return len(m.states)
}

// States returns a copy of the states in display order.
func (m *StateMachine) States() []State {
	if m == nil {
		return nil
	}
	out := make([]State, len(m.states))
	copy(out, m.states)
	return out
}

// Names returns the state names in display order.
func (m *StateMachine) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.states))
	for i, s := range m.states {
		names[i] = s.Name
	}
	return names
}

// Has reports whether name is a defined state.
func (m *StateMachine) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[name]
	return ok
}

// IndexOf returns the display position of name, or -1.
func (m *StateMachine) IndexOf(name string) int {
	if m == nil {
		return -1
	}
	if i, ok := m.index[name]; ok {
		return i
	}
	return -1
}

// Lookup returns the value of the named state.
func (m *StateMachine) Lookup(name string) (StateValue, bool) {
	i := m.IndexOf(name)
	if i < 0 {
		return StateValue{}, false
	}
	return m.states[i].Value, true
}

func (m *StateMachine) wire() machineWire {
	states := m.States()
	if states == nil {
		states = []State{}
	}
	return machineWire{Initial: m.Initial(), States: states}
}

func (m *StateMachine) fromWire(w machineWire) error {
	built, err := NewStateMachine(w.Initial, w.States...)
	if err != nil {
		return err
	}
	*m = *built
	return nil
}

// MarshalJSON encodes {"initial": ..., "states": [[name, value], ...]}.
func (m *StateMachine) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.wire())
}

// UnmarshalJSON decodes the persisted machine shape.
func (m *StateMachine) UnmarshalJSON(data []byte) error {
	var w machineWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return m.fromWire(w)
}

// MarshalYAML mirrors MarshalJSON.
func (m *StateMachine) MarshalYAML() (any, error) {
	return m.wire(), nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (m *StateMachine) UnmarshalYAML(node *yaml.Node) error {
	var w machineWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	return m.fromWire(w)
}
