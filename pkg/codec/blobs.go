package codec

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/schema"
)

// EncodeMachine renders the persisted JSON form of a machine.
func EncodeMachine(m *domain.StateMachine) (string, error) {
	return encodeJSON(m)
}

// DecodeMachine validates and decodes a persisted machine.
func DecodeMachine(blob string) (*domain.StateMachine, error) {
	if err := checkJSON(blob, StateMachineSchema); err != nil {
		return nil, err
	}
	var m domain.StateMachine
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// EncodeBindings renders the persisted JSON form of a binding list.
func EncodeBindings(bindings []domain.NodeBinding) (string, error) {
	if bindings == nil {
		bindings = []domain.NodeBinding{}
	}
	return encodeJSON(bindings)
}

// DecodeBindings validates and decodes a persisted binding list.
func DecodeBindings(blob string) ([]domain.NodeBinding, error) {
	if err := checkJSON(blob, NodeBindingsSchema); err != nil {
		return nil, err
	}
	var out []domain.NodeBinding
	if err := json.Unmarshal([]byte(blob), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.NodeBinding{}
	}
	return out, nil
}

// EncodeString renders a JSON string blob such as the current state.
func EncodeString(s string) (string, error) {
	return encodeJSON(s)
}

// DecodeString validates and decodes a JSON string blob.
func DecodeString(blob string) (string, error) {
	if err := checkJSON(blob, schema.String()); err != nil {
		return "", err
	}
	var s string
	err := json.Unmarshal([]byte(blob), &s)
	return s, err
}

// EncodeBool renders a JSON boolean blob.
func EncodeBool(b bool) (string, error) {
	return encodeJSON(b)
}

// DecodeBool validates and decodes a JSON boolean blob.
func DecodeBool(blob string) (bool, error) {
	if err := checkJSON(blob, schema.Bool()); err != nil {
		return false, err
	}
	var b bool
	err := json.Unmarshal([]byte(blob), &b)
	return b, err
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func checkJSON(blob string, t schema.Type) error {
	var raw any
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return schema.Check(t, raw)
}

func validateProperty(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	if domain.Property(s) != domain.PropertyVisibility {
		return fmt.Errorf("unsupported property %q", s)
	}
	return nil
}
