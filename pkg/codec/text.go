package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/schema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFormat is returned when text or a blob cannot be parsed at all.
var ErrInvalidFormat = errors.New("invalid format")

// EncodeStateValue renders the event map of a state as an indented text block
// under a top-level "on" key. An empty map renders as empty text.
func EncodeStateValue(value domain.StateValue) (string, error) {
	if value.Len() == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("encode state value: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode state value: %w", err)
	}
	return buf.String(), nil
}

// DecodeStateValue parses a text block produced by EncodeStateValue or edited by hand.
//
// Empty text is an empty event map. Text that is not well-formed fails with an
// error wrapping ErrInvalidFormat. Text that parses but does not match the
// canonical shape fails with the *schema.AggregateError describing every mismatch.
func DecodeStateValue(text string) (domain.StateValue, error) {
	if strings.TrimSpace(text) == "" {
		return domain.NewStateValue(), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return domain.StateValue{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var raw any
	if err := doc.Decode(&raw); err != nil {
		return domain.StateValue{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := schema.Check(StateValueSchema, stringKeys(raw)); err != nil {
		return domain.StateValue{}, err
	}

	var value domain.StateValue
	if err := doc.Decode(&value); err != nil {
		return domain.StateValue{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return value, nil
}

// stringKeys converts mappings with non-string keys (e.g. an event named 1)
// into string-keyed ones so they can be checked like any other mapping.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = stringKeys(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = stringKeys(item)
		}
		return t
	default:
		return v
	}
}
