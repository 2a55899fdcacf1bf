package codec_test

import (
	"testing"

	"github.com/aretw0/protostate/pkg/codec"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeStateValue(t *testing.T) {
	text, err := codec.EncodeStateValue(domain.NewStateValue(
		domain.Event{Name: "VALID", Value: domain.Shorthand("valid")},
		domain.Event{Name: "INVALID", Value: domain.Shorthand("invalid")},
	))
	require.NoError(t, err)
	assert.Equal(t, "on:\n  VALID: valid\n  INVALID: invalid\n", text)
}

func TestEncodeStateValue_Empty(t *testing.T) {
	text, err := codec.EncodeStateValue(domain.StateValue{})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestStateValue_TextRoundTrip(t *testing.T) {
	original := domain.NewStateValue(
		domain.Event{Name: "Z", Value: domain.Full("a", "log", "track")},
		domain.Event{Name: "A", Value: domain.Shorthand("b")},
		domain.Event{Name: "G", Value: domain.Shorthand("c").WithGuard("state === 'x'")},
	)

	text, err := codec.EncodeStateValue(original)
	require.NoError(t, err)

	decoded, err := codec.DecodeStateValue(text)
	require.NoError(t, err)

	require.Equal(t, 3, decoded.Len())
	for i, e := range original.Events() {
		got := decoded.Events()[i]
		assert.Equal(t, e.Name, got.Name)
		assert.Equal(t, e.Value.IsShorthand(), got.Value.IsShorthand())
		assert.Equal(t, domain.ParseEventValue(e.Value), domain.ParseEventValue(got.Value))
	}
}

func TestStateValue_KeepsActionForm(t *testing.T) {
	scalar := "on:\n  LOG:\n    target: next\n    actions: track\n"
	value, err := codec.DecodeStateValue(scalar)
	require.NoError(t, err)
	text, err := codec.EncodeStateValue(value)
	require.NoError(t, err)
	assert.Equal(t, scalar, text)

	value, err = codec.DecodeStateValue("on:\n  LOG:\n    target: next\n    actions: [track]\n")
	require.NoError(t, err)
	text, err = codec.EncodeStateValue(value)
	require.NoError(t, err)
	assert.Contains(t, text, "- track")
	assert.NotContains(t, text, "actions: track")
}

func TestDecodeStateValue(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		events map[string]domain.Transition
	}{
		{
			name:   "empty text",
			text:   "",
			events: map[string]domain.Transition{},
		},
		{
			name:   "whitespace only",
			text:   "  \n\t\n",
			events: map[string]domain.Transition{},
		},
		{
			name: "shorthand and single action",
			text: "on:\n  GO: next\n  LOG:\n    target: next\n    actions: track\n",
			events: map[string]domain.Transition{
				"GO":  {Target: "next", Actions: []string{}},
				"LOG": {Target: "next", Actions: []string{"track"}},
			},
		},
		{
			name: "flow style",
			text: `on: {GO: {target: next, actions: [a, b]}}`,
			events: map[string]domain.Transition{
				"GO": {Target: "next", Actions: []string{"a", "b"}},
			},
		},
		{
			name: "numeric event name",
			text: "on:\n  1: next\n",
			events: map[string]domain.Transition{
				"1": {Target: "next", Actions: []string{}},
			},
		},
		{
			name:   "empty on",
			text:   "on: {}\n",
			events: map[string]domain.Transition{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := codec.DecodeStateValue(tt.text)
			require.NoError(t, err)
			assert.Equal(t, len(tt.events), value.Len())
			for name, want := range tt.events {
				got, ok := value.Lookup(name)
				require.True(t, ok, name)
				assert.Equal(t, want, domain.ParseEventValue(got))
			}
		})
	}
}

func TestDecodeStateValue_InvalidFormat(t *testing.T) {
	for _, text := range []string{
		"on: [unclosed",
		"on:\n  GO: a\n  GO: b\n",
		"\ton: x",
	} {
		_, err := codec.DecodeStateValue(text)
		assert.ErrorIs(t, err, codec.ErrInvalidFormat, text)
	}
}

func TestDecodeStateValue_SchemaError(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
	}{
		{name: "missing on", text: "events: {}\n", key: "on"},
		{name: "on is a list", text: "on: [a, b]\n", key: "on"},
		{name: "target is a number", text: "on:\n  GO:\n    target: 3\n", key: "on.GO.target"},
		{name: "missing target", text: "on:\n  GO:\n    actions: [a]\n", key: "on.GO.target"},
		{name: "actions of numbers", text: "on:\n  GO:\n    target: x\n    actions: [1]\n", key: "on.GO.actions"},
		{name: "null event value", text: "on:\n  GO:\n", key: "on.GO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.DecodeStateValue(tt.text)
			require.Error(t, err)
			assert.NotErrorIs(t, err, codec.ErrInvalidFormat)

			errs := schema.ValidationErrors(err)
			require.NotEmpty(t, errs, err.Error())
			assert.Equal(t, tt.key, errs[0].(*schema.ValidationError).Key)
		})
	}
}

func TestDecodeStateValue_RootScalar(t *testing.T) {
	_, err := codec.DecodeStateValue("just text")
	require.Error(t, err)
	assert.Equal(t, "expected mapping, got string", err.Error())
}

func TestCheckStateName(t *testing.T) {
	m, err := domain.NewStateMachine("a", domain.State{Name: "a"}, domain.State{Name: "b"})
	require.NoError(t, err)

	assert.NoError(t, codec.CheckStateName(m, "a", "a"), "unchanged name")
	assert.NoError(t, codec.CheckStateName(m, "a", "c"), "free name")
	assert.NoError(t, codec.CheckStateName(m, "", "c"), "new state")

	err = codec.CheckStateName(m, "a", "b")
	require.Error(t, err)
	assert.Equal(t, "A state with this name already exists.", err.Error())
	assert.True(t, domain.IsValidation(err))
	assert.ErrorIs(t, err, domain.ErrDuplicateState)

	assert.Error(t, codec.CheckStateName(m, "", "a"), "creating an existing name")
}
