package codec_test

import (
	"testing"

	"github.com/aretw0/protostate/pkg/codec"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoBlob = `{"initial":"empty","states":[["empty",{"on":{"CHANGE":"validating"}}],["validating",{"on":{"VALID":"valid","INVALID":"invalid"}}],["valid",{"on":{"CHANGE":"validating"}}],["invalid",{"on":{"CHANGE":"validating"}}]]}`

func TestMachineBlob(t *testing.T) {
	m, err := codec.DecodeMachine(demoBlob)
	require.NoError(t, err)
	assert.Equal(t, "empty", m.Initial())
	assert.Equal(t, []string{"empty", "validating", "valid", "invalid"}, m.Names())

	out, err := codec.EncodeMachine(m)
	require.NoError(t, err)
	assert.Equal(t, demoBlob, out)
}

func TestDecodeMachine_Rejects(t *testing.T) {
	tests := map[string]string{
		"not json":         `{`,
		"missing initial":  `{"states":[]}`,
		"state not tuple":  `{"initial":"a","states":[{"name":"a"}]}`,
		"bad event value":  `{"initial":"a","states":[["a",{"on":{"GO":42}}]]}`,
		"duplicate states": `{"initial":"a","states":[["a",{"on":{}}],["a",{"on":{}}]]}`,
	}

	for name, blob := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := codec.DecodeMachine(blob)
			assert.Error(t, err)
		})
	}
}

func TestBindingsBlob(t *testing.T) {
	bindings := []domain.NodeBinding{{
		Node: domain.Node{ID: "1:2", Name: "Spinner", Type: "FRAME"},
		Bindings: []domain.Binding{
			{Property: domain.PropertyVisibility, Expression: "state === 'validating'"},
		},
	}}

	blob, err := codec.EncodeBindings(bindings)
	require.NoError(t, err)

	got, err := codec.DecodeBindings(blob)
	require.NoError(t, err)
	assert.Equal(t, bindings, got)

	empty, err := codec.EncodeBindings(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}

func TestDecodeBindings_Rejects(t *testing.T) {
	_, err := codec.DecodeBindings(`[{"node":{"id":"1","name":"n","type":"FRAME"},"bindings":[{"property":"opacity","expression":"true"}]}]`)
	assert.Error(t, err)

	_, err = codec.DecodeBindings(`{}`)
	assert.Error(t, err)
}

func TestScalarBlobs(t *testing.T) {
	blob, err := codec.EncodeString("valid")
	require.NoError(t, err)
	assert.Equal(t, `"valid"`, blob)

	s, err := codec.DecodeString(blob)
	require.NoError(t, err)
	assert.Equal(t, "valid", s)

	_, err = codec.DecodeString(`42`)
	assert.Error(t, err)

	blob, err = codec.EncodeBool(false)
	require.NoError(t, err)
	b, err := codec.DecodeBool(blob)
	require.NoError(t, err)
	assert.False(t, b)

	_, err = codec.DecodeBool(`"yes"`)
	assert.Error(t, err)
}
