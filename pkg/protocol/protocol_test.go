package protocol_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  protocol.Message
	}{
		{
			name:  "bare selection",
			input: `{"type":"SELECTED_NODE","node":{"id":"1:2","name":"Button","type":"FRAME"}}`,
			want: protocol.SelectedNode(&domain.Node{
				ID: "1:2", Name: "Button", Type: "FRAME",
			}),
		},
		{
			name:  "enveloped selection",
			input: `{"pluginMessage":{"type":"SELECTED_NODE","node":{"id":"1:2","name":"Button","type":"FRAME"}},"pluginId":"42"}`,
			want: protocol.SelectedNode(&domain.Node{
				ID: "1:2", Name: "Button", Type: "FRAME",
			}),
		},
		{
			name:  "empty selection",
			input: `{"type":"SELECTED_NODE","node":null}`,
			want:  protocol.SelectedNode(nil),
		},
		{
			name:  "select node",
			input: `{"pluginMessage":{"type":"SELECT_NODE","nodeId":"3:4"}}`,
			want:  protocol.SelectNode("3:4"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := protocol.DecodeJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	for _, input := range []string{
		`not json`,
		`{"pluginMessage":"text"}`,
		`{"node":null}`,
		`{"type":42}`,
	} {
		_, err := protocol.DecodeJSON([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestWrap(t *testing.T) {
	data, err := json.Marshal(protocol.Wrap(protocol.UIReady()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"pluginMessage":{"type":"UI_READY"},"pluginId":"*"}`, string(data))

	data, err = json.Marshal(protocol.Wrap(protocol.SelectNode("1:2")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"pluginMessage":{"type":"SELECT_NODE","nodeId":"1:2"},"pluginId":"*"}`, string(data))
}

func TestSetVisible(t *testing.T) {
	data, err := json.Marshal(protocol.SetVisible("1:2", false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SET_VISIBLE","nodeId":"1:2","visible":false}`, string(data))

	msg, err := protocol.DecodeJSON(data)
	require.NoError(t, err)
	require.NotNil(t, msg.Visible)
	assert.False(t, *msg.Visible)
}
