package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/protostate/pkg/adapters/memory"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_SetVisible(t *testing.T) {
	ctx := context.Background()
	h := memory.NewHost(
		domain.Node{ID: "1:2", Name: "Button", Type: "FRAME"},
		domain.Node{ID: "0:1", Name: "Page 1", Type: memory.NodeTypePage},
	)

	assert.True(t, h.Visible("1:2"))

	require.NoError(t, h.SetVisible(ctx, "1:2", false))
	assert.False(t, h.Visible("1:2"))

	require.NoError(t, h.SetVisible(ctx, "0:1", false))
	assert.True(t, h.Visible("0:1"), "pages are never hidden")

	assert.NoError(t, h.SetVisible(ctx, "ghost", false))
}

func TestHost_Send(t *testing.T) {
	h := memory.NewHost()
	require.NoError(t, h.Send(context.Background(), protocol.UIReady()))
	require.NoError(t, h.Send(context.Background(), protocol.SelectNode("1:2")))

	msgs := h.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, protocol.TypeUIReady, msgs[0].Type)
	assert.Equal(t, "1:2", msgs[1].NodeID)
}
