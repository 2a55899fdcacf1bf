package http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/protostate/pkg/ports"
	"github.com/aretw0/protostate/pkg/protocol"
)

// Host relays the host-bound messages of one document to its SSE subscribers.
// The browser side forwards each HostEvent to the design application.
type Host struct {
	streams  *StreamManager
	document string
}

var (
	_ ports.NodeMutator = (*Host)(nil)
	_ ports.Messenger   = (*Host)(nil)
)

// Host returns the host adapter publishing on document's stream.
func (sm *StreamManager) Host(document string) *Host {
	return &Host{streams: sm, document: document}
}

// SetVisible publishes a SET_VISIBLE message.
func (h *Host) SetVisible(ctx context.Context, nodeID string, visible bool) error {
	return h.Send(ctx, protocol.SetVisible(nodeID, visible))
}

// Send publishes msg. Nobody listening is not an error.
func (h *Host) Send(_ context.Context, msg protocol.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", msg.Type, err)
	}
	h.streams.Publish(h.document, HostEvent, string(data))
	return nil
}
