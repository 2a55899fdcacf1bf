package ports

import (
	"context"

	"github.com/aretw0/protostate/pkg/protocol"
)

// NodeMutator applies binding side effects to nodes of the host document.
type NodeMutator interface {
	// SetVisible shows or hides a node. Unknown nodes and container kinds
	// (documents, pages) are left untouched without error.
	SetVisible(ctx context.Context, nodeID string, visible bool) error
}

// Messenger posts messages to the host application.
type Messenger interface {
	Send(ctx context.Context, msg protocol.Message) error
}
