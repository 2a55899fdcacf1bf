package memory

import (
	"context"
	"sync"

	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/protocol"
)

// Node kinds that are never hidden.
const (
	NodeTypeDocument = "DOCUMENT"
	NodeTypePage     = "PAGE"
)

// Host is an in-memory design document. It implements ports.NodeMutator and
// ports.Messenger and records what it receives.
// Safe for concurrent use.
type Host struct {
	mu       sync.RWMutex
	nodes    map[string]domain.Node
	visible  map[string]bool
	messages []protocol.Message
}

// NewHost creates a host containing nodes, all visible.
func NewHost(nodes ...domain.Node) *Host {
	h := &Host{
		nodes:   make(map[string]domain.Node),
		visible: make(map[string]bool),
	}
	for _, n := range nodes {
		h.AddNode(n)
	}
	return h
}

// AddNode adds or replaces a node. New nodes are visible.
func (h *Host) AddNode(n domain.Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.nodes[n.ID]; !exists {
		h.visible[n.ID] = true
	}
	h.nodes[n.ID] = n
}

// Node returns a node by id.
func (h *Host) Node(id string) (domain.Node, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n, ok := h.nodes[id]
	return n, ok
}

// SetVisible shows or hides a node. Unknown nodes, documents and pages are ignored.
func (h *Host) SetVisible(ctx context.Context, nodeID string, visible bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, ok := h.nodes[nodeID]
	if !ok || n.Type == NodeTypeDocument || n.Type == NodeTypePage {
		return nil
	}
	h.visible[nodeID] = visible
	return nil
}

// Visible reports whether the node is shown.
func (h *Host) Visible(nodeID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.visible[nodeID]
}

// Send records a message posted to the host.
func (h *Host) Send(ctx context.Context, msg protocol.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
	return nil
}

// Messages returns the messages received so far.
func (h *Host) Messages() []protocol.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]protocol.Message, len(h.messages))
	copy(out, h.messages)
	return out
}
