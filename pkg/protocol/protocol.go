// Package protocol defines the JSON messages exchanged with the host design application.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/protostate/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Message types.
const (
	// TypeUIReady is sent once at startup to request the current selection.
	TypeUIReady = "UI_READY"
	// TypeSelectNode asks the host to focus a node.
	TypeSelectNode = "SELECT_NODE"
	// TypeSelectedNode reports the host's current single selection.
	TypeSelectedNode = "SELECTED_NODE"
	// TypeSetVisible asks the host to show or hide a node.
	TypeSetVisible = "SET_VISIBLE"
)

// Message is a single host message. Fields not used by a type are empty.
type Message struct {
	Type    string       `json:"type" mapstructure:"type"`
	NodeID  string       `json:"nodeId,omitempty" mapstructure:"nodeId"`
	Node    *domain.Node `json:"node,omitempty" mapstructure:"node"`
	Visible *bool        `json:"visible,omitempty" mapstructure:"visible"`
}

// Envelope wraps a message the way the host transports it.
type Envelope struct {
	PluginMessage Message `json:"pluginMessage"`
	PluginID      string  `json:"pluginId,omitempty"`
}

// UIReady builds the startup message.
func UIReady() Message {
	return Message{Type: TypeUIReady}
}

// SelectNode builds a focus request for nodeID.
func SelectNode(nodeID string) Message {
	return Message{Type: TypeSelectNode, NodeID: nodeID}
}

// SelectedNode builds a selection report. A nil node means "nothing or several selected".
func SelectedNode(node *domain.Node) Message {
	return Message{Type: TypeSelectedNode, Node: node}
}

// SetVisible builds a visibility change for nodeID.
func SetVisible(nodeID string, visible bool) Message {
	return Message{Type: TypeSetVisible, NodeID: nodeID, Visible: &visible}
}

// Wrap puts msg in the host envelope addressed to any plugin.
func Wrap(msg Message) Envelope {
	return Envelope{PluginMessage: msg, PluginID: "*"}
}

// Decode reads a message from a generic JSON object, unwrapping the
// pluginMessage envelope when present.
func Decode(raw map[string]any) (Message, error) {
	if inner, ok := raw["pluginMessage"]; ok {
		m, isMap := inner.(map[string]any)
		if !isMap {
			return Message{}, fmt.Errorf("pluginMessage: expected object, got %T", inner)
		}
		raw = m
	}

	var msg Message
	if err := mapstructure.Decode(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("decode message: missing type")
	}
	return msg, nil
}

// DecodeJSON is Decode for raw JSON bytes.
func DecodeJSON(data []byte) (Message, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return Decode(raw)
}
