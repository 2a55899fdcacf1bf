package binding

import (
	"fmt"

	"github.com/aretw0/protostate/pkg/domain"
)

// Find returns the entry for nodeID.
func Find(list []domain.NodeBinding, nodeID string) (domain.NodeBinding, bool) {
	for _, nb := range list {
		if nb.Node.ID == nodeID {
			return nb, true
		}
	}
	return domain.NodeBinding{}, false
}

// AddNode appends node with a visibility binding seeded with DefaultExpression.
// It fails with domain.ErrAlreadyBound when the node already has an entry.
func AddNode(list []domain.NodeBinding, node domain.Node) ([]domain.NodeBinding, error) {
	if _, ok := Find(list, node.ID); ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyBound, node.ID)
	}
	out := clone(list)
	return append(out, domain.NodeBinding{
		Node: node,
		Bindings: []domain.Binding{
			{Property: domain.PropertyVisibility, Expression: DefaultExpression},
		},
	}), nil
}

// SetExpression replaces the expression of one binding.
func SetExpression(list []domain.NodeBinding, nodeID string, property domain.Property, expression string) ([]domain.NodeBinding, error) {
	out := clone(list)
	for i := range out {
		if out[i].Node.ID != nodeID {
			continue
		}
		for j := range out[i].Bindings {
			if out[i].Bindings[j].Property == property {
				out[i].Bindings[j].Expression = expression
				return out, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", domain.ErrBindingNotFound, nodeID, property)
}

// RemoveBinding drops one binding; a node left with none is removed from the list.
func RemoveBinding(list []domain.NodeBinding, nodeID string, property domain.Property) ([]domain.NodeBinding, error) {
	out := make([]domain.NodeBinding, 0, len(list))
	found := false
	for _, nb := range list {
		if nb.Node.ID != nodeID {
			out = append(out, cloneEntry(nb))
			continue
		}
		kept := make([]domain.Binding, 0, len(nb.Bindings))
		for _, b := range nb.Bindings {
			if b.Property == property {
				found = true
				continue
			}
			kept = append(kept, b)
		}
		if len(kept) > 0 {
			out = append(out, domain.NodeBinding{Node: nb.Node, Bindings: kept})
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrBindingNotFound, nodeID, property)
	}
	return out, nil
}

// RefreshNode updates the cached name and type of a bound node.
// changed is false when the node is not bound or nothing differs.
func RefreshNode(list []domain.NodeBinding, node domain.Node) (out []domain.NodeBinding, changed bool) {
	out = clone(list)
	for i := range out {
		if out[i].Node.ID == node.ID && out[i].Node != node {
			out[i].Node = node
			changed = true
		}
	}
	return out, changed
}

func clone(list []domain.NodeBinding) []domain.NodeBinding {
	out := make([]domain.NodeBinding, len(list))
	for i, nb := range list {
		out[i] = cloneEntry(nb)
	}
	return out
}

func cloneEntry(nb domain.NodeBinding) domain.NodeBinding {
	return domain.NodeBinding{
		Node:     nb.Node,
		Bindings: append([]domain.Binding(nil), nb.Bindings...),
	}
}
