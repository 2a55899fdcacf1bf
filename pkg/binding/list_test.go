package binding_test

import (
	"testing"

	"github.com/aretw0/protostate/pkg/binding"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode(t *testing.T) {
	node := domain.Node{ID: "1:2", Name: "Spinner", Type: "FRAME"}

	list, err := binding.AddNode(nil, node)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, node, list[0].Node)
	assert.Equal(t, []domain.Binding{{Property: domain.PropertyVisibility, Expression: "state === "}}, list[0].Bindings)

	_, err = binding.AddNode(list, node)
	assert.ErrorIs(t, err, domain.ErrAlreadyBound)
}

func TestSetExpression(t *testing.T) {
	list := []domain.NodeBinding{bound("a", "true"), bound("b", "false")}

	out, err := binding.SetExpression(list, "b", domain.PropertyVisibility, "state === 'x'")
	require.NoError(t, err)
	assert.Equal(t, "state === 'x'", out[1].Bindings[0].Expression)
	assert.Equal(t, "false", list[1].Bindings[0].Expression, "input is untouched")

	_, err = binding.SetExpression(list, "c", domain.PropertyVisibility, "true")
	assert.ErrorIs(t, err, domain.ErrBindingNotFound)
}

func TestRemoveBinding_PrunesEmptyNodes(t *testing.T) {
	list := []domain.NodeBinding{bound("a", "true"), bound("b", "false")}

	out, err := binding.RemoveBinding(list, "a", domain.PropertyVisibility)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].Node.ID)
	assert.Len(t, list, 2)

	_, err = binding.RemoveBinding(out, "a", domain.PropertyVisibility)
	assert.ErrorIs(t, err, domain.ErrBindingNotFound)
}

func TestRefreshNode(t *testing.T) {
	list := []domain.NodeBinding{bound("a", "true")}

	out, changed := binding.RefreshNode(list, domain.Node{ID: "a", Name: "Renamed", Type: "FRAME"})
	assert.True(t, changed)
	assert.Equal(t, "Renamed", out[0].Node.Name)
	assert.Equal(t, "a", list[0].Node.Name)

	_, changed = binding.RefreshNode(out, domain.Node{ID: "a", Name: "Renamed", Type: "FRAME"})
	assert.False(t, changed)

	_, changed = binding.RefreshNode(out, domain.Node{ID: "z", Name: "Other"})
	assert.False(t, changed)
}

func TestFind(t *testing.T) {
	list := []domain.NodeBinding{bound("a", "true")}

	nb, ok := binding.Find(list, "a")
	assert.True(t, ok)
	assert.Equal(t, "a", nb.Node.ID)

	_, ok = binding.Find(list, "b")
	assert.False(t, ok)
}
