package observability_test

import (
	"context"
	"testing"

	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics(nil)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTransition(ctx, &domain.TransitionEvent{Event: "CHANGE", From: "empty", To: "validating"})
	hooks.OnTransition(ctx, &domain.TransitionEvent{Event: "CHANGE", From: "valid", To: "validating"})
	hooks.OnMutation(ctx, &domain.MutationEvent{Operation: "rename", State: "valid"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions().WithLabelValues("CHANGE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations().WithLabelValues("rename")))
}

func TestMetrics_BindingOutcome(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.BindingOutcome("applied")
	m.BindingOutcome("applied")
	m.BindingOutcome("undefined")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Bindings().WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Bindings().WithLabelValues("undefined")))
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.BindingOutcome("applied")

	count, err := testutil.GatherAndCount(reg, "protostate_binding_evaluations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
