package observability

import (
	"context"

	"github.com/aretw0/protostate/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the editor's Prometheus collectors.
type Metrics struct {
	transitions *prometheus.CounterVec
	mutations   *prometheus.CounterVec
	bindings    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protostate_transitions_total",
				Help: "Total number of events fired that changed or kept the current state",
			},
			[]string{"event"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protostate_mutations_total",
				Help: "Total number of machine definition changes",
			},
			[]string{"operation"},
		),
		bindings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protostate_binding_evaluations_total",
				Help: "Binding evaluations by outcome",
			},
			[]string{"outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.transitions, m.mutations, m.bindings)
	}
	return m
}

// Hooks returns lifecycle hooks that record transitions and mutations.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(e.Event).Inc()
		},
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			m.mutations.WithLabelValues(e.Operation).Inc()
		},
	}
}

// BindingOutcome records the result of evaluating one binding.
func (m *Metrics) BindingOutcome(outcome string) {
	m.bindings.WithLabelValues(outcome).Inc()
}

// Transitions exposes the transition counter for inspection.
func (m *Metrics) Transitions() *prometheus.CounterVec { return m.transitions }

// Mutations exposes the mutation counter for inspection.
func (m *Metrics) Mutations() *prometheus.CounterVec { return m.mutations }

// Bindings exposes the binding counter for inspection.
func (m *Metrics) Bindings() *prometheus.CounterVec { return m.bindings }
