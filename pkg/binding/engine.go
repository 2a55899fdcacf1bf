// Package binding applies node bindings to the host document and edits the binding list.
package binding

import (
	"context"
	"log/slog"

	"github.com/aretw0/protostate/internal/logging"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/expr"
	"github.com/aretw0/protostate/pkg/ports"
)

// ScopeKey is the only name bound when a binding expression is evaluated.
// It holds the current state name.
const ScopeKey = "state"

// DefaultExpression seeds a new binding; it is completed by the user.
const DefaultExpression = ScopeKey + " === "

// Outcomes reported to a Recorder for every evaluated binding.
const (
	OutcomeApplied        = "applied"
	OutcomeUndefined      = "undefined"
	OutcomeTypeMismatch   = "type_mismatch"
	OutcomeDispatchFailed = "dispatch_failed"
	// OutcomeNoHost is a side effect that had no host to go to.
	OutcomeNoHost = "no_host"
)

// Recorder receives one outcome per evaluated binding.
type Recorder interface {
	BindingOutcome(outcome string)
}

// Engine evaluates bindings against the current state and dispatches side effects.
type Engine struct {
	evaluator *expr.Evaluator
	host      ports.NodeMutator
	logger    *slog.Logger
	recorder  Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithEvaluator shares an expression evaluator (and its compile cache).
func WithEvaluator(e *expr.Evaluator) Option {
	return func(en *Engine) {
		en.evaluator = e
	}
}

// WithLogger sets the logger for swallowed host failures.
func WithLogger(logger *slog.Logger) Option {
	return func(en *Engine) {
		en.logger = logger
	}
}

// WithRecorder reports binding outcomes, typically to Prometheus.
func WithRecorder(r Recorder) Option {
	return func(en *Engine) {
		en.recorder = r
	}
}

// NewEngine creates an Engine dispatching to host.
func NewEngine(host ports.NodeMutator, opts ...Option) *Engine {
	e := &Engine{host: host}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.evaluator == nil {
		e.evaluator = expr.NewEvaluator(expr.WithLogger(e.logger))
	}
	return e
}

// Scope returns the evaluation scope for the given current state.
func Scope(current string) map[string]any {
	return map[string]any{ScopeKey: current}
}

// Evaluate runs one expression against the current state. ok is false when
// the expression is invalid or yields undefined.
func (e *Engine) Evaluate(expression, current string) (any, bool) {
	return e.evaluator.Evaluate(expression, Scope(current))
}

// Apply evaluates every binding and dispatches the resulting side effects.
// Undefined results and type mismatches are skipped; host failures are
// logged and swallowed. Without a host nothing is dispatched. It returns the number of side effects dispatched.
func (e *Engine) Apply(ctx context.Context, bindings []domain.NodeBinding, current string) int {
	scope := Scope(current)
	applied := 0
	for _, nb := range bindings {
		for _, b := range nb.Bindings {
			value, ok := e.evaluator.Evaluate(b.Expression, scope)
			if !ok {
				e.record(OutcomeUndefined)
				continue
			}

			switch b.Property {
			case domain.PropertyVisibility:
				visible, isBool := value.(bool)
				if !isBool {
					e.record(OutcomeTypeMismatch)
					continue
				}
				if e.host == nil {
					e.logger.Debug("no host to set node visibility", "node", nb.Node.ID, "visible", visible)
					e.record(OutcomeNoHost)
					continue
				}
				if err := e.host.SetVisible(ctx, nb.Node.ID, visible); err != nil {
					e.logger.Warn("failed to set node visibility", "node", nb.Node.ID, "err", err)
					e.record(OutcomeDispatchFailed)
					continue
				}
				e.record(OutcomeApplied)
				applied++
			default:
				e.logger.Debug("unsupported binding property", "node", nb.Node.ID, "property", b.Property)
			}
		}
	}
	return applied
}

func (e *Engine) record(outcome string) {
	if e.recorder != nil {
		e.recorder.BindingOutcome(outcome)
	}
}
