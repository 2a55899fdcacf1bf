// Package editor holds the application state of one state-machine document.
//
// An Editor owns the current machine snapshot, the binding list, the current
// state and UI flags. Every change goes through its methods, is written back
// to the document store and re-applies the bindings. Failures of the store or
// the host are logged and swallowed; only validation problems are returned.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/protostate/internal/logging"
	"github.com/aretw0/protostate/pkg/analysis"
	"github.com/aretw0/protostate/pkg/binding"
	"github.com/aretw0/protostate/pkg/codec"
	"github.com/aretw0/protostate/pkg/domain"
	"github.com/aretw0/protostate/pkg/expr"
	"github.com/aretw0/protostate/pkg/mutator"
	"github.com/aretw0/protostate/pkg/ports"
	"github.com/aretw0/protostate/pkg/protocol"
)

// MsgStateNameRequired is shown when a state is saved without a name.
const MsgStateNameRequired = "State name is required."

// Editor is the application state of one document. It is safe for concurrent use;
// mutations are serialized and each one composes on the latest snapshot.
type Editor struct {
	document       string
	store          ports.DocumentStore
	host           ports.NodeMutator
	messenger      ports.Messenger
	actions        ports.ActionDispatcher
	evaluator      *expr.Evaluator
	recorder       binding.Recorder
	bindings       *binding.Engine
	hooks          domain.LifecycleHooks
	logger         *slog.Logger
	defaultMachine *domain.StateMachine
	analyzer       analysis.Analyzer

	mu        sync.Mutex
	machine   *domain.StateMachine
	nodes     []domain.NodeBinding
	current   string
	expanded  bool
	selected  *domain.Node
	revisions map[string]uint64
}

// New creates an editor holding the default values of a fresh document.
// Call Load or Start to read persisted values.
func New(opts ...Option) *Editor {
	e := &Editor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.document != "" {
		e.logger = e.logger.With("document", e.document)
	}
	if e.evaluator == nil {
		e.evaluator = expr.NewEvaluator(expr.WithLogger(e.logger))
	}
	if e.defaultMachine == nil {
		e.defaultMachine = DemoMachine()
	}
	bindingOpts := []binding.Option{binding.WithEvaluator(e.evaluator), binding.WithLogger(e.logger)}
	if e.recorder != nil {
		bindingOpts = append(bindingOpts, binding.WithRecorder(e.recorder))
	}
	e.bindings = binding.NewEngine(e.host, bindingOpts...)

	e.machine = e.defaultMachine
	e.nodes = []domain.NodeBinding{}
	e.current = e.machine.Initial()
	e.expanded = true
	e.revisions = make(map[string]uint64)
	return e
}

// Document returns the document id.
func (e *Editor) Document() string { return e.document }

// Start loads persisted values, asks the host for its selection and applies bindings.
func (e *Editor) Start(ctx context.Context) error {
	if err := e.Load(ctx); err != nil {
		return err
	}
	if e.messenger != nil {
		if err := e.messenger.Send(ctx, protocol.UIReady()); err != nil {
			e.logger.Warn("failed to send message", "type", protocol.TypeUIReady, "err", err)
		}
	}
	return nil
}

// Load reads every persisted key and applies the values that pass validation.
//
// Storage is read without holding the editor lock. A value is only applied
// when its key was not changed in memory since the load began, so a slow
// read never overwrites a newer edit. Missing or invalid values keep the
// current in-memory value. Only context cancellation is reported.
func (e *Editor) Load(ctx context.Context) error {
	if e.store == nil {
		e.mu.Lock()
		e.applyBindingsLocked(ctx)
		e.mu.Unlock()
		return nil
	}

	e.mu.Lock()
	start := make(map[string]uint64, len(e.revisions))
	for k, v := range e.revisions {
		start[k] = v
	}
	e.mu.Unlock()

	machineBlob, hasMachine := e.read(ctx, ports.KeyStateMachine)
	bindingsBlob, hasBindings := e.read(ctx, ports.KeyNodeBindings)
	currentBlob, hasCurrent := e.read(ctx, ports.KeyCurrentState)
	expandedBlob, hasExpanded := e.read(ctx, ports.KeyUISectionExpanded)
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	fresh := func(key string) bool { return e.revisions[key] == start[key] }

	if hasMachine && fresh(ports.KeyStateMachine) {
		if m, err := codec.DecodeMachine(machineBlob); err != nil {
			e.logger.Warn("ignoring stored value", "key", ports.KeyStateMachine, "err", err)
		} else {
			e.machine = m
		}
	}
	if hasBindings && fresh(ports.KeyNodeBindings) {
		if nodes, err := codec.DecodeBindings(bindingsBlob); err != nil {
			e.logger.Warn("ignoring stored value", "key", ports.KeyNodeBindings, "err", err)
		} else {
			e.nodes = nodes
		}
	}
	if fresh(ports.KeyCurrentState) {
		current := e.machine.Initial()
		if hasCurrent {
			if s, err := codec.DecodeString(currentBlob); err != nil {
				e.logger.Warn("ignoring stored value", "key", ports.KeyCurrentState, "err", err)
			} else {
				current = s
			}
		}
		e.current = current
	}
	if hasExpanded && fresh(ports.KeyUISectionExpanded) {
		if b, err := codec.DecodeBool(expandedBlob); err != nil {
			e.logger.Warn("ignoring stored value", "key", ports.KeyUISectionExpanded, "err", err)
		} else {
			e.expanded = b
		}
	}

	e.applyBindingsLocked(ctx)
	return nil
}

// Snapshot is a consistent copy of the editor's values.
type Snapshot struct {
	Machine         *domain.StateMachine
	Bindings        []domain.NodeBinding
	Current         string
	SectionExpanded bool
	Selected        *domain.Node
}

// Snapshot returns the current values. The machine is immutable and may be shared.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Editor) snapshotLocked() Snapshot {
	nodes := make([]domain.NodeBinding, len(e.nodes))
	copy(nodes, e.nodes)
	var selected *domain.Node
	if e.selected != nil {
		n := *e.selected
		selected = &n
	}
	return Snapshot{
		Machine:         e.machine,
		Bindings:        nodes,
		Current:         e.current,
		SectionExpanded: e.expanded,
		Selected:        selected,
	}
}

// Report returns the structural diagnostics of the current machine.
func (e *Editor) Report() analysis.Report {
	e.mu.Lock()
	m := e.machine
	e.mu.Unlock()
	return e.analyzer.Analyze(m)
}

// SaveState submits the state editor form.
//
// original is the name the form was opened with, or "" when adding a state.
// When original names a defined state, the state is renamed to name and its
// references follow. Otherwise the state is created, which also covers
// defining a state that was only referenced. The text block is decoded and
// validated before anything changes.
func (e *Editor) SaveState(ctx context.Context, original, name, text string) error {
	if name == "" {
		return &domain.ValidationError{Reason: MsgStateNameRequired}
	}
	value, err := codec.DecodeStateValue(text)
	if err != nil {
		return &domain.ValidationError{Reason: err.Error(), Err: err}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := codec.CheckStateName(e.machine, original, name); err != nil {
		return err
	}

	wasEmpty := e.machine.Len() == 0
	operation := "upsert"
	var next *domain.StateMachine
	if original != "" && e.machine.Has(original) {
		operation = "rename"
		next, err = mutator.RenameState(e.machine, original, name, value)
		if err != nil {
			return err
		}
	} else {
		next = mutator.UpsertState(e.machine, name, value)
	}
	e.setMachineLocked(ctx, next)

	switch {
	case wasEmpty:
		e.setCurrentLocked(ctx, name)
	case operation == "rename" && e.current == original && name != original:
		e.setCurrentLocked(ctx, name)
	}

	e.applyBindingsLocked(ctx)
	e.emitMutation(ctx, operation, name)
	return nil
}

// RemoveState deletes a state. References to it are left unresolved.
// When it was the current state, the first remaining state becomes current.
func (e *Editor) RemoveState(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.machine.Has(name) {
		return fmt.Errorf("remove %q: %w", name, domain.ErrStateNotFound)
	}

	prev := e.machine
	e.setMachineLocked(ctx, mutator.RemoveState(prev, name))

	if e.current == name {
		next := ""
		for _, n := range prev.Names() {
			if n != name {
				next = n
				break
			}
		}
		e.setCurrentLocked(ctx, next)
		e.applyBindingsLocked(ctx)
	}

	e.emitMutation(ctx, "remove", name)
	return nil
}

// SetInitial makes name the initial state. The name does not have to be defined yet.
func (e *Editor) SetInitial(ctx context.Context, name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setMachineLocked(ctx, mutator.SetInitial(e.machine, name))
	e.emitMutation(ctx, "set_initial", name)
}

// Send fires event from the current state.
//
// It fails with domain.ErrEventNotFound when the current state does not handle
// the event, domain.ErrUnresolvedTarget when the target is not defined and
// domain.ErrGuardRejected when a guard does not evaluate to true. Actions are
// dispatched in order after the state changed; a failing or unknown action is
// logged and skipped. An empty target runs the actions without moving.
func (e *Editor) Send(ctx context.Context, event string) (domain.Transition, error) {
	e.mu.Lock()

	from := e.current
	stateValue, ok := e.machine.Lookup(from)
	if !ok {
		e.mu.Unlock()
		return domain.Transition{}, fmt.Errorf("current state %q: %w", from, domain.ErrStateNotFound)
	}
	value, ok := stateValue.Lookup(event)
	if !ok {
		e.mu.Unlock()
		return domain.Transition{}, fmt.Errorf("%q in state %q: %w", event, from, domain.ErrEventNotFound)
	}

	tr := domain.ParseEventValue(value)
	if tr.Target != "" && !e.machine.Has(tr.Target) {
		e.mu.Unlock()
		return tr, fmt.Errorf("%q: %w", tr.Target, domain.ErrUnresolvedTarget)
	}
	if tr.Guard != "" {
		allowed, isBool := e.evaluator.EvaluateBool(tr.Guard, binding.Scope(from))
		if !isBool || !allowed {
			e.mu.Unlock()
			return tr, fmt.Errorf("%q: %w", tr.Guard, domain.ErrGuardRejected)
		}
	}

	to := from
	if tr.Target != "" {
		to = tr.Target
		e.setCurrentLocked(ctx, to)
		e.applyBindingsLocked(ctx)
	}
	e.mu.Unlock()

	for _, action := range tr.Actions {
		e.dispatch(ctx, domain.ActionRequest{
			Document: e.document,
			Action:   action,
			Event:    event,
			From:     from,
			To:       to,
		})
	}

	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(ctx, &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransition, Document: e.document},
			From:      from,
			To:        to,
			Event:     event,
			Actions:   tr.Actions,
		})
	}
	return tr, nil
}

// Reset moves back to the initial state.
func (e *Editor) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setCurrentLocked(ctx, e.machine.Initial())
	e.applyBindingsLocked(ctx)
}

// AddBinding binds node with a default visibility expression.
func (e *Editor) AddBinding(ctx context.Context, node domain.Node) error {
	return e.updateBindings(ctx, func(list []domain.NodeBinding) ([]domain.NodeBinding, error) {
		return binding.AddNode(list, node)
	})
}

// SetExpression edits the expression of one binding.
func (e *Editor) SetExpression(ctx context.Context, nodeID string, property domain.Property, expression string) error {
	return e.updateBindings(ctx, func(list []domain.NodeBinding) ([]domain.NodeBinding, error) {
		return binding.SetExpression(list, nodeID, property, expression)
	})
}

// RemoveBinding removes one binding, and the node once it has none left.
func (e *Editor) RemoveBinding(ctx context.Context, nodeID string, property domain.Property) error {
	return e.updateBindings(ctx, func(list []domain.NodeBinding) ([]domain.NodeBinding, error) {
		return binding.RemoveBinding(list, nodeID, property)
	})
}

// Preview evaluates expression against the current state for the binding editor.
// ok is false when the expression is invalid or yields undefined.
func (e *Editor) Preview(expression string) (value any, ok bool) {
	e.mu.Lock()
	current := e.current
	e.mu.Unlock()
	return e.bindings.Evaluate(expression, current)
}

// SelectNode asks the host to focus a node.
func (e *Editor) SelectNode(ctx context.Context, nodeID string) {
	if e.messenger == nil {
		return
	}
	if err := e.messenger.Send(ctx, protocol.SelectNode(nodeID)); err != nil {
		e.logger.Warn("failed to send message", "type", protocol.TypeSelectNode, "err", err)
	}
}

// HandleMessage processes a message from the host application.
// Unknown message types are ignored.
func (e *Editor) HandleMessage(ctx context.Context, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeSelectedNode:
		e.mu.Lock()
		defer e.mu.Unlock()

		e.selected = msg.Node
		if msg.Node == nil {
			return
		}
		if nodes, changed := binding.RefreshNode(e.nodes, *msg.Node); changed {
			e.setNodesLocked(ctx, nodes)
		}
	default:
		e.logger.Debug("ignoring host message", "type", msg.Type)
	}
}

// SetSectionExpanded persists whether the bindings section is open.
func (e *Editor) SetSectionExpanded(ctx context.Context, expanded bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.expanded = expanded
	e.revisions[ports.KeyUISectionExpanded]++
	e.persistLocked(ctx, ports.KeyUISectionExpanded, func() (string, error) { return codec.EncodeBool(expanded) })
}

func (e *Editor) updateBindings(ctx context.Context, edit func([]domain.NodeBinding) ([]domain.NodeBinding, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	nodes, err := edit(e.nodes)
	if err != nil {
		return err
	}
	e.setNodesLocked(ctx, nodes)
	e.applyBindingsLocked(ctx)
	return nil
}

func (e *Editor) setMachineLocked(ctx context.Context, m *domain.StateMachine) {
	e.machine = m
	e.revisions[ports.KeyStateMachine]++
	e.persistLocked(ctx, ports.KeyStateMachine, func() (string, error) { return codec.EncodeMachine(m) })
}

func (e *Editor) setCurrentLocked(ctx context.Context, current string) {
	e.current = current
	e.revisions[ports.KeyCurrentState]++
	e.persistLocked(ctx, ports.KeyCurrentState, func() (string, error) { return codec.EncodeString(current) })
}

func (e *Editor) setNodesLocked(ctx context.Context, nodes []domain.NodeBinding) {
	e.nodes = nodes
	e.revisions[ports.KeyNodeBindings]++
	e.persistLocked(ctx, ports.KeyNodeBindings, func() (string, error) { return codec.EncodeBindings(nodes) })
}

func (e *Editor) applyBindingsLocked(ctx context.Context) {
	e.bindings.Apply(ctx, e.nodes, e.current)
}

func (e *Editor) persistLocked(ctx context.Context, key string, encode func() (string, error)) {
	if e.store == nil {
		return
	}
	blob, err := encode()
	if err != nil {
		e.logger.Error("failed to encode value", "key", key, "err", err)
		return
	}
	if err := e.store.Set(ctx, e.document, key, blob); err != nil {
		e.logger.Warn("failed to persist value", "key", key, "err", err)
	}
}

func (e *Editor) read(ctx context.Context, key string) (string, bool) {
	blob, err := e.store.Get(ctx, e.document, key)
	switch {
	case err == nil:
		return blob, true
	case errors.Is(err, ports.ErrNotFound):
		e.logger.Debug("no stored value", "key", key)
	default:
		e.logger.Warn("failed to read stored value", "key", key, "err", err)
	}
	return "", false
}

func (e *Editor) dispatch(ctx context.Context, req domain.ActionRequest) {
	if e.actions == nil {
		e.logger.Info("action", "action", req.Action, "event", req.Event, "from", req.From, "to", req.To)
		return
	}
	if err := e.actions.Dispatch(ctx, req); err != nil {
		e.logger.Warn("action failed", "action", req.Action, "err", err)
	}
}

func (e *Editor) emitMutation(ctx context.Context, operation, state string) {
	if e.hooks.OnMutation == nil {
		return
	}
	e.hooks.OnMutation(ctx, &domain.MutationEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventMutation, Document: e.document},
		Operation: operation,
		State:     state,
	})
}
