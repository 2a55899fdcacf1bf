// Package expr evaluates the small expression language used by node bindings
// and transition guards.
//
// The grammar is deliberately narrow: identifiers bound by the caller's scope,
// string, number, boolean, null and undefined literals, the unary operators
// ! and -, comparison (< <= > >=), equality (=== !== == !=) and the logical
// operators && and || with parentheses for grouping. Operators follow
// JavaScript semantics so that binding expressions such as
//
//	state === 'valid' || state === "invalid"
//
// behave the way designers expect. No function calls, member access or
// assignment are available.
package expr

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/protostate/internal/logging"
	"github.com/patrickmn/go-cache"
)

// Program is a compiled expression.
type Program struct {
	source string
	root   node
}

// Compile parses an expression.
func Compile(source string) (*Program, error) {
	root, err := parse(source)
	if err != nil {
		return nil, err
	}
	return &Program{source: source, root: root}, nil
}

// Source returns the text the program was compiled from.
func (p *Program) Source() string { return p.source }

// Run evaluates the program against scope. The result is a string, float64,
// bool, nil, Undefined, or a scope value returned as is.
// Reading a name absent from scope fails with ErrUnknownIdentifier.
func (p *Program) Run(scope map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluation panic: %v", r)
		}
	}()
	return p.root.eval(scope)
}

// Evaluator compiles and runs expressions, memoizing compiled programs.
// Failures never reach the caller; they are logged and reported as undefined.
type Evaluator struct {
	logger   *slog.Logger
	programs *cache.Cache
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger that receives evaluation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithCacheExpiration bounds how long an unused compiled program is kept.
func WithCacheExpiration(ttl time.Duration) Option {
	return func(e *Evaluator) {
		e.programs = cache.New(ttl, 2*ttl)
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.programs == nil {
		e.programs = cache.New(30*time.Minute, time.Hour)
	}
	return e
}

type compiled struct {
	program *Program
	err     error
}

// Compile returns the cached program for source, compiling it on first use.
// Syntax errors are cached too.
func (e *Evaluator) Compile(source string) (*Program, error) {
	if hit, ok := e.programs.Get(source); ok {
		c := hit.(compiled)
		return c.program, c.err
	}
	p, err := Compile(source)
	e.programs.SetDefault(source, compiled{program: p, err: err})
	return p, err
}

// Evaluate runs source against scope. ok is false when the result is
// undefined, including every compile or runtime failure.
func (e *Evaluator) Evaluate(source string, scope map[string]any) (value any, ok bool) {
	p, err := e.Compile(source)
	if err != nil {
		e.logger.Warn("expression does not compile", "expression", source, "err", err)
		return nil, false
	}
	v, err := p.Run(scope)
	if err != nil {
		e.logger.Warn("expression evaluation failed", "expression", source, "err", err)
		return nil, false
	}
	if v == Undefined {
		return nil, false
	}
	return v, true
}

// EvaluateBool runs source and reports its result only when it is a boolean.
func (e *Evaluator) EvaluateBool(source string, scope map[string]any) (value bool, ok bool) {
	v, defined := e.Evaluate(source, scope)
	if !defined {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}
