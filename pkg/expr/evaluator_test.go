package expr_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/aretw0/protostate/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	scope := map[string]any{
		"state": "valid",
		"count": 3,
		"ready": true,
		"none":  nil,
	}

	tests := []struct {
		expression string
		want       any
	}{
		{`state === 'valid'`, true},
		{`state === "invalid"`, false},
		{`state !== 'valid'`, false},
		{`state == 'valid'`, true},
		{`state != 'x'`, true},
		{`count === 3`, true},
		{`count == '3'`, true},
		{`count === '3'`, false},
		{`count > 2 && count <= 3`, true},
		{`count < 1 || ready`, true},
		{`!ready`, false},
		{`!!state`, true},
		{`-count < 0`, true},
		{`'a' < 'b'`, true},
		{`'10' < '9'`, true},
		{`10 < '9'`, false},
		{`none == undefined`, true},
		{`none === undefined`, false},
		{`none === null`, true},
		{`(state === 'valid') === ready`, true},
		{`state === 'valid' || state === 'invalid'`, true},
		{`true == 1`, true},
		{`1.5e1 === 15`, true},
		{`"a\"b" === 'a"b'`, true},
		{`count || 'fallback'`, float64(3)},
		{`none || 'fallback'`, "fallback"},
		{`ready && state`, "valid"},
		{`state`, "valid"},
	}

	e := expr.NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, ok := e.Evaluate(tt.expression, scope)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Undefined(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	e := expr.NewEvaluator(expr.WithLogger(logger))

	tests := []string{
		`1 +`,
		`state ===`,
		`(state`,
		`'unterminated`,
		``,
		`missing === 1`,
		`undefined`,
		`state.length`,
		`state = 'x'`,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			got, ok := e.Evaluate(src, map[string]any{"state": "valid"})
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}

	assert.Contains(t, logs.String(), "expression does not compile")
	assert.Contains(t, logs.String(), "unknown identifier")
}

func TestEvaluate_ShortCircuitSkipsUnknownNames(t *testing.T) {
	e := expr.NewEvaluator()

	got, ok := e.Evaluate(`false && missing`, map[string]any{})
	require.True(t, ok)
	assert.Equal(t, false, got)

	got, ok = e.Evaluate(`true || missing`, map[string]any{})
	require.True(t, ok)
	assert.Equal(t, true, got)
}

func TestEvaluate_NaN(t *testing.T) {
	e := expr.NewEvaluator()

	got, ok := e.Evaluate(`-'abc'`, nil)
	require.True(t, ok)
	assert.True(t, math.IsNaN(got.(float64)))

	got, ok = e.Evaluate(`'abc' < 1 || 'abc' >= 1`, nil)
	require.True(t, ok)
	assert.Equal(t, false, got)
}

func TestEvaluateBool(t *testing.T) {
	e := expr.NewEvaluator()

	v, ok := e.EvaluateBool(`state === 'a'`, map[string]any{"state": "a"})
	assert.True(t, ok)
	assert.True(t, v)

	_, ok = e.EvaluateBool(`state`, map[string]any{"state": "a"})
	assert.False(t, ok, "non boolean results are not reported")

	_, ok = e.EvaluateBool(`state ===`, map[string]any{"state": "a"})
	assert.False(t, ok)
}

func TestEvaluator_CompileIsMemoized(t *testing.T) {
	e := expr.NewEvaluator()

	p1, err := e.Compile(`state === 'a'`)
	require.NoError(t, err)
	p2, err := e.Compile(`state === 'a'`)
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	_, err1 := e.Compile(`1 +`)
	_, err2 := e.Compile(`1 +`)
	require.Error(t, err1)
	assert.Equal(t, err1, err2)
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := expr.Compile(`state === 'a' extra`)
	var syn *expr.SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, 14, syn.Pos)
}

func TestProgram_Run(t *testing.T) {
	p, err := expr.Compile(`state === 'a'`)
	require.NoError(t, err)
	assert.Equal(t, `state === 'a'`, p.Source())

	v, err := p.Run(map[string]any{"state": "a"})
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = p.Run(map[string]any{})
	assert.ErrorIs(t, err, expr.ErrUnknownIdentifier)

	undef, err := expr.Compile(`undefined`)
	require.NoError(t, err)
	v, err = undef.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, expr.Undefined, v)
}
