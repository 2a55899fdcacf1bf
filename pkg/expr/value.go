package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the result of an expression that has no value.
var Undefined any = undefined{}

// ErrUnknownIdentifier is returned when an expression reads a name that is not in scope.
var ErrUnknownIdentifier = errors.New("unknown identifier")

func (n *literal) eval(map[string]any) (any, error) { return n.value, nil }

func (n *ident) eval(scope map[string]any) (any, error) {
	v, ok := scope[n.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIdentifier, n.name)
	}
	return normalize(v), nil
}

func (n *unary) eval(scope map[string]any) (any, error) {
	v, err := n.operand.eval(scope)
	if err != nil {
		return nil, err
	}
	if n.op == "!" {
		return !truthy(v), nil
	}
	return -toNumber(v), nil
}

func (n *logical) eval(scope map[string]any) (any, error) {
	left, err := n.left.eval(scope)
	if err != nil {
		return nil, err
	}
	if truthy(left) == (n.op == "||") {
		return left, nil
	}
	return n.right.eval(scope)
}

func (n *binary) eval(scope map[string]any) (any, error) {
	left, err := n.left.eval(scope)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(scope)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "===":
		return strictEqual(left, right), nil
	case "!==":
		return !strictEqual(left, right), nil
	case "==":
		return looseEqual(left, right), nil
	case "!=":
		return !looseEqual(left, right), nil
	default:
		return compare(n.op, left, right), nil
	}
}

// normalize maps Go numeric types onto float64 so scope values compare like literals.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil, undefined:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}

func toNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func strictEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case undefined:
		_, ok := b.(undefined)
		return ok
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case float64:
		y, ok := b.(float64)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	default:
		return false
	}
}

func looseEqual(a, b any) bool {
	if isNullish(a) || isNullish(b) {
		return isNullish(a) && isNullish(b)
	}
	if isPrimitive(a) && isPrimitive(b) {
		if _, ok := a.(string); ok {
			if _, ok := b.(string); ok {
				return a == b
			}
		}
		return toNumber(a) == toNumber(b)
	}
	return strictEqual(a, b)
}

func compare(op string, a, b any) bool {
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			switch op {
			case "<":
				return x < y
			case "<=":
				return x <= y
			case ">":
				return x > y
			default:
				return x >= y
			}
		}
	}
	x, y := toNumber(a), toNumber(b)
	switch op {
	case "<":
		return x < y
	case "<=":
		return x <= y
	case ">":
		return x > y
	default:
		return x >= y
	}
}

func isNullish(v any) bool {
	switch v.(type) {
	case nil, undefined:
		return true
	}
	return false
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case bool, float64, string:
		return true
	}
	return false
}
