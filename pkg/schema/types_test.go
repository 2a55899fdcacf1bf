package schema

import (
	"fmt"
	"testing"
)

func TestStringType(t *testing.T) {
	typ := String()

	if typ.Name() != "string" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "string")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"hello", false},
		{"", false},
		{42, true},
		{3.14, true},
		{true, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestBoolType(t *testing.T) {
	typ := Bool()

	tests := []struct {
		value   any
		wantErr bool
	}{
		{true, false},
		{false, false},
		{"true", true},
		{1, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestSliceType(t *testing.T) {
	typ := Slice(String())

	if typ.Name() != "[string]" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "[string]")
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{[]any{"a", "b"}, false},
		{[]string{"a"}, false},
		{[]any{}, false},
		{[]any{"a", 1}, true},
		{"a", true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestSliceType_ElementPath(t *testing.T) {
	err := Check(Slice(String()), []any{"a", 1})
	errs := ValidationErrors(err)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), err)
	}
	ve := errs[0].(*ValidationError)
	if ve.Key != "1" {
		t.Errorf("Key = %q, want %q", ve.Key, "1")
	}
}

func TestTupleType(t *testing.T) {
	typ := Tuple(String(), Bool())

	if typ.Name() != "(string, bool)" {
		t.Errorf("Name() = %q", typ.Name())
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{[]any{"a", true}, false},
		{[]any{"a"}, true},
		{[]any{"a", true, false}, true},
		{[]any{true, "a"}, true},
		{map[string]any{}, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestRecordType(t *testing.T) {
	typ := Record(Bool())

	if err := typ.Validate(map[string]any{"a": true, "b": false}); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := typ.Validate(map[string]any{}); err != nil {
		t.Errorf("Validate(empty) error = %v, want nil", err)
	}

	err := Check(typ, map[string]any{"a": true, "b": "no"})
	errs := ValidationErrors(err)
	if len(errs) != 1 || errs[0].(*ValidationError).Key != "b" {
		t.Errorf("expected a single error on key b, got %v", err)
	}

	if err := typ.Validate([]any{}); err == nil {
		t.Error("Validate(list) should fail")
	}
}

func TestObjectType_IgnoresUnknownKeys(t *testing.T) {
	typ := Object(Schema{"target": String()})

	if err := typ.Validate(map[string]any{"target": "x", "extra": 1}); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := typ.Validate(map[string]any{}); err == nil {
		t.Error("Validate() should fail on missing required field")
	}
}

func TestOptionalType(t *testing.T) {
	typ := Object(Schema{
		"target":  String(),
		"actions": Optional(Slice(String())),
	})

	if err := typ.Validate(map[string]any{"target": "x"}); err != nil {
		t.Errorf("missing optional field: error = %v, want nil", err)
	}
	if err := typ.Validate(map[string]any{"target": "x", "actions": "a"}); err == nil {
		t.Error("present optional field must still match its type")
	}
}

func TestUnionType(t *testing.T) {
	typ := Union(String(), Object(Schema{"target": String()}))

	if typ.Name() != "string | {target}" {
		t.Errorf("Name() = %q", typ.Name())
	}

	tests := []struct {
		value   any
		wantErr bool
	}{
		{"a", false},
		{map[string]any{"target": "x"}, false},
		{map[string]any{"target": 1}, true},
		{42, true},
		{nil, true},
	}

	for _, tt := range tests {
		err := typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestUnionType_ReportsObjectDetail(t *testing.T) {
	typ := Union(String(), Object(Schema{"target": String()}))

	err := Check(typ, map[string]any{"target": 1})
	errs := ValidationErrors(err)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), err)
	}
	if key := errs[0].(*ValidationError).Key; key != "target" {
		t.Errorf("Key = %q, want %q", key, "target")
	}
}

func TestCustomType(t *testing.T) {
	positive := Custom("positive", func(v any) error {
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("expected int")
		}
		if n <= 0 {
			return fmt.Errorf("must be positive")
		}
		return nil
	})

	if positive.Name() != "positive" {
		t.Errorf("Name() = %q, want %q", positive.Name(), "positive")
	}
	if err := positive.Validate(3); err != nil {
		t.Errorf("Validate(3) error = %v", err)
	}
	if err := positive.Validate(-1); err == nil {
		t.Error("Validate(-1) should fail")
	}
}
