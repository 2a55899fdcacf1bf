package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Type defines the contract for field validation.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "{on}").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// --- Built-in Type Implementations ---

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %s", kindOf(value))
	}
	return nil
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %s", kindOf(value))
	}
	return nil
}

// SliceType validates slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected list, got %s", kindOf(value))
	}

	var errs []error
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		errs = append(errs, nest(strconv.Itoa(i), elem, t.elemType.Validate(elem))...)
	}
	return aggregate(errs)
}

// TupleType validates a fixed-length list with one type per position.
type TupleType struct {
	elemTypes []Type
}

func (t *TupleType) Name() string {
	names := make([]string, len(t.elemTypes))
	for i, e := range t.elemTypes {
		names[i] = e.Name()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func (t *TupleType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return fmt.Errorf("expected list, got %s", kindOf(value))
	}
	if rv.Len() != len(t.elemTypes) {
		return fmt.Errorf("expected %d elements, got %d", len(t.elemTypes), rv.Len())
	}

	var errs []error
	for i, elemType := range t.elemTypes {
		elem := rv.Index(i).Interface()
		errs = append(errs, nest(strconv.Itoa(i), elem, elemType.Validate(elem))...)
	}
	return aggregate(errs)
}

// RecordType validates a string-keyed mapping whose values share a type.
type RecordType struct {
	valueType Type
}

func (t *RecordType) Name() string {
	return fmt.Sprintf("{string: %s}", t.valueType.Name())
}

func (t *RecordType) Validate(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected mapping, got %s", kindOf(value))
	}

	var errs []error
	for _, key := range sortedKeys(m) {
		errs = append(errs, nest(key, m[key], t.valueType.Validate(m[key]))...)
	}
	return aggregate(errs)
}

// ObjectType validates a mapping against a Schema. Keys outside the schema are ignored.
type ObjectType struct {
	fields Schema
}

func (t *ObjectType) Name() string {
	keys := make([]string, 0, len(t.fields))
	for k := range t.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "{" + strings.Join(keys, ", ") + "}"
}

func (t *ObjectType) Validate(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("expected mapping, got %s", kindOf(value))
	}
	return Validate(t.fields, m)
}

// UnionType accepts a value matching any of its alternatives.
type UnionType struct {
	options []Type
}

func (t *UnionType) Name() string {
	names := make([]string, len(t.options))
	for i, o := range t.options {
		names[i] = o.Name()
	}
	return strings.Join(names, " | ")
}

func (t *UnionType) Validate(value any) error {
	var last error
	for _, o := range t.options {
		err := o.Validate(value)
		if err == nil {
			return nil
		}
		last = err
	}
	// A mapping that failed the object branch reports that branch's detail.
	if _, isMap := value.(map[string]any); isMap && last != nil {
		if _, agg := last.(*AggregateError); agg {
			return last
		}
	}
	return fmt.Errorf("expected %s, got %s", t.Name(), kindOf(value))
}

// OptionalType marks a schema field that may be absent.
type OptionalType struct {
	Type
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Tuple creates a fixed-length list validator.
func Tuple(elemTypes ...Type) Type {
	return &TupleType{elemTypes: elemTypes}
}

// Record creates a validator for string-keyed mappings of valueType.
func Record(valueType Type) Type {
	return &RecordType{valueType: valueType}
}

// Object creates a validator for mappings shaped like fields.
func Object(fields Schema) Type {
	return &ObjectType{fields: fields}
}

// Union creates a validator accepting any of the given types.
func Union(options ...Type) Type {
	return &UnionType{options: options}
}

// Optional allows a schema field to be omitted. A present value must still match t.
func Optional(t Type) Type {
	return &OptionalType{Type: t}
}

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case map[string]any:
		return "mapping"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
