// Package schema provides a small structural validation system for decoded data.
//
// Values are the generic shapes produced by encoding/json or yaml.v3 decoding
// into any: strings, bools, numbers, []any and map[string]any. Schemas map
// field names to types, and composite types (Object, Record, Slice, Tuple,
// Union) nest so a whole document can be checked before it is decoded into
// typed domain values.
//
// Basic usage:
//
//	eventValue := schema.Union(
//	    schema.String(),
//	    schema.Object(schema.Schema{
//	        "target":  schema.String(),
//	        "actions": schema.Optional(schema.Union(schema.String(), schema.Slice(schema.String()))),
//	    }),
//	)
//
//	if err := schema.Check(eventValue, decoded); err != nil {
//	    // err lists every failure with a dotted path, e.g. field "on.GO.target"
//	}
//
// Custom validators can be registered for domain-specific validation:
//
//	nonEmpty := schema.Custom("non_empty", func(v any) error {
//	    if s, _ := v.(string); s == "" {
//	        return fmt.Errorf("must not be empty")
//	    }
//	    return nil
//	})
//
// This package has no dependencies beyond the Go standard library.
package schema
