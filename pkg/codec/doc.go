// Package codec converts editor values to and from their text forms.
//
// A state's event map is exchanged with the editing surface as an indented
// YAML block; machines, binding lists and flags are persisted as JSON blobs.
// Every decoder checks the generic parsed value against the canonical schema
// before building typed values, so malformed input never reaches the mutator.
package codec
