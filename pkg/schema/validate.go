package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"target": String(), "actions": Optional(Slice(String()))}
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Returns an error with all validation failures found, ordered by field name.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	fields := make([]string, 0, len(schema))
	for name := range schema {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var errs []error
	for _, fieldName := range fields {
		fieldType := schema[fieldName]
		value, exists := data[fieldName]
		if !exists {
			if _, optional := fieldType.(*OptionalType); optional {
				continue
			}
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
			})
			continue
		}

		errs = append(errs, nest(fieldName, value, fieldType.Validate(value))...)
	}

	return aggregate(errs)
}

// Check validates a single value against t.
// Failures are always reported as an *AggregateError of *ValidationError.
func Check(t Type, value any) error {
	return aggregate(nest("", value, t.Validate(value)))
}
