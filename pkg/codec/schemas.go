package codec

import "github.com/aretw0/protostate/pkg/schema"

// Canonical shapes of the persisted and hand-edited values.
var (
	// EventValueSchema accepts a bare target or {target, actions?, guard?}.
	EventValueSchema = schema.Union(
		schema.String(),
		schema.Object(schema.Schema{
			"target":  schema.String(),
			"actions": schema.Optional(schema.Union(schema.String(), schema.Slice(schema.String()))),
			"guard":   schema.Optional(schema.String()),
		}),
	)

	// StateValueSchema is {on: {event: EventValue}}.
	StateValueSchema = schema.Object(schema.Schema{
		"on": schema.Record(EventValueSchema),
	})

	// StateMachineSchema is {initial, states: [[name, StateValue], ...]}.
	StateMachineSchema = schema.Object(schema.Schema{
		"initial": schema.String(),
		"states":  schema.Slice(schema.Tuple(schema.String(), StateValueSchema)),
	})

	// NodeSchema is a host node reference.
	NodeSchema = schema.Object(schema.Schema{
		"id":   schema.String(),
		"name": schema.String(),
		"type": schema.String(),
	})

	// NodeBindingsSchema is the persisted binding list.
	NodeBindingsSchema = schema.Slice(schema.Object(schema.Schema{
		"node": NodeSchema,
		"bindings": schema.Slice(schema.Object(schema.Schema{
			"property":   schema.Custom("property", validateProperty),
			"expression": schema.String(),
		})),
	}))
)
