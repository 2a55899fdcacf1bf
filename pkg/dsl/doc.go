/*
Package dsl provides a Go DSL for programmatically constructing state machines.

It allows developers to define machines with a type-safe, fluent builder
instead of hand-writing the persisted JSON. This is used for the built-in demo
machine, for unit tests and for seeding documents.

Example usage:

	b := dsl.New()
	b.State("empty").On("CHANGE", "validating").
		State("validating").On("VALID", "valid").On("INVALID", "invalid").
		State("valid").Do("CHANGE", "validating", "log").
		State("invalid").On("CHANGE", "validating")

	m, err := b.Build()

States keep the order in which they were first added, and the first state
becomes the initial one unless Builder.Initial says otherwise.
*/
package dsl
