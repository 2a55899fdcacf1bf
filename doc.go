/*
Package protostate is the editing core for finite state machines that drive
interactive prototypes in a design tool.

A machine is an ordered set of named states. Each state maps event names to
event values that name a target state, optionally with actions and a guard.
Nodes of the design document are bound to expressions over the current state,
so firing an event changes what the prototype shows.

# Packages

  - pkg/domain: machine model and event-value parsing.
  - pkg/analysis: unreachable and unresolved state queries.
  - pkg/mutator: immutable edits (upsert, rename with reference rewriting, remove).
  - pkg/expr: the minimal expression language used by bindings and guards.
  - pkg/binding: evaluation of bindings against the host document.
  - pkg/codec: the state text block and the persisted JSON blobs.
  - pkg/editor: the application state of one document.
  - pkg/session: editors for many documents with local and distributed locks.
  - pkg/adapters: memory, file and Redis stores plus the HTTP transport.

# Usage

	ed := editor.New(editor.WithStore(memory.NewStore()), editor.WithDocument("doc-1"))
	if err := ed.Start(ctx); err != nil {
		log.Fatal(err)
	}
	if _, err := ed.Send(ctx, "CHANGE"); err != nil {
		log.Fatal(err)
	}

The protostate command serves documents over HTTP and checks machine files
from the terminal (see cmd/protostate).
*/
package protostate
