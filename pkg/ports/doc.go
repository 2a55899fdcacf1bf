/*
Package ports defines the driven ports (interfaces) of the protostate editor.

These interfaces decouple the editor core from external implementations, allowing
it to run against various storage backends and host applications.

# Key Interfaces

  - DocumentStore: persists the opaque JSON blobs of a document (machine, bindings, current state, UI flags).
  - NodeMutator: applies binding side effects (node visibility) in the host document.
  - Messenger: posts protocol messages to the host application.
  - ActionDispatcher: runs the actions attached to a transition.
  - DistributedLocker: provides distributed locking for concurrent document access.
*/
package ports
