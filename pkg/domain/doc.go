/*
Package domain contains the core data model of the protostate editor.

It defines the entities of a prototyping state machine (states, events and
their transition values) and the node bindings that drive live side effects in
the host design application. This package is kept pure and free of external
I/O, following Hexagonal Architecture principles: persistence, host messaging
and rendering live behind the interfaces in package ports.

# Key Entities

  - EventValue: the value of a named event, either a bare target (shorthand)
    or a full value with ordered actions and an optional guard.
  - StateValue: the insertion-ordered map of event name to EventValue.
  - StateMachine: an immutable snapshot of the initial state and the ordered
    list of named states. New snapshots are produced by package mutator.
  - NodeBinding: a host node plus the expressions bound to its properties.
*/
package domain
