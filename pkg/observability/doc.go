/*
Package observability provides tools for monitoring the protostate editor.

Metrics exposes Prometheus counters for transitions, machine mutations and
binding side effects. Its Hooks method returns lifecycle hooks that can be
passed to an editor, and it satisfies the binding engine's recorder interface.
*/
package observability
