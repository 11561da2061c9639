// Package models defines the core domain models for the workflow graph engine.
package models

// Context is the mutable key-value state threaded through one workflow run.
// It is deliberately a dynamic bag rather than a fixed struct: node graphs
// are assembled at runtime and actions add and remove fields freely. Type
// safety is enforced at the edges, when conditions compare values.
type Context map[string]any

// Clone returns a shallow copy of the context. Nested values are shared.
func (c Context) Clone() Context {
	clone := make(Context, len(c))
	for k, v := range c {
		clone[k] = v
	}

	return clone
}

// Action transforms the execution context when a node is visited. The
// returned context replaces the current one; returning an error aborts the
// run and propagates unchanged out of Execute.
type Action func(ctx Context) (Context, error)

// Predicate reports whether an edge may be traversed for a given context.
// Used by custom edge conditions as the escape hatch for arbitrary logic.
type Predicate func(ctx Context) bool
