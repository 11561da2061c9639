package models

// Edge represents a directed, conditionally-traversable connection between
// two nodes. Referential integrity to its endpoints is enforced once, when
// the edge is inserted into a workflow, and never re-checked at traversal.
type Edge struct {
	ID        string         `json:"edge_id"   validate:"required"`
	FromNode  string         `json:"from_node" validate:"required"`
	ToNode    string         `json:"to_node"   validate:"required"`
	Condition *EdgeCondition `json:"condition"`
	// Priority orders the presentation of outgoing edges (higher first).
	// It never prunes candidates: every edge whose condition holds is
	// traversed regardless of priority.
	Priority int            `json:"priority"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewEdge creates an edge with an always-true condition.
func NewEdge(id, fromNode, toNode string) *Edge {
	return &Edge{
		ID:        id,
		FromNode:  fromNode,
		ToNode:    toNode,
		Condition: Always(),
	}
}

// CanTraverse reports whether the edge may be traversed for the context.
// A nil condition counts as always traversable.
func (e *Edge) CanTraverse(ctx Context) (bool, error) {
	if e.Condition == nil {
		return true, nil
	}

	return e.Condition.Evaluate(ctx)
}
