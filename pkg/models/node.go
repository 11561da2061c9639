package models

import "time"

// NodeType represents the category of a node in the workflow graph.
//
// Parallel and merge nodes carry no special traversal semantics beyond
// process nodes: concurrent branching emerges from the all-matching-edges
// traversal model, not from these tags. They exist for documentation and
// visualization.
type NodeType string

const (
	NodeTypeStart    NodeType = "start"
	NodeTypeProcess  NodeType = "process"
	NodeTypeDecision NodeType = "decision"
	NodeTypeEnd      NodeType = "end"
	NodeTypeParallel NodeType = "parallel"
	NodeTypeMerge    NodeType = "merge"
)

// NodeMetadata carries descriptive information about a node.
type NodeMetadata struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tags        []string  `json:"tags,omitempty"`
	Description string    `json:"description,omitempty"`
	Owner       string    `json:"owner,omitempty"`
}

// Node represents a single node in a workflow graph. A node is exclusively
// owned by its workflow; the same instance must not be shared between
// workflows.
type Node struct {
	ID       string         `json:"node_id" validate:"required"`
	Name     string         `json:"name"    validate:"required"`
	Type     NodeType       `json:"type"    validate:"required,oneof=start process decision end parallel merge"`
	Action   Action         `json:"-"`
	Config   map[string]any `json:"config,omitempty"`
	Metadata NodeMetadata   `json:"metadata"`
}

// NewNode creates a node with metadata timestamps set.
func NewNode(id, name string, nodeType NodeType) *Node {
	now := time.Now().UTC()

	return &Node{
		ID:     id,
		Name:   name,
		Type:   nodeType,
		Config: make(map[string]any),
		Metadata: NodeMetadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithAction attaches an action to the node and returns it for chaining.
func (n *Node) WithAction(action Action) *Node {
	n.Action = action
	return n
}

// Run executes the node's action against the context. Nodes without an
// action leave the context unchanged.
func (n *Node) Run(ctx Context) (Context, error) {
	if n.Action == nil {
		return ctx, nil
	}

	return n.Action(ctx)
}
