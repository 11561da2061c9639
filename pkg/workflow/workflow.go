// Package workflow implements the workflow graph engine: a directed graph of
// typed nodes connected by conditionally-traversable edges, walked against a
// mutable execution context.
package workflow

import (
	"fmt"
	"sort"
	"time"

	"github.com/pinkflow/pinkflow/pkg/models"
)

// Workflow owns a set of nodes and the ordered edges connecting them. It is
// constructed empty, populated through AddNode/AddEdge or the Builder,
// validated, then executed zero or more times. A workflow must not be
// mutated during an execution run.
type Workflow struct {
	ID          string             `json:"workflow_id" validate:"required"`
	Name        string             `json:"name"        validate:"required"`
	Environment models.Environment `json:"environment" validate:"required"`
	Description string             `json:"description"`

	// Nodes is keyed by node ID; insertion order is irrelevant. Edges
	// preserve insertion order for deterministic iteration.
	Nodes map[string]*models.Node `json:"nodes"`
	Edges []*models.Edge          `json:"edges"`

	StartNode string         `json:"start_node"`
	EndNodes  []string       `json:"end_nodes"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// New creates an empty workflow for the given environment.
func New(id, name string, environment models.Environment, description string) *Workflow {
	return &Workflow{
		ID:          id,
		Name:        name,
		Environment: environment,
		Description: description,
		Nodes:       make(map[string]*models.Node),
		Edges:       make([]*models.Edge, 0),
		EndNodes:    make([]string, 0),
		Metadata:    make(map[string]any),
		CreatedAt:   time.Now().UTC(),
	}
}

// AddNode inserts a node into the workflow.
//
// The first start-typed node added becomes the workflow's start node; later
// start nodes are stored but do not change it. Every end-typed node is
// appended to EndNodes.
func (w *Workflow) AddNode(node *models.Node) error {
	if _, exists := w.Nodes[node.ID]; exists {
		return &NodeError{Op: "AddNode", WorkflowID: w.ID, NodeID: node.ID, Err: ErrDuplicateNode}
	}

	w.Nodes[node.ID] = node

	switch node.Type {
	case models.NodeTypeStart:
		if w.StartNode == "" {
			w.StartNode = node.ID
		}
	case models.NodeTypeEnd:
		w.EndNodes = append(w.EndNodes, node.ID)
	}

	return nil
}

// AddEdge inserts an edge. Both endpoints must already exist; this is the
// single point where referential integrity is enforced.
func (w *Workflow) AddEdge(edge *models.Edge) error {
	if _, exists := w.Nodes[edge.FromNode]; !exists {
		return &NodeError{Op: "AddEdge", WorkflowID: w.ID, NodeID: edge.FromNode, Err: ErrUnknownNode}
	}

	if _, exists := w.Nodes[edge.ToNode]; !exists {
		return &NodeError{Op: "AddEdge", WorkflowID: w.ID, NodeID: edge.ToNode, Err: ErrUnknownNode}
	}

	w.Edges = append(w.Edges, edge)

	return nil
}

// ConnectNodes creates an edge between two existing nodes and adds it. The
// edge ID is derived from the endpoints and the current edge count, which
// only grows, so generated IDs are unique within one workflow.
func (w *Workflow) ConnectNodes(fromNode, toNode string, condition *models.EdgeCondition, priority int) (*models.Edge, error) {
	if condition == nil {
		condition = models.Always()
	}

	edge := &models.Edge{
		ID:        fmt.Sprintf("%s_to_%s_%d", fromNode, toNode, len(w.Edges)),
		FromNode:  fromNode,
		ToNode:    toNode,
		Condition: condition,
		Priority:  priority,
	}

	if err := w.AddEdge(edge); err != nil {
		return nil, err
	}

	return edge, nil
}

// GetOutgoingEdges returns all edges leaving the node, ordered by priority
// descending with ties broken by insertion order. The ordering affects only
// iteration order of results, never which edges are candidates.
func (w *Workflow) GetOutgoingEdges(nodeID string) []*models.Edge {
	outgoing := make([]*models.Edge, 0)

	for _, edge := range w.Edges {
		if edge.FromNode == nodeID {
			outgoing = append(outgoing, edge)
		}
	}

	sort.SliceStable(outgoing, func(i, j int) bool {
		return outgoing[i].Priority > outgoing[j].Priority
	})

	return outgoing
}

// GetNextNodes evaluates every outgoing edge's condition against the context
// and returns the target of every edge that holds. This is an
// all-matching-edges model, not first-match: a single decision node fans out
// into multiple simultaneous branches when more than one condition holds.
// Callers relying on priority to select exactly one branch must keep their
// conditions mutually exclusive.
func (w *Workflow) GetNextNodes(nodeID string, ctx models.Context) ([]string, error) {
	nextNodes := make([]string, 0)

	for _, edge := range w.GetOutgoingEdges(nodeID) {
		ok, err := edge.CanTraverse(ctx)
		if err != nil {
			return nil, fmt.Errorf("edge %s: %w", edge.ID, err)
		}

		if ok {
			nextNodes = append(nextNodes, edge.ToNode)
		}
	}

	return nextNodes, nil
}
