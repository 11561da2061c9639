package workflow

import (
	"fmt"

	"github.com/pinkflow/pinkflow/pkg/models"
)

// DefaultMaxIterations bounds the outer traversal loop when the caller does
// not supply a limit.
const DefaultMaxIterations = 1000

// Execute walks the graph from the start node against the initial context
// and returns the final context.
//
// Execution is a state machine over a frontier of active node IDs. Each
// tick processes every node in the frontier sequentially, in list order:
// the node ID is appended to the execution path, the node's action replaces
// the context, and, unless the node is end-typed, every outgoing edge
// whose condition holds contributes its target to the next frontier. The
// frontier is NOT deduplicated: a node appearing twice in one frontier runs
// once per appearance. That keeps merges deterministic (last-write-wins in
// list order) at the cost of repeated visits.
//
// Iterations count frontier expansions. The terminal tick, which only
// drains nodes that produce no successors, is not counted, so a minimal
// start→end run reports a single iteration. When maxIterations expansions
// have happened and the frontier is still non-empty, execution fails with
// an IterationLimitError. Node-action errors propagate without retry or
// suppression.
//
// Logical parallel branches share one mutable context with no isolation:
// actions that write the same field race logically, resolved by iteration
// order. Real concurrent branch execution would need an explicit context
// merge strategy and is deliberately not implemented here.
func (w *Workflow) Execute(initial models.Context, maxIterations int) (models.Context, error) {
	if w.StartNode == "" {
		return nil, &ValidationError{WorkflowID: w.ID, Problems: []string{ErrNoStartNode.Error()}}
	}

	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	ctx := initial
	if ctx == nil {
		ctx = models.Context{}
	}

	ctx[models.ContextKeyEnvironment] = string(w.Environment)
	ctx[models.ContextKeyWorkflowID] = w.ID
	ctx[models.ContextKeyExecutionPath] = []string{}

	frontier := []string{w.StartNode}
	iterations := 0

	for len(frontier) > 0 {
		if iterations >= maxIterations {
			return nil, &IterationLimitError{WorkflowID: w.ID, MaxIterations: maxIterations}
		}

		next := make([]string, 0)

		for _, nodeID := range frontier {
			node, ok := w.Nodes[nodeID]
			if !ok {
				continue
			}

			if path, ok := ctx[models.ContextKeyExecutionPath].([]string); ok {
				ctx[models.ContextKeyExecutionPath] = append(path, nodeID)
			}

			var err error

			ctx, err = node.Run(ctx)
			if err != nil {
				return nil, fmt.Errorf("node %s action failed: %w", nodeID, err)
			}

			// End nodes contribute nothing to the next frontier.
			if node.Type == models.NodeTypeEnd {
				continue
			}

			targets, err := w.GetNextNodes(nodeID, ctx)
			if err != nil {
				return nil, err
			}

			next = append(next, targets...)
		}

		frontier = next
		if len(frontier) > 0 {
			iterations++
		}
	}

	ctx[models.ContextKeyCompleted] = true
	ctx[models.ContextKeyIterations] = iterations

	return ctx, nil
}
