package workflow

import (
	"fmt"
	"sort"
	"strings"
)

// Validate runs structural validation over the graph and returns every
// problem found (empty when the workflow is valid): a missing start node,
// missing end nodes, and unreachable nodes.
//
// Reachability is static: the traversal from the start node follows every
// outgoing edge regardless of condition. A node only reachable under
// conditions that never hold for some context is a dynamic property outside
// validation's scope.
func (w *Workflow) Validate() []string {
	problems := make([]string, 0)

	if w.StartNode == "" {
		problems = append(problems, "workflow has no start node")
	}

	if len(w.EndNodes) == 0 {
		problems = append(problems, "workflow has no end nodes")
	}

	if unreachable := w.unreachableNodes(); len(unreachable) > 0 {
		problems = append(problems, fmt.Sprintf("unreachable nodes: %s", strings.Join(unreachable, ", ")))
	}

	return problems
}

// unreachableNodes returns node IDs not reachable from the start node via
// structural traversal, sorted for deterministic messages.
func (w *Workflow) unreachableNodes() []string {
	reachable := make(map[string]bool)

	if w.StartNode != "" {
		toVisit := []string{w.StartNode}

		for len(toVisit) > 0 {
			current := toVisit[len(toVisit)-1]
			toVisit = toVisit[:len(toVisit)-1]

			if reachable[current] {
				continue
			}

			reachable[current] = true

			for _, edge := range w.GetOutgoingEdges(current) {
				toVisit = append(toVisit, edge.ToNode)
			}
		}
	}

	unreachable := make([]string, 0)

	for nodeID := range w.Nodes {
		if !reachable[nodeID] {
			unreachable = append(unreachable, nodeID)
		}
	}

	sort.Strings(unreachable)

	return unreachable
}
