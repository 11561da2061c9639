package workflow

import (
	"encoding/json"
	"time"

	"github.com/pinkflow/pinkflow/pkg/models"
)

// ToStructured exports the workflow as a plain map in the stable shape
// consumed by external tooling. The field set is a compatibility contract:
// node actions and custom predicates are code and do not appear, which is
// why a serialized workflow describes structure, not behavior.
func (w *Workflow) ToStructured() map[string]any {
	nodes := make(map[string]any, len(w.Nodes))
	for nodeID, node := range w.Nodes {
		nodes[nodeID] = map[string]any{
			"node_id": node.ID,
			"name":    node.Name,
			"type":    string(node.Type),
			"config":  node.Config,
			"metadata": map[string]any{
				"description": node.Metadata.Description,
				"tags":        node.Metadata.Tags,
				"owner":       node.Metadata.Owner,
			},
		}
	}

	edges := make([]any, 0, len(w.Edges))
	for _, edge := range w.Edges {
		conditionType := string(models.ConditionAlways)
		if edge.Condition != nil {
			conditionType = string(edge.Condition.Type)
		}

		edges = append(edges, map[string]any{
			"edge_id":        edge.ID,
			"from":           edge.FromNode,
			"to":             edge.ToNode,
			"condition_type": conditionType,
			"priority":       edge.Priority,
			"metadata":       edge.Metadata,
		})
	}

	return map[string]any{
		"workflow_id": w.ID,
		"name":        w.Name,
		"environment": string(w.Environment),
		"description": w.Description,
		"start_node":  w.StartNode,
		"end_nodes":   w.EndNodes,
		"nodes":       nodes,
		"edges":       edges,
		"created_at":  w.CreatedAt.Format(time.RFC3339Nano),
		"metadata":    w.Metadata,
	}
}

// ToJSON exports the workflow as indented JSON in the ToStructured shape.
func (w *Workflow) ToJSON() (string, error) {
	data, err := json.MarshalIndent(w.ToStructured(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
