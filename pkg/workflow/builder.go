package workflow

import (
	"github.com/pinkflow/pinkflow/pkg/models"
)

// Builder accumulates nodes and edges through a fluent interface and
// triggers validation on Build. Structural errors from intermediate steps
// are collected and surfaced together with validation problems, so a caller
// can fix a definition in a single pass.
type Builder struct {
	workflow *Workflow
	problems []string
}

// NewBuilder starts a builder for a new workflow.
func NewBuilder(id, name string, environment models.Environment) *Builder {
	return &Builder{
		workflow: New(id, name, environment, ""),
		problems: make([]string, 0),
	}
}

// WithDescription sets the workflow description.
func (b *Builder) WithDescription(description string) *Builder {
	b.workflow.Description = description
	return b
}

// WithMetadata sets one metadata entry on the workflow.
func (b *Builder) WithMetadata(key string, value any) *Builder {
	b.workflow.Metadata[key] = value
	return b
}

// AddStartNode adds a start-typed node.
func (b *Builder) AddStartNode(nodeID, name string, action models.Action) *Builder {
	return b.addNode(nodeID, name, models.NodeTypeStart, action, nil)
}

// AddProcessNode adds a process-typed node with optional configuration.
func (b *Builder) AddProcessNode(nodeID, name string, action models.Action, config map[string]any) *Builder {
	return b.addNode(nodeID, name, models.NodeTypeProcess, action, config)
}

// AddDecisionNode adds a decision-typed node.
func (b *Builder) AddDecisionNode(nodeID, name string, action models.Action) *Builder {
	return b.addNode(nodeID, name, models.NodeTypeDecision, action, nil)
}

// AddParallelNode adds a parallel-typed node. The tag is documentation
// only; fan-out still comes from edge conditions.
func (b *Builder) AddParallelNode(nodeID, name string, action models.Action) *Builder {
	return b.addNode(nodeID, name, models.NodeTypeParallel, action, nil)
}

// AddMergeNode adds a merge-typed node.
func (b *Builder) AddMergeNode(nodeID, name string, action models.Action) *Builder {
	return b.addNode(nodeID, name, models.NodeTypeMerge, action, nil)
}

// AddEndNode adds an end-typed node.
func (b *Builder) AddEndNode(nodeID, name string, action models.Action) *Builder {
	return b.addNode(nodeID, name, models.NodeTypeEnd, action, nil)
}

// Connect adds an edge between two nodes. A nil condition means always.
func (b *Builder) Connect(fromNode, toNode string, condition *models.EdgeCondition, priority int) *Builder {
	if _, err := b.workflow.ConnectNodes(fromNode, toNode, condition, priority); err != nil {
		b.problems = append(b.problems, err.Error())
	}

	return b
}

// Build validates the accumulated workflow and returns it. Structural
// mistakes made during building plus validation findings are aggregated into
// one ValidationError.
func (b *Builder) Build() (*Workflow, error) {
	problems := append(b.problems, b.workflow.Validate()...)

	if len(problems) > 0 {
		return nil, &ValidationError{WorkflowID: b.workflow.ID, Problems: problems}
	}

	return b.workflow, nil
}

func (b *Builder) addNode(nodeID, name string, nodeType models.NodeType, action models.Action, config map[string]any) *Builder {
	node := models.NewNode(nodeID, name, nodeType).WithAction(action)
	if config != nil {
		node.Config = config
	}

	if err := b.workflow.AddNode(node); err != nil {
		b.problems = append(b.problems, err.Error())
	}

	return b
}
