package web

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/pinkflow/pinkflow/pkg/manager"
	"github.com/pinkflow/pinkflow/pkg/models"
)

type APIHandlers struct {
	manager   *manager.Manager
	validator *validator.Validate
}

func NewAPIHandlers(mgr *manager.Manager, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		manager:   mgr,
		validator: validator,
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	environment := models.Environment(c.Query("environment"))
	if environment != "" && !environment.Valid() {
		return badRequest(c, "Unknown environment: "+string(environment))
	}

	workflows := h.manager.ListWorkflows(environment)

	items := make([]map[string]any, 0, len(workflows))
	for _, wf := range workflows {
		items = append(items, wf.ToStructured())
	}

	return c.JSON(fiber.Map{
		"workflows":   items,
		"total_count": len(items),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.manager.GetWorkflow(id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(wf.ToStructured())
}

func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req ExecuteWorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}

		if err := h.validator.Struct(req); err != nil {
			return badRequest(c, err.Error())
		}
	}

	result, err := h.execute(c, id, req)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(ExecuteWorkflowResponse{
		WorkflowID: id,
		Result:     result,
	})
}

// execute applies the request's overrides: an explicit max_iterations
// replaces the selected tier policy's bound for this run only.
func (h *APIHandlers) execute(c fiber.Ctx, id string, req ExecuteWorkflowRequest) (models.Context, error) {
	if req.MaxIterations == nil {
		return h.manager.ExecuteWorkflow(c.Context(), id, req.Context, req.Environment)
	}

	wf, err := h.manager.GetWorkflow(id)
	if err != nil {
		return nil, err
	}

	environment := wf.Environment
	if req.Environment != "" {
		environment = req.Environment
	}

	config := h.manager.GetEnvironmentConfig(environment)
	config.MaxIterations = *req.MaxIterations

	return h.manager.ExecuteWorkflowWithConfig(c.Context(), id, req.Context, config)
}

func (h *APIHandlers) GetExecutionHistory(c fiber.Ctx) error {
	limit := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit: "+limitStr)
		}

		limit = parsed
	}

	records, err := h.manager.GetExecutionHistory(c.Context(), c.Query("workflow_id"), limit)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"executions":  records,
		"total_count": len(records),
	})
}

func (h *APIHandlers) GetStatistics(c fiber.Ctx) error {
	stats, err := h.manager.GetStatistics(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(stats)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"workflows": h.manager.Registry().Count(),
		"timestamp": time.Now().UTC(),
	})
}
