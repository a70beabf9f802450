package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/conexia/flowlens/pkg/services"
)

// APIHandlers bundles the dashboard endpoints.
type APIHandlers struct {
	executionsService *services.Executions
	analysisService   *services.Analysis
	validator         *validator.Validate
	defaultWorkflowID string
}

// NewAPIHandlers creates the handler set. defaultWorkflowID scopes
// refreshes when the request does not name a workflow.
func NewAPIHandlers(
	executionsService *services.Executions,
	analysisService *services.Analysis,
	validator *validator.Validate,
	defaultWorkflowID string,
) *APIHandlers {
	return &APIHandlers{
		executionsService: executionsService,
		analysisService:   analysisService,
		validator:         validator,
		defaultWorkflowID: defaultWorkflowID,
	}
}

// GetExecutions refreshes the execution history and returns the grouped
// session view.
func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	req, err := h.parseRefreshRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	grouped, err := h.executionsService.Refresh(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(grouped)
}

// parseRefreshRequest parses and validates query parameters for a refresh.
func (h *APIHandlers) parseRefreshRequest(c fiber.Ctx) (*services.RefreshRequest, error) {
	req := &services.RefreshRequest{
		WorkflowID: h.defaultWorkflowID,
		Status:     c.Query("status"),
		Cursor:     c.Query("cursor"),
	}

	if workflowID := c.Query("workflowId"); workflowID != "" {
		req.WorkflowID = workflowID
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	return req, nil
}

// GetExecution returns one execution detail with derived fields attached.
func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	execution, err := h.executionsService.ExecutionByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

// AnalyzeSession classifies a session conversation and caches the verdict.
func (h *APIHandlers) AnalyzeSession(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return badRequest(c, "Session ID is required")
	}

	var req AnalyzeConversationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	analysis, err := h.analysisService.Analyze(c.Context(), sessionID, req.Messages)
	if err != nil {
		if services.IsMalformedAnalysis(err) {
			return c.Status(fiber.StatusBadGateway).JSON(AnalyzeConversationResponse{
				Success: false,
				Error:   "classification service returned an unusable response",
			})
		}

		return handleServiceError(c, err)
	}

	return c.JSON(AnalyzeConversationResponse{
		Success:  true,
		Analysis: analysis,
	})
}

// GetSessionAnalysis returns the cached verdict for a session.
func (h *APIHandlers) GetSessionAnalysis(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return badRequest(c, "Session ID is required")
	}

	analysis, err := h.analysisService.Analysis(c.Context(), sessionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(analysis)
}

// DeleteSessionAnalysis evicts the cached verdict for a session.
func (h *APIHandlers) DeleteSessionAnalysis(c fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return badRequest(c, "Session ID is required")
	}

	if err := h.analysisService.ClearAnalysis(c.Context(), sessionID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetMetrics summarizes conversation volume for one calendar month.
func (h *APIHandlers) GetMetrics(c fiber.Ctx) error {
	month := c.Query("month")
	if month == "" {
		return badRequest(c, "month query parameter is required (YYYY-MM)")
	}

	req, err := h.parseRefreshRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	metrics, err := h.executionsService.MonthlyMetrics(c.Context(), *req, month)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(metrics)
}

// HealthCheck reports the health of the analysis store dependency.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	storeCheck, storeOK := h.analysisService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "FlowLens API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if storeOK {
		status = "healthy"
		message = "FlowLens API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"analysis_store": storeCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
