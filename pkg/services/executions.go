package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/conexia/flowlens/pkg/extractor"
	"github.com/conexia/flowlens/pkg/models"
	"github.com/conexia/flowlens/pkg/n8n"
	"github.com/conexia/flowlens/pkg/otelhelper"
	"github.com/conexia/flowlens/pkg/sessions"
)

// Executions rebuilds the session view from upstream execution history:
// one fetch, per-record enrichment, one aggregation pass. Nothing is kept
// between refreshes.
type Executions struct {
	client    *n8n.Client
	extractor *extractor.Extractor
	tracer    trace.Tracer
	logger    *slog.Logger
}

// RefreshRequest filters the upstream history page backing one refresh.
type RefreshRequest struct {
	WorkflowID string
	Status     string
	Cursor     string
	Limit      int
}

// NewExecutions creates the executions service.
func NewExecutions(client *n8n.Client, ext *extractor.Extractor, tracer trace.Tracer, logger *slog.Logger) *Executions {
	return &Executions{
		client:    client,
		extractor: ext,
		tracer:    tracer,
		logger:    logger.With("module", "executions_service"),
	}
}

// Refresh fetches one page of execution history, enriches every record and
// aggregates the batch into sessions.
func (s *Executions) Refresh(ctx context.Context, req RefreshRequest) (*models.GroupedExecutions, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "executions.refresh",
		attribute.String(otelhelper.WorkflowIDKey, req.WorkflowID))
	defer span.End()

	list, err := s.client.Executions(ctx, n8n.ListOptions{
		WorkflowID: req.WorkflowID,
		Status:     req.Status,
		Cursor:     req.Cursor,
		Limit:      req.Limit,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to fetch executions: %w", err)
	}

	for _, execution := range list.Data {
		s.extractor.Enrich(execution)
	}

	grouped := sessions.Aggregate(list.Data)

	span.SetAttributes(
		attribute.Int(otelhelper.BatchSizeKey, grouped.TotalExecutions),
		attribute.Int(otelhelper.SessionsKey, len(grouped.Sessions)),
	)

	s.logger.InfoContext(ctx, "Refreshed execution history",
		"total_executions", grouped.TotalExecutions,
		"sessions", len(grouped.Sessions),
		"ungrouped", len(grouped.UngroupedExecutions))

	return grouped, nil
}

// ExecutionByID fetches one execution detail, enriched like the batch view.
func (s *Executions) ExecutionByID(ctx context.Context, id string) (*models.Execution, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "executions.by_id",
		attribute.String(otelhelper.ExecutionIDKey, id))
	defer span.End()

	execution, err := s.client.Execution(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to fetch execution %s: %w", id, err)
	}

	s.extractor.Enrich(execution)

	return execution, nil
}

// MonthlyMetrics refreshes the session view and summarizes conversation
// volume for the given month.
func (s *Executions) MonthlyMetrics(ctx context.Context, req RefreshRequest, month string) (sessions.Metrics, error) {
	grouped, err := s.Refresh(ctx, req)
	if err != nil {
		return sessions.Metrics{}, err
	}

	metrics, err := sessions.MonthlyMetrics(grouped.Sessions, month)
	if err != nil {
		return sessions.Metrics{}, fmt.Errorf("%w: %w", ErrInvalidMonth, err)
	}

	return metrics, nil
}
