package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/conexia/flowlens/pkg/analysisstore"
	"github.com/conexia/flowlens/pkg/classifier"
	"github.com/conexia/flowlens/pkg/models"
)

// Analysis classifies session conversations and caches the verdicts in the
// analysis store.
type Analysis struct {
	classifier classifier.Classifier
	store      analysisstore.Store
	logger     *slog.Logger
}

// NewAnalysis creates the analysis service.
func NewAnalysis(c classifier.Classifier, store analysisstore.Store, logger *slog.Logger) *Analysis {
	return &Analysis{
		classifier: c,
		store:      store,
		logger:     logger.With("module", "analysis_service"),
	}
}

// Analyze builds the labeled transcript for a session, submits it to the
// classifier and caches the verdict. Caching is best effort: a store
// failure is logged, not surfaced, since the verdict itself is already in
// hand.
func (s *Analysis) Analyze(ctx context.Context, sessionID string, messages []models.ConversationMessage) (*models.ConversationAnalysis, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}

	if len(messages) == 0 {
		return nil, ErrEmptyConversation
	}

	transcript := models.Transcript(messages)

	result, err := s.classifier.Classify(ctx, transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to classify conversation: %w", err)
	}

	analysis := &models.ConversationAnalysis{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Categories: result.Categories,
		Subjects:   result.Subjects,
		AnalyzedAt: time.Now().UTC(),
	}

	if err := s.store.SaveAnalysis(ctx, analysis); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache analysis",
			"session_id", sessionID, "error", err)
	}

	return analysis, nil
}

// Analysis returns the cached verdict for a session.
func (s *Analysis) Analysis(ctx context.Context, sessionID string) (*models.ConversationAnalysis, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}

	analysis, err := s.store.Analysis(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis for session %s: %w", sessionID, err)
	}

	return analysis, nil
}

// ClearAnalysis evicts the cached verdict for a session.
func (s *Analysis) ClearAnalysis(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}

	if err := s.store.DeleteAnalysis(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear analysis for session %s: %w", sessionID, err)
	}

	return nil
}

// HealthCheck checks the health of the analysis store.
func (s *Analysis) HealthCheck(ctx context.Context) (string, bool) {
	if s.store == nil {
		return "Analysis store not initialized", false
	}

	if err := s.store.HealthCheck(ctx); err != nil {
		return "Analysis store is unhealthy: " + err.Error(), false
	}

	return "Analysis store is healthy", true
}
