// Package postgresql provides PostgreSQL storage for conversation analyses.
package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/conexia/flowlens/pkg/analysisstore"
	"github.com/conexia/flowlens/pkg/models"
)

// Store persists analyses in a conversation_analyses table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore connects to PostgreSQL and runs pending migrations.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*Store, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{
		db:     database,
		logger: logger.With("module", "postgresql_analysis_store"),
	}

	migrationManager := newMigrationManager(logger, database, migrations())
	if err := migrationManager.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Analysis loads the cached analysis for a session.
func (s *Store) Analysis(ctx context.Context, sessionID string) (*models.ConversationAnalysis, error) {
	const query = `
		SELECT id, session_id, categories, subjects, analyzed_at
		FROM conversation_analyses
		WHERE session_id = $1`

	analysis := &models.ConversationAnalysis{}

	var categories, subjects pq.StringArray

	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&analysis.ID,
		&analysis.SessionID,
		&categories,
		&subjects,
		&analysis.AnalyzedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, analysisstore.ErrAnalysisNotFound
		}

		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	analysis.Categories = categories
	analysis.Subjects = subjects

	return analysis, nil
}

// SaveAnalysis upserts the analysis document for its session.
func (s *Store) SaveAnalysis(ctx context.Context, analysis *models.ConversationAnalysis) error {
	const query = `
		INSERT INTO conversation_analyses (id, session_id, categories, subjects, analyzed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET
			id = EXCLUDED.id,
			categories = EXCLUDED.categories,
			subjects = EXCLUDED.subjects,
			analyzed_at = EXCLUDED.analyzed_at`

	_, err := s.db.ExecContext(ctx, query,
		analysis.ID,
		analysis.SessionID,
		pq.StringArray(analysis.Categories),
		pq.StringArray(analysis.Subjects),
		analysis.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// DeleteAnalysis removes the cached analysis for a session.
func (s *Store) DeleteAnalysis(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversation_analyses WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close(_ context.Context) error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}
