// Package analysisstore provides the storage abstraction for cached
// conversation analyses, keyed by session identifier.
package analysisstore

import (
	"context"

	"github.com/conexia/flowlens/pkg/models"
)

// Store persists classifier verdicts between refreshes. Implementations
// exist for file, redis and postgresql backends.
type Store interface {
	Analysis(ctx context.Context, sessionID string) (*models.ConversationAnalysis, error)
	SaveAnalysis(ctx context.Context, analysis *models.ConversationAnalysis) error
	DeleteAnalysis(ctx context.Context, sessionID string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
