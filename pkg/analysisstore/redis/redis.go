// Package redis provides redis-backed storage for conversation analyses.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/conexia/flowlens/pkg/analysisstore"
	"github.com/conexia/flowlens/pkg/models"
)

const keyPrefix = "flowlens:analysis:"

// Store keeps one JSON value per session under a namespaced key.
type Store struct {
	client *goredis.Client
}

// NewStore connects to redis using a standard redis:// URL.
func NewStore(ctx context.Context, redisURL string) (*Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client}, nil
}

// Analysis loads the cached analysis for a session.
func (s *Store) Analysis(ctx context.Context, sessionID string) (*models.ConversationAnalysis, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, analysisstore.ErrAnalysisNotFound
		}

		return nil, fmt.Errorf("failed to read analysis from redis: %w", err)
	}

	var analysis models.ConversationAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode stored analysis: %w", err)
	}

	return &analysis, nil
}

// SaveAnalysis stores the analysis document for its session without
// expiry; analyses stay valid until explicitly cleared.
func (s *Store) SaveAnalysis(ctx context.Context, analysis *models.ConversationAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+analysis.SessionID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write analysis to redis: %w", err)
	}

	return nil
}

// DeleteAnalysis removes the cached analysis for a session.
func (s *Store) DeleteAnalysis(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete analysis from redis: %w", err)
	}

	return nil
}

// HealthCheck pings the redis server.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close(_ context.Context) error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
