// Package cmd provides shared constructors for the flowlens binaries.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/conexia/flowlens/pkg/analysisstore"
	"github.com/conexia/flowlens/pkg/analysisstore/file"
	"github.com/conexia/flowlens/pkg/analysisstore/postgresql"
	"github.com/conexia/flowlens/pkg/analysisstore/redis"
)

// NewAnalysisStore selects an analysis store backend from the URL scheme:
// file://, redis:// or postgres://.
func NewAnalysisStore(ctx context.Context, logger *slog.Logger, storeURL string) (analysisstore.Store, error) {
	switch {
	case strings.HasPrefix(storeURL, "file://"):
		store, err := file.NewStore(storeURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create file analysis store: %w", err)
		}

		return store, nil
	case strings.HasPrefix(storeURL, "redis://"), strings.HasPrefix(storeURL, "rediss://"):
		store, err := redis.NewStore(ctx, storeURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis analysis store: %w", err)
		}

		return store, nil
	case strings.HasPrefix(storeURL, "postgres://"), strings.HasPrefix(storeURL, "postgresql://"):
		store, err := postgresql.NewStore(ctx, logger, storeURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgresql analysis store: %w", err)
		}

		return store, nil
	default:
		return nil, fmt.Errorf("unsupported analysis store URL: %s", storeURL)
	}
}
