// Package file provides file-based storage for conversation analyses.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/conexia/flowlens/pkg/analysisstore"
	"github.com/conexia/flowlens/pkg/models"
)

const fileMode = 0o600

// Store keeps one JSON document per session under a root directory.
type Store struct {
	root string
}

// NewStore creates a file store rooted at the given directory, creating it
// if necessary.
func NewStore(root string) (*Store, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	if err := os.MkdirAll(cleanRoot, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create analysis store directory: %w", err)
	}

	return &Store{root: cleanRoot}, nil
}

// Analysis loads the cached analysis for a session.
func (s *Store) Analysis(_ context.Context, sessionID string) (*models.ConversationAnalysis, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, analysisstore.ErrAnalysisNotFound
		}

		return nil, fmt.Errorf("failed to read analysis file: %w", err)
	}

	var analysis models.ConversationAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis file: %w", err)
	}

	return &analysis, nil
}

// SaveAnalysis writes the analysis document for its session.
func (s *Store) SaveAnalysis(_ context.Context, analysis *models.ConversationAnalysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	if err := os.WriteFile(s.path(analysis.SessionID), data, fileMode); err != nil {
		return fmt.Errorf("failed to write analysis file: %w", err)
	}

	return nil
}

// DeleteAnalysis removes the cached analysis for a session. Deleting a
// missing analysis is not an error.
func (s *Store) DeleteAnalysis(_ context.Context, sessionID string) error {
	err := os.Remove(s.path(sessionID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete analysis file: %w", err)
	}

	return nil
}

// HealthCheck verifies the root directory still exists.
func (s *Store) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close is a no-op for file storage.
func (s *Store) Close(_ context.Context) error {
	return nil
}

// path maps a session id to its document path. Session ids are opaque
// upstream strings, so they are escaped before touching the filesystem.
func (s *Store) path(sessionID string) string {
	return filepath.Join(s.root, url.PathEscape(sessionID)+".json")
}
