package analysisstore

import "errors"

// ErrAnalysisNotFound is returned when no analysis is cached for a session.
var ErrAnalysisNotFound = errors.New("analysis not found")

// IsAnalysisNotFound checks if an error indicates a missing cached analysis.
func IsAnalysisNotFound(err error) bool {
	return errors.Is(err, ErrAnalysisNotFound)
}
