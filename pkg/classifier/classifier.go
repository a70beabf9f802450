// Package classifier tags reconstructed conversations through an external
// text-classification service.
package classifier

import (
	"context"
	"errors"
)

// ErrMalformedResponse is returned when the classification service answers
// with something that is not the expected categories/subjects object.
var ErrMalformedResponse = errors.New("classifier returned a malformed response")

// IsMalformedResponse checks whether an error is a malformed classifier reply.
func IsMalformedResponse(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// Result is the parsed classification verdict.
type Result struct {
	Categories []string `json:"categories"`
	Subjects   []string `json:"subjects"`
}

// Classifier turns a labeled conversation transcript into categories and
// subjects.
type Classifier interface {
	Classify(ctx context.Context, transcript string) (*Result, error)
}
