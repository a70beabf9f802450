package models

import "time"

// ConversationAnalysis is the classifier verdict for one chat session,
// cached by session identifier until explicitly cleared.
type ConversationAnalysis struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	Categories []string  `json:"categories"`
	Subjects   []string  `json:"subjects"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}
