package models

import (
	"strings"
	"time"
)

// MessageType identifies the speaker of a conversation turn.
type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeAI   MessageType = "ai"
)

// ConversationMessage is one turn in a reconstructed conversation, derived
// from an enriched execution. At most one user turn and one ai turn exist
// per execution.
type ConversationMessage struct {
	Type        MessageType `json:"type"        validate:"required,oneof=user ai"`
	Content     string      `json:"content"     validate:"required"`
	Timestamp   time.Time   `json:"timestamp"   validate:"required"`
	ExecutionID string      `json:"executionId"`
}

// SessionStatus represents the activity state of a chat session.
type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusInactive SessionStatus = "inactive"
)

// ChatSession groups the executions sharing one session identifier into an
// ordered conversation timeline. Sessions are rebuilt from scratch on every
// fetch; nothing here is persisted.
type ChatSession struct {
	SessionID       string                `json:"sessionId"`
	Executions      []*Execution          `json:"executions"`
	Conversation    []ConversationMessage `json:"conversation"`
	LastActivity    time.Time             `json:"lastActivity"`
	TotalExecutions int                   `json:"totalExecutions"`
	Status          SessionStatus         `json:"status"`
	HasLeadTool     bool                  `json:"hasLeadTool,omitempty"`
	LeadExecutions  []*Execution          `json:"leadExecutions,omitempty"`
}

// GroupedExecutions is the aggregation result handed to the presentation
// layer: sessions sorted by recency plus the executions that carried no
// session identifier.
type GroupedExecutions struct {
	Sessions            []*ChatSession `json:"sessions"`
	UngroupedExecutions []*Execution   `json:"ungroupedExecutions"`
	TotalExecutions     int            `json:"totalExecutions"`
}

// Transcript renders an ordered message sequence as the newline-delimited,
// speaker-labeled text handed to the conversation classifier.
func Transcript(messages []ConversationMessage) string {
	lines := make([]string, 0, len(messages))

	for _, message := range messages {
		label := "IA"
		if message.Type == MessageTypeUser {
			label = "Client"
		}

		lines = append(lines, label+": "+message.Content)
	}

	return strings.Join(lines, "\n")
}
