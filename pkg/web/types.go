// Package web provides the HTTP handlers and REST API surface of the
// monitoring dashboard.
package web

import "github.com/conexia/flowlens/pkg/models"

// LoginRequest represents the request body for dashboard login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AnalyzeConversationRequest represents the request body for classifying a
// session conversation.
type AnalyzeConversationRequest struct {
	Messages []models.ConversationMessage `json:"messages" validate:"required,min=1,dive"`
}

// AnalyzeConversationResponse represents the outcome of a classification
// request.
type AnalyzeConversationResponse struct {
	Success  bool                         `json:"success"`
	Analysis *models.ConversationAnalysis `json:"analysis,omitempty"`
	Error    string                       `json:"error,omitempty"`
}
