// Package models defines the core domain models for workflow execution monitoring.
package models

import "time"

// ExecutionStatus represents the lifecycle state of a workflow execution.
type ExecutionStatus string

const (
	ExecutionStatusSuccess  ExecutionStatus = "success"
	ExecutionStatusError    ExecutionStatus = "error"
	ExecutionStatusWaiting  ExecutionStatus = "waiting"
	ExecutionStatusRunning  ExecutionStatus = "running"
	ExecutionStatusCanceled ExecutionStatus = "canceled"
	ExecutionStatusCrashed  ExecutionStatus = "crashed"
	ExecutionStatusNew      ExecutionStatus = "new"
)

// Active reports whether the execution is still in flight.
func (s ExecutionStatus) Active() bool {
	return s == ExecutionStatusRunning || s == ExecutionStatusWaiting
}

// ExecutionMode represents how a workflow execution was triggered.
type ExecutionMode string

const (
	ExecutionModeManual     ExecutionMode = "manual"
	ExecutionModeTrigger    ExecutionMode = "trigger"
	ExecutionModeWebhook    ExecutionMode = "webhook"
	ExecutionModeInternal   ExecutionMode = "internal"
	ExecutionModeRetry      ExecutionMode = "retry"
	ExecutionModeIntegrated ExecutionMode = "integrated"
	ExecutionModeCLI        ExecutionMode = "cli"
)

// Execution is one unit of workflow execution history as returned by the
// upstream platform. The record is read-only after fetch; the derived
// SessionID, ChatInput, AIResponse and lead fields are attached by the
// extractor before aggregation.
type Execution struct {
	ID             string          `json:"id"`
	Finished       bool            `json:"finished"`
	Mode           ExecutionMode   `json:"mode"`
	RetryOf        *string         `json:"retryOf,omitempty"`
	RetrySuccessID *string         `json:"retrySuccessId,omitempty"`
	StartedAt      time.Time       `json:"startedAt"`
	StoppedAt      *time.Time      `json:"stoppedAt,omitempty"`
	WorkflowID     string          `json:"workflowId"`
	WorkflowName   string          `json:"workflowName,omitempty"`
	Status         ExecutionStatus `json:"status"`
	WaitTill       *time.Time      `json:"waitTill,omitempty"`
	Data           *ExecutionData  `json:"data,omitempty"`

	// Derived fields, populated by the extractor.
	SessionID  *string   `json:"sessionId,omitempty"`
	ChatInput  *string   `json:"chatInput,omitempty"`
	AIResponse *string   `json:"aiResponse,omitempty"`
	LeadUsed   bool      `json:"leadUsed,omitempty"`
	LeadData   *LeadData `json:"leadData,omitempty"`
}

// ExecutionData holds the nested result payload of an execution.
type ExecutionData struct {
	ResultData *ResultData `json:"resultData,omitempty"`
}

// ResultData carries per-node run results. RunData maps node names to an
// ordered sequence of per-invocation entries whose shape depends on the
// node type, so it stays loosely typed and is navigated defensively.
type ResultData struct {
	Error   any            `json:"error,omitempty"`
	RunData map[string]any `json:"runData,omitempty"`
}

// RunData returns the per-node run results, or nil when the execution was
// fetched without data or the nested structure is absent.
func (e *Execution) RunData() map[string]any {
	if e.Data == nil || e.Data.ResultData == nil {
		return nil
	}

	return e.Data.ResultData.RunData
}
