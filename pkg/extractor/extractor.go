// Package extractor derives session identity, conversation turns and lead
// captures from the nested per-node run data of a workflow execution.
package extractor

import (
	"log/slog"
	"strings"

	"github.com/conexia/flowlens/pkg/models"
)

// Config names the workflow nodes the extractor reads from. The zero value
// is not usable; start from DefaultConfig and override as needed.
type Config struct {
	ChatNode   string `yaml:"chat_node"`
	AgentNode  string `yaml:"agent_node"`
	GPTNode    string `yaml:"gpt_node"`
	ClaudeNode string `yaml:"claude_node"`
	LeadNode   string `yaml:"lead_node"`
}

// DefaultConfig returns the node names used by the monitored workflow.
func DefaultConfig() Config {
	return Config{
		ChatNode:   "chat",
		AgentNode:  "lm-diffusion-agent",
		GPTNode:    "gpt",
		ClaudeNode: "claude",
		LeadNode:   "lead",
	}
}

// Extraction is the per-execution result. Absent fields stay nil/false;
// extraction never fails as a whole.
type Extraction struct {
	SessionID  *string
	ChatInput  *string
	AIResponse *string
	LeadUsed   bool
	LeadData   *models.LeadData
}

// Extractor locates conversation fields inside raw execution run data.
type Extractor struct {
	config Config
	logger *slog.Logger
}

// New creates an extractor for the given node table.
func New(config Config, logger *slog.Logger) *Extractor {
	return &Extractor{
		config: config,
		logger: logger.With("module", "extractor"),
	}
}

// Extract searches the execution's run data for the session identifier,
// the user's chat input, the AI response and an optional lead capture.
// Every structural anomaly degrades to an absent field, never an error.
func (e *Extractor) Extract(execution *models.Execution) Extraction {
	var result Extraction

	runData := execution.RunData()
	if runData == nil {
		e.logger.Debug("Execution has no run data", "execution_id", execution.ID)

		return result
	}

	result.SessionID, result.ChatInput = e.extractChatIntake(execution.ID, runData)
	result.AIResponse = e.extractAIResponse(execution.ID, runData)
	result.LeadUsed, result.LeadData = e.extractLead(execution.ID, runData)

	return result
}

// Enrich attaches the extraction result to the execution record.
func (e *Extractor) Enrich(execution *models.Execution) {
	extraction := e.Extract(execution)

	execution.SessionID = extraction.SessionID
	execution.ChatInput = extraction.ChatInput
	execution.AIResponse = extraction.AIResponse
	execution.LeadUsed = extraction.LeadUsed
	execution.LeadData = extraction.LeadData
}

// extractChatIntake reads sessionId and chatInput from the chat trigger
// node's first invocation. The two fields miss independently.
func (e *Extractor) extractChatIntake(executionID string, runData map[string]any) (*string, *string) {
	payload, ok := lookupMap(runData, e.config.ChatNode, 0, "data", "main", 0, 0, "json")
	if !ok {
		e.logger.Debug("Chat intake payload not found", "execution_id", executionID, "node", e.config.ChatNode)

		return nil, nil
	}

	var sessionID, chatInput *string

	if value, ok := payload["sessionId"].(string); ok && value != "" {
		sessionID = &value
	}

	if value, ok := payload["chatInput"].(string); ok && value != "" {
		chatInput = &value
	}

	return sessionID, chatInput
}

// extractAIResponse resolves the AI reply through a three-tier fallback:
// the agent node's output field, then the gpt node's generations, then the
// claude node's generations. The first tier that yields non-blank text wins.
func (e *Extractor) extractAIResponse(executionID string, runData map[string]any) *string {
	if output, ok := lookupString(runData, e.config.AgentNode, 0, "data", "main", 0, 0, "json", "output"); ok {
		return &output
	}

	for _, node := range []string{e.config.GPTNode, e.config.ClaudeNode} {
		if text, ok := e.lastGeneration(runData, node); ok {
			return &text
		}
	}

	e.logger.Debug("No AI response found in any model node", "execution_id", executionID)

	return nil
}

// lastGeneration scans a model node's invocations most-recent-first and
// returns the first non-blank generation text. Tool-calling loops invoke
// the model several times within one execution and only the final call
// carries the user-facing answer.
func (e *Extractor) lastGeneration(runData map[string]any, node string) (string, bool) {
	invocations, ok := lookupSlice(runData, node)
	if !ok {
		return "", false
	}

	for i := len(invocations) - 1; i >= 0; i-- {
		text, ok := lookupString(invocations[i],
			"data", "ai_languageModel", 0, 0, "json", "response", "generations", 0, 0, "text")
		if !ok {
			continue
		}

		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed, true
		}
	}

	return "", false
}

// extractLead detects the lead tool and pulls the captured contact fields
// from the tool-call arguments of its first invocation. Node presence alone
// sets the flag; the structured payload is best effort.
func (e *Extractor) extractLead(executionID string, runData map[string]any) (bool, *models.LeadData) {
	if _, ok := runData[e.config.LeadNode]; !ok {
		return false, nil
	}

	payload, ok := lookupMap(runData, e.config.LeadNode, 0, "inputOverride", "ai_tool", 0, 0, "json")
	if !ok {
		e.logger.Debug("Lead node present without tool input payload",
			"execution_id", executionID, "node", e.config.LeadNode)

		return true, nil
	}

	lead := &models.LeadData{
		Message: leadMessageKeys.pick(payload),
		Email:   leadEmailKeys.pick(payload),
		Subject: leadSubjectKeys.pick(payload),
		Name:    leadNameKeys.pick(payload),
		Phone:   leadPhoneKeys.pick(payload),
	}

	for key, value := range payload {
		if _, consumed := leadConsumedKeys[key]; consumed {
			continue
		}

		text, ok := value.(string)
		if !ok {
			continue
		}

		if lead.Extra == nil {
			lead.Extra = make(map[string]string)
		}

		lead.Extra[key] = text
	}

	return true, lead
}
