package extractor

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conexia/flowlens/pkg/models"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	return New(DefaultConfig(), slog.Default())
}

func executionWithRunData(runData map[string]any) *models.Execution {
	return &models.Execution{
		ID:        "exec-1",
		Status:    models.ExecutionStatusSuccess,
		StartedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Data: &models.ExecutionData{
			ResultData: &models.ResultData{RunData: runData},
		},
	}
}

// mainChannelRun builds one node invocation emitting a single item on the
// primary output channel.
func mainChannelRun(payload map[string]any) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"main": []any{
				[]any{
					map[string]any{"json": payload},
				},
			},
		},
	}
}

// modelRun builds one model-node invocation with a generation text.
func modelRun(text string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"ai_languageModel": []any{
				[]any{
					map[string]any{
						"json": map[string]any{
							"response": map[string]any{
								"generations": []any{
									[]any{
										map[string]any{"text": text},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func leadRun(payload map[string]any) map[string]any {
	return map[string]any{
		"inputOverride": map[string]any{
			"ai_tool": []any{
				[]any{
					map[string]any{"json": payload},
				},
			},
		},
	}
}

func TestExtract_NoRunData(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	tests := []struct {
		name      string
		execution *models.Execution
	}{
		{"nil data", &models.Execution{ID: "exec-1"}},
		{"nil result data", &models.Execution{ID: "exec-2", Data: &models.ExecutionData{}}},
		{"empty run data", executionWithRunData(map[string]any{})},
		{"unrelated nodes only", executionWithRunData(map[string]any{
			"webhook": []any{mainChannelRun(map[string]any{"foo": "bar"})},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := e.Extract(tt.execution)

			assert.Nil(t, result.SessionID)
			assert.Nil(t, result.ChatInput)
			assert.Nil(t, result.AIResponse)
			assert.False(t, result.LeadUsed)
			assert.Nil(t, result.LeadData)
		})
	}
}

func TestExtract_ChatIntake(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	execution := executionWithRunData(map[string]any{
		"chat": []any{mainChannelRun(map[string]any{
			"sessionId": "S1",
			"chatInput": "Bonjour",
		})},
	})

	result := e.Extract(execution)

	require.NotNil(t, result.SessionID)
	require.NotNil(t, result.ChatInput)
	assert.Equal(t, "S1", *result.SessionID)
	assert.Equal(t, "Bonjour", *result.ChatInput)
}

func TestExtract_ChatIntakeFieldsMissIndependently(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	execution := executionWithRunData(map[string]any{
		"chat": []any{mainChannelRun(map[string]any{
			"sessionId": "S1",
		})},
	})

	result := e.Extract(execution)

	require.NotNil(t, result.SessionID)
	assert.Equal(t, "S1", *result.SessionID)
	assert.Nil(t, result.ChatInput)
}

func TestExtract_ChatIntakeBrokenChain(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	// Invocation exists but the output channel is missing entirely.
	execution := executionWithRunData(map[string]any{
		"chat": []any{map[string]any{"data": map[string]any{}}},
	})

	result := e.Extract(execution)

	assert.Nil(t, result.SessionID)
	assert.Nil(t, result.ChatInput)
}

func TestExtract_AIResponseAgentTier(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	execution := executionWithRunData(map[string]any{
		"lm-diffusion-agent": []any{mainChannelRun(map[string]any{
			"output": "agent answer",
		})},
		"gpt": []any{modelRun("gpt answer")},
	})

	result := e.Extract(execution)

	require.NotNil(t, result.AIResponse)
	assert.Equal(t, "agent answer", *result.AIResponse)
}

func TestExtract_AIResponseGPTBeatsClaude(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	execution := executionWithRunData(map[string]any{
		"gpt":    []any{modelRun("gpt answer")},
		"claude": []any{modelRun("claude answer")},
	})

	result := e.Extract(execution)

	require.NotNil(t, result.AIResponse)
	assert.Equal(t, "gpt answer", *result.AIResponse)
}

func TestExtract_AIResponseReverseScan(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	// Tool-calling loop: only the middle invocation carries text, trailing
	// one is blank. The scan walks backward and takes the last non-blank.
	execution := executionWithRunData(map[string]any{
		"gpt": []any{
			modelRun(""),
			modelRun("answer"),
			modelRun("   "),
		},
	})

	result := e.Extract(execution)

	require.NotNil(t, result.AIResponse)
	assert.Equal(t, "answer", *result.AIResponse)
}

func TestExtract_AIResponseClaudeFallback(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	execution := executionWithRunData(map[string]any{
		"gpt":    []any{modelRun("  ")},
		"claude": []any{modelRun("claude answer")},
	})

	result := e.Extract(execution)

	require.NotNil(t, result.AIResponse)
	assert.Equal(t, "claude answer", *result.AIResponse)
}

func TestExtract_AIResponseAllBlank(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	execution := executionWithRunData(map[string]any{
		"gpt":    []any{modelRun("")},
		"claude": []any{modelRun(" \n ")},
	})

	result := e.Extract(execution)

	assert.Nil(t, result.AIResponse)
}

func TestExtract_LeadFields(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	execution := executionWithRunData(map[string]any{
		"lead": []any{leadRun(map[string]any{
			"To":      "a@b.com",
			"Message": "hi",
			"extra":   "x",
		})},
	})

	result := e.Extract(execution)

	assert.True(t, result.LeadUsed)
	require.NotNil(t, result.LeadData)
	assert.Equal(t, "a@b.com", result.LeadData.Email)
	assert.Equal(t, "hi", result.LeadData.Message)
	assert.Equal(t, map[string]string{"extra": "x"}, result.LeadData.Extra)
	assert.NotContains(t, result.LeadData.Extra, "To")
	assert.NotContains(t, result.LeadData.Extra, "Message")
}

func TestExtract_LeadAlternateSpellings(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	tests := []struct {
		name     string
		payload  map[string]any
		validate func(t *testing.T, lead *models.LeadData)
	}{
		{
			name:    "email fallback spelling",
			payload: map[string]any{"Email": "c@d.com"},
			validate: func(t *testing.T, lead *models.LeadData) {
				t.Helper()
				assert.Equal(t, "c@d.com", lead.Email)
			},
		},
		{
			name:    "primary To wins over Email",
			payload: map[string]any{"To": "a@b.com", "Email": "c@d.com"},
			validate: func(t *testing.T, lead *models.LeadData) {
				t.Helper()
				assert.Equal(t, "a@b.com", lead.Email)
				// The unused alternate spelling is still claimed and never
				// duplicated into the extras bag.
				assert.NotContains(t, lead.Extra, "Email")
			},
		},
		{
			name: "name subject phone chains",
			payload: map[string]any{
				"Nom":       "Jeanne",
				"Sujet":     "livraison",
				"Téléphone": "0600000000",
			},
			validate: func(t *testing.T, lead *models.LeadData) {
				t.Helper()
				assert.Equal(t, "Jeanne", lead.Name)
				assert.Equal(t, "livraison", lead.Subject)
				assert.Equal(t, "0600000000", lead.Phone)
			},
		},
		{
			name:    "non-string values skipped in extras",
			payload: map[string]any{"message": "hi", "count": float64(3)},
			validate: func(t *testing.T, lead *models.LeadData) {
				t.Helper()
				assert.Equal(t, "hi", lead.Message)
				assert.Empty(t, lead.Extra)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			execution := executionWithRunData(map[string]any{
				"lead": []any{leadRun(tt.payload)},
			})

			result := e.Extract(execution)

			assert.True(t, result.LeadUsed)
			require.NotNil(t, result.LeadData)
			tt.validate(t, result.LeadData)
		})
	}
}

func TestExtract_LeadNodeWithoutPayload(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	tests := []struct {
		name    string
		runData map[string]any
	}{
		{"no invocations", map[string]any{"lead": []any{}}},
		{"invocation without input override", map[string]any{
			"lead": []any{map[string]any{"data": map[string]any{}}},
		}},
		{"node value of unexpected shape", map[string]any{"lead": "oops"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := e.Extract(executionWithRunData(tt.runData))

			// Node presence alone flags the lead tool, even when the
			// structured payload is unreachable.
			assert.True(t, result.LeadUsed)
			assert.Nil(t, result.LeadData)
		})
	}
}

func TestEnrich_AttachesDerivedFields(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	execution := executionWithRunData(map[string]any{
		"chat": []any{mainChannelRun(map[string]any{
			"sessionId": "S9",
			"chatInput": "hello",
		})},
		"lm-diffusion-agent": []any{mainChannelRun(map[string]any{
			"output": "hi there",
		})},
		"lead": []any{leadRun(map[string]any{"To": "a@b.com"})},
	})

	e.Enrich(execution)

	require.NotNil(t, execution.SessionID)
	assert.Equal(t, "S9", *execution.SessionID)
	require.NotNil(t, execution.ChatInput)
	assert.Equal(t, "hello", *execution.ChatInput)
	require.NotNil(t, execution.AIResponse)
	assert.Equal(t, "hi there", *execution.AIResponse)
	assert.True(t, execution.LeadUsed)
	require.NotNil(t, execution.LeadData)
	assert.Equal(t, "a@b.com", execution.LeadData.Email)
}

func TestExtract_CustomNodeNames(t *testing.T) {
	t.Parallel()

	config := Config{
		ChatNode:   "intake",
		AgentNode:  "assistant",
		GPTNode:    "openai",
		ClaudeNode: "anthropic",
		LeadNode:   "contact",
	}
	e := New(config, slog.Default())

	execution := executionWithRunData(map[string]any{
		"intake": []any{mainChannelRun(map[string]any{
			"sessionId": "S2",
			"chatInput": "salut",
		})},
		"openai": []any{modelRun("réponse")},
	})

	result := e.Extract(execution)

	require.NotNil(t, result.SessionID)
	assert.Equal(t, "S2", *result.SessionID)
	require.NotNil(t, result.AIResponse)
	assert.Equal(t, "réponse", *result.AIResponse)
}
