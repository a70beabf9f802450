package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 60 * time.Second
	temperature    = 0.3
	maxTokens      = 500
)

const analysisPrompt = `Tu es un expert en analyse de conversations client. Analyse la conversation suivante et détermine :

1. LES CATÉGORIES (peut être plusieurs parmi) :
- conseils : demande de conseils, recommandations
- sav : service après-vente, problèmes, réclamations
- informations générales : questions générales, renseignements
- friction : difficulté, frustration, problème dans l'expérience
- impossibilité de répondre : questions hors sujet ou impossibles à traiter

2. LES SUJETS : mots-clés décrivant le sujet principal (ex: "produit maquillage", "livraison", "remboursement", etc.)

Réponds UNIQUEMENT en JSON avec cette structure exacte :
{
  "categories": ["categorie1", "categorie2"],
  "subjects": ["sujet1", "sujet2"]
}

Conversation à analyser :`

// resultSchema validates the shape of the model's JSON reply before it is
// trusted as a Result.
const resultSchema = `{
	"type": "object",
	"required": ["categories", "subjects"],
	"properties": {
		"categories": {"type": "array", "items": {"type": "string"}},
		"subjects": {"type": "array", "items": {"type": "string"}}
	}
}`

// OpenAI is a Classifier backed by an OpenAI-compatible chat completions
// endpoint.
type OpenAI struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenAI creates a classifier against the given API base URL. An empty
// model selects the default.
func NewOpenAI(baseURL, apiKey, model string, logger *slog.Logger) *OpenAI {
	if model == "" {
		model = defaultModel
	}

	return &OpenAI{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.With("module", "classifier"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify submits the transcript with the fixed categorisation prompt and
// parses the model's JSON verdict.
func (o *OpenAI) Classify(ctx context.Context, transcript string) (*Result, error) {
	payload := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisPrompt},
			{Role: "user", Content: transcript},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			o.logger.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		o.logger.Error("Classification service returned an error",
			"status", resp.StatusCode, "body", string(errBody))

		return nil, fmt.Errorf("completion request failed with status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrMalformedResponse)
	}

	return parseResult(completion.Choices[0].Message.Content)
}

// parseResult validates the model output against the expected schema before
// decoding it.
func parseResult(content string) (*Result, error) {
	validation, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(resultSchema),
		gojsonschema.NewStringLoader(content),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if !validation.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, validation.Errors()[0].String())
	}

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return &result, nil
}
