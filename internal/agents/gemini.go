// internal/agents/gemini.go
package agents

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiModel is the ChatModel adapter for the Gemini API.
type GeminiModel struct {
	apiKey string
	model  string
}

// NewGeminiModel creates a Gemini-backed chat model.
func NewGeminiModel(apiKey, model string) *GeminiModel {
	return &GeminiModel{apiKey: apiKey, model: model}
}

// Complete sends one completion request in JSON response mode. Schema
// enforcement is handled by the response MIME type plus the prompt; the
// structured shapes used here are simple enough that Gemini follows them
// reliably at temperature 0.
func (m *GeminiModel) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if m.apiKey == "" {
		return "", fmt.Errorf("gemini backend has no API key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  m.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", err
	}

	temperature := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, "")
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.User}},
	}}

	result, err := client.Models.GenerateContent(ctx, m.model, contents, cfg)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
