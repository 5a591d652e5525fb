// internal/agents/openai.go
package agents

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIModel is the ChatModel adapter for the OpenAI API.
type OpenAIModel struct {
	apiKey string
	model  string
}

// NewOpenAIModel creates an OpenAI-backed chat model.
func NewOpenAIModel(apiKey, model string) *OpenAIModel {
	return &OpenAIModel{apiKey: apiKey, model: model}
}

// Complete sends one completion request with strict JSON schema enforcement
// when a schema is provided.
func (m *OpenAIModel) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if m.apiKey == "" {
		return "", fmt.Errorf("openai backend has no API key")
	}

	client := openai.NewClient(
		option.WithAPIKey(m.apiKey),
	)

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(m.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}

	if req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = "structured_result"
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   name,
					Schema: any(req.Schema),
					Strict: openai.Bool(true),
				},
			},
		}
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
