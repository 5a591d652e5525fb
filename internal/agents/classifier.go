// internal/agents/classifier.go
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aquaflow/copilot/internal/types"
	"github.com/sirupsen/logrus"
)

/*
 * Process classifier (router).
 *
 * Takes the ordered customer messages and returns a process label, a
 * confidence score, and fields extracted from the conversation. The model
 * runs at temperature 0 for classification stability.
 *
 * Degradation contract: any failure (call error, timeout, unparsable
 * output) yields {process: UNKNOWN, confidence: 0, extracted_data: {}}
 * rather than propagating. The pipeline treats that result as a normal
 * low-confidence classification.
 */

// Router classifies conversations into business processes.
type Router struct {
	model   ChatModel
	timeout time.Duration
	log     *logrus.Logger
}

// NewRouter creates the classifier collaborator. Each call is bounded by
// the given timeout.
func NewRouter(model ChatModel, timeout time.Duration, log *logrus.Logger) *Router {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Router{model: model, timeout: timeout, log: log}
}

var classificationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"process":    map[string]any{"type": "string"},
		"confidence": map[string]any{"type": "number"},
		"extracted_data": map[string]any{
			"type":                 "object",
			"additionalProperties": true,
		},
	},
	"required":             []string{"process", "confidence", "extracted_data"},
	"additionalProperties": false,
}

// Classify analyzes the conversation and detects which process applies.
func (r *Router) Classify(ctx context.Context, messages []string) (types.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var conversation strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&conversation, "Cliente: %s\n", msg)
	}

	raw, err := r.model.Complete(ctx, ChatRequest{
		System:      classifierSystemPrompt,
		User:        fmt.Sprintf("Analiza esta conversación y detecta el proceso:\n\n%s\nResponde en JSON:", conversation.String()),
		Temperature: 0,
		Schema:      classificationSchema,
		SchemaName:  "process_detection",
	})
	if err != nil {
		r.log.WithError(err).Warn("classifier call failed, degrading to UNKNOWN")
		return types.UnknownClassification(), nil
	}

	var c types.Classification
	if err := json.Unmarshal(extractJSON(raw), &c); err != nil {
		r.log.WithError(err).Warn("classifier output unparsable, degrading to UNKNOWN")
		return types.UnknownClassification(), nil
	}
	if c.Process == "" {
		return types.UnknownClassification(), nil
	}
	if c.ExtractedData == nil {
		c.ExtractedData = types.CustomerContext{}
	}
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	return c, nil
}

// extractJSON strips Markdown code fences some models wrap around JSON
// output. Returns the input unchanged when no fence is present.
func extractJSON(raw string) []byte {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return []byte(s)
}
