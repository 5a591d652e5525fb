// Package agents implements the LLM-backed collaborators of the analysis
// pipeline: the process classifier (router) and the per-process specialists.
// Both speak through the ChatModel interface so the pipeline core stays
// fully unit-testable with no network or model dependency.
package agents

import "context"

// ChatRequest is a single structured-output completion request.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64

	// Schema constrains the model to a JSON object shape. Backends that
	// support schema enforcement apply it; others rely on JSON response
	// mode plus prompt instructions.
	Schema     map[string]any
	SchemaName string
}

// ChatModel is one generative backend. Implementations must honor the
// context deadline; the agents wrap every call in a bounded timeout.
type ChatModel interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}
