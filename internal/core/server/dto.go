package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aquaflow/copilot/internal/types"
)

// AnalyzeRequest carries the conversation so far plus any data the CRM
// already knows about the customer.
type AnalyzeRequest struct {
	Messages        []string       `json:"messages"`
	CustomerContext map[string]any `json:"customer_context"`
}

func (r AnalyzeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Messages, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.CustomerContext, validation.Required, validation.Length(1, 0)),
	)
}

// AnalyzeResponse is the complete analysis: the classified process, the
// deterministic rules decision and, when the pipeline got that far, the
// generated recommendation.
type AnalyzeResponse struct {
	TraceID         string                `json:"trace_id"`
	Status          string                `json:"status"`
	Process         string                `json:"process"`
	Confidence      float64               `json:"confidence"`
	RulesDecision   types.Decision        `json:"rules_decision"`
	Recommendation  *types.Recommendation `json:"recommendation"`
	EnrichedContext types.CustomerContext `json:"enriched_context"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	ModelConfigured bool   `json:"model_configured"`
}

type TTSRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
}

func (r TTSRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required),
	)
}

// ErrorResponse is the body for every non-2xx answer.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
