// internal/agents/specialist.go
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aquaflow/copilot/internal/types"
	"github.com/sirupsen/logrus"
)

/*
 * Process specialist.
 *
 * Generates the structured recommendation a human agent acts on. The policy
 * manual for the process is loaded once at construction and quoted verbatim
 * into the system prompt; the rules decision is injected as a binding
 * constraint the model must not contradict.
 *
 * Temperature 0.7 gives natural variation in the suggested speech while the
 * structured fields stay schema-constrained.
 *
 * Degradation: a failed call or unparsable output returns an error to the
 * orchestrator, which substitutes the fixed fallback payload. The specialist
 * itself never fabricates guidance.
 */

// PolicySpecialist is a policy-manual-driven specialist for one process.
type PolicySpecialist struct {
	process string
	policy  string
	model   ChatModel
	timeout time.Duration
	log     *logrus.Logger
}

// NewPolicySpecialist loads the policy document and builds the specialist.
func NewPolicySpecialist(process, policyPath string, model ChatModel, timeout time.Duration, log *logrus.Logger) (*PolicySpecialist, error) {
	policy, err := os.ReadFile(policyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy for %s: %w", process, err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PolicySpecialist{
		process: process,
		policy:  string(policy),
		model:   model,
		timeout: timeout,
		log:     log,
	}, nil
}

var recommendationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"titulo":             map[string]any{"type": "string"},
		"objetivo":           map[string]any{"type": "string"},
		"stop_permitido":     map[string]any{"type": "boolean"},
		"speech_sugerido":    map[string]any{"type": "string"},
		"siguiente_paso":     map[string]any{"type": "string"},
		"gestion_finalizada": map[string]any{"type": "boolean"},
	},
	"required":             []string{"titulo", "objetivo", "stop_permitido", "speech_sugerido", "siguiente_paso", "gestion_finalizada"},
	"additionalProperties": false,
}

// Recommend generates the structured guidance for the conversation, the
// enriched context, and the binding rules decision.
func (s *PolicySpecialist) Recommend(ctx context.Context, messages []string, enriched types.CustomerContext, decision types.Decision) (types.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	decisionJSON, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("failed to encode rules decision: %w", err)
	}
	contextJSON, err := json.MarshalIndent(enriched, "", "  ")
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("failed to encode customer context: %w", err)
	}

	var conversation strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&conversation, "Cliente: %s\n", msg)
	}

	channel, _ := enriched["canal"].(string)
	if channel == "" {
		channel = "Chat"
	}

	user := fmt.Sprintf(`CONVERSACIÓN ACTUAL:
%s
CONTEXTO DEL CLIENTE:
%s

Genera la recomendación estructurada para el canal %s.
Si es Telefono, usa BULLET POINTS Markdown.
Si es Chat, usa UN PÁRRAFO para copiar.
¿Se ha completado la gestión (el cliente aceptó)? Ajusta 'gestion_finalizada'.`, conversation.String(), contextJSON, channel)

	raw, err := s.model.Complete(ctx, ChatRequest{
		System:      fmt.Sprintf(specialistSystemPromptTemplate, s.policy, decisionJSON),
		User:        user,
		Temperature: 0.7,
		Schema:      recommendationSchema,
		SchemaName:  "agent_recommendation",
	})
	if err != nil {
		return types.Recommendation{}, fmt.Errorf("specialist %s call failed: %w", s.process, err)
	}

	var rec types.Recommendation
	if err := json.Unmarshal(extractJSON(raw), &rec); err != nil {
		return types.Recommendation{}, fmt.Errorf("specialist %s output unparsable: %w", s.process, err)
	}

	s.log.WithFields(logrus.Fields{
		"process":            s.process,
		"gestion_finalizada": rec.GestionFinalizada,
	}).Debug("recommendation generated")
	return rec, nil
}
