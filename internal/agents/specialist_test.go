// internal/agents/specialist_test.go
package agents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aquaflow/copilot/internal/types"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy_stop_reparto.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write policy: %v", err)
	}
	return path
}

func testDecision() types.Decision {
	stop := false
	return types.Decision{
		Status:         types.StateRecommendation,
		Decision:       "reconduccion",
		StopAllowed:    &stop,
		AllowedActions: []string{"oferta_cafe"},
		Reason:         "exceso_agua_plan_ahorro",
	}
}

func TestNewPolicySpecialist_MissingPolicy(t *testing.T) {
	_, err := NewPolicySpecialist("STOP_REPARTO", "/no/such/policy.txt", &fakeModel{}, time.Second, testLogger())
	if err == nil {
		t.Errorf("NewPolicySpecialist() error = nil, want error for missing policy file")
	}
}

func TestRecommend_ParsesModelOutput(t *testing.T) {
	model := &fakeModel{response: `{
		"titulo": "Reconducción por exceso de agua",
		"objetivo": "Retener al cliente",
		"stop_permitido": false,
		"speech_sugerido": "Entiendo su situación...",
		"siguiente_paso": "Ofrecer café",
		"gestion_finalizada": false
	}`}

	specialist, err := NewPolicySpecialist("STOP_REPARTO", writePolicy(t, "MANUAL DE PRUEBA"), model, time.Second, testLogger())
	if err != nil {
		t.Fatalf("NewPolicySpecialist() error = %v, want nil", err)
	}

	rec, err := specialist.Recommend(context.Background(), []string{"tengo mucha agua"}, types.CustomerContext{"plan": "Ahorro"}, testDecision())
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}

	if rec.Titulo != "Reconducción por exceso de agua" {
		t.Errorf("Titulo = %q, want the generated title", rec.Titulo)
	}
	if rec.StopPermitido {
		t.Errorf("StopPermitido = true, want false")
	}
	if rec.GestionFinalizada {
		t.Errorf("GestionFinalizada = true, want false")
	}
}

func TestRecommend_PromptCarriesPolicyAndDecision(t *testing.T) {
	model := &fakeModel{response: `{"titulo": "t", "objetivo": "o", "stop_permitido": false, "speech_sugerido": "s", "siguiente_paso": "n", "gestion_finalizada": false}`}

	specialist, err := NewPolicySpecialist("STOP_REPARTO", writePolicy(t, "TEXTO UNICO DEL MANUAL"), model, time.Second, testLogger())
	if err != nil {
		t.Fatalf("NewPolicySpecialist() error = %v, want nil", err)
	}

	if _, err := specialist.Recommend(context.Background(), []string{"hola"}, types.CustomerContext{}, testDecision()); err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}

	if !strings.Contains(model.gotReq.System, "TEXTO UNICO DEL MANUAL") {
		t.Errorf("system prompt missing the policy text")
	}
	if !strings.Contains(model.gotReq.System, "exceso_agua_plan_ahorro") {
		t.Errorf("system prompt missing the rules decision")
	}
	if model.gotReq.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", model.gotReq.Temperature)
	}
}

func TestRecommend_ChannelSelection(t *testing.T) {
	tests := []struct {
		name    string
		context types.CustomerContext
		want    string
	}{
		{"explicit channel", types.CustomerContext{"canal": "Telefono"}, "Telefono"},
		{"default channel", types.CustomerContext{}, "Chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{response: `{"titulo": "t", "objetivo": "o", "stop_permitido": false, "speech_sugerido": "s", "siguiente_paso": "n", "gestion_finalizada": false}`}
			specialist, err := NewPolicySpecialist("STOP_REPARTO", writePolicy(t, "manual"), model, time.Second, testLogger())
			if err != nil {
				t.Fatalf("NewPolicySpecialist() error = %v, want nil", err)
			}

			if _, err := specialist.Recommend(context.Background(), []string{"hola"}, tt.context, testDecision()); err != nil {
				t.Fatalf("Recommend() error = %v, want nil", err)
			}
			if !strings.Contains(model.gotReq.User, "para el canal "+tt.want) {
				t.Errorf("prompt missing channel %q", tt.want)
			}
		})
	}
}

func TestRecommend_FailuresPropagate(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"call error", &fakeModel{err: errors.New("backend down")}},
		{"unparsable output", &fakeModel{response: "no soy JSON"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specialist, err := NewPolicySpecialist("STOP_REPARTO", writePolicy(t, "manual"), tt.model, time.Second, testLogger())
			if err != nil {
				t.Fatalf("NewPolicySpecialist() error = %v, want nil", err)
			}

			if _, err := specialist.Recommend(context.Background(), []string{"hola"}, types.CustomerContext{}, testDecision()); err == nil {
				t.Errorf("Recommend() error = nil, want error so the pipeline can substitute the fallback")
			}
		})
	}
}
