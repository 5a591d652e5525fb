// internal/types/decision_test.go
package types

import (
	"encoding/json"
	"testing"
)

func TestMissing(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"null literal", "null", true},
		{"desconocido literal", "desconocido", true},
		{"zero number", float64(0), false},
		{"false", false, false},
		{"non-empty string", "Ahorro", false},
		{"whitespace string", " ", false},
		{"NULL uppercase is a value", "NULL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Missing(tt.value); got != tt.want {
				t.Errorf("Missing(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestDecision_MarshalNeedInfo(t *testing.T) {
	d := Decision{
		Status:       StateNeedInfo,
		MissingField: "plan",
		Behavior:     StateNeedInfo,
		QuestionData: "¿Qué plan tiene el cliente?",
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("round-trip error = %v", err)
	}
	if raw["status"] != StateNeedInfo || raw["missing_field"] != "plan" {
		t.Errorf("wire shape = %v, want status/missing_field", raw)
	}
	if _, present := raw["decision"]; present {
		t.Errorf("NEED_INFO shape leaked recommendation field decision")
	}
}

func TestDecision_MarshalRecommendation(t *testing.T) {
	stop := false
	d := Decision{
		Status:         StateRecommendation,
		Decision:       "reconduccion",
		StopAllowed:    &stop,
		AllowedActions: []string{"oferta_cafe"},
		Reason:         "exceso_agua",
		Extra:          map[string]any{"allow_stop_0euros": true},
	}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("round-trip error = %v", err)
	}
	if raw["decision"] != "reconduccion" || raw["stop_allowed"] != false {
		t.Errorf("wire shape = %v, want decision/stop_allowed", raw)
	}
	if raw["allow_stop_0euros"] != true {
		t.Errorf("auxiliary flag not inlined: %v", raw)
	}
	if _, present := raw["missing_field"]; present {
		t.Errorf("RECOMMENDATION shape leaked missing_field")
	}
}

func TestDecision_MarshalNoMatchNullStop(t *testing.T) {
	data, err := json.Marshal(NoMatchDecision())
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("round-trip error = %v", err)
	}
	if raw["decision"] != "no_match" {
		t.Errorf("decision = %v, want no_match", raw["decision"])
	}
	if v, present := raw["stop_allowed"]; !present || v != nil {
		t.Errorf("stop_allowed = %v (present=%v), want explicit null", v, present)
	}
	if actions, ok := raw["allowed_actions"].([]any); !ok || len(actions) != 0 {
		t.Errorf("allowed_actions = %v, want empty array", raw["allowed_actions"])
	}
}

func TestDecision_MarshalInformational(t *testing.T) {
	data, err := json.Marshal(SocialDecision())
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("round-trip error = %v", err)
	}
	if raw["status"] != StateSocial {
		t.Errorf("status = %v, want %v", raw["status"], StateSocial)
	}
	if raw["message"] == "" {
		t.Errorf("message is empty, want informational text")
	}
}

func TestDecision_RoundTrip(t *testing.T) {
	stop := true
	original := Decision{
		Status:         StateRecommendation,
		Decision:       "retencion",
		StopAllowed:    &stop,
		AllowedActions: []string{"stop_cuota", "reprogramacion_entrega"},
		Reason:         "ausencia_del_domicilio",
		Extra:          map[string]any{"allow_stop_0euros": true},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v, want nil", err)
	}

	var restored Decision
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error = %v, want nil", err)
	}

	if restored.Decision != original.Decision || restored.Reason != original.Reason {
		t.Errorf("restored = %+v, want %+v", restored, original)
	}
	if restored.StopAllowed == nil || !*restored.StopAllowed {
		t.Errorf("StopAllowed = %v, want true", restored.StopAllowed)
	}
	if restored.Extra["allow_stop_0euros"] != true {
		t.Errorf("Extra = %v, want auxiliary flag preserved", restored.Extra)
	}
}

func TestNewTraceID_SortableAndUnique(t *testing.T) {
	seen := make(map[TraceID]bool)
	var prev TraceID
	for i := 0; i < 100; i++ {
		id := NewTraceID()
		if seen[id] {
			t.Fatalf("duplicate trace id %s", id)
		}
		seen[id] = true
		if prev != "" && string(id) < string(prev) {
			// UUIDv7 is time-ordered; generation within one test is monotonic
			// at millisecond granularity, so strict regression means breakage
			t.Fatalf("trace id %s sorts before predecessor %s", id, prev)
		}
		prev = id
	}
}
