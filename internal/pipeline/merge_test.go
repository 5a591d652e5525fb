// internal/pipeline/merge_test.go
package pipeline

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/aquaflow/copilot/internal/types"
)

func TestEnrich_FillsMissingOnly(t *testing.T) {
	tests := []struct {
		name      string
		static    types.CustomerContext
		extracted types.CustomerContext
		field     string
		want      any
	}{
		{
			name:      "absent field filled",
			static:    types.CustomerContext{},
			extracted: types.CustomerContext{"motivo": "exceso_agua"},
			field:     "motivo",
			want:      "exceso_agua",
		},
		{
			name:      "nil filled",
			static:    types.CustomerContext{"motivo": nil},
			extracted: types.CustomerContext{"motivo": "exceso_agua"},
			field:     "motivo",
			want:      "exceso_agua",
		},
		{
			name:      "empty string filled",
			static:    types.CustomerContext{"motivo": ""},
			extracted: types.CustomerContext{"motivo": "exceso_agua"},
			field:     "motivo",
			want:      "exceso_agua",
		},
		{
			name:      "null literal filled",
			static:    types.CustomerContext{"motivo": "null"},
			extracted: types.CustomerContext{"motivo": "exceso_agua"},
			field:     "motivo",
			want:      "exceso_agua",
		},
		{
			name:      "desconocido literal filled",
			static:    types.CustomerContext{"motivo": "desconocido"},
			extracted: types.CustomerContext{"motivo": "exceso_agua"},
			field:     "motivo",
			want:      "exceso_agua",
		},
		{
			name:      "present value never overwritten",
			static:    types.CustomerContext{"plan": "Ahorro"},
			extracted: types.CustomerContext{"plan": "Premium"},
			field:     "plan",
			want:      "Ahorro",
		},
		{
			name:      "missing extracted value ignored",
			static:    types.CustomerContext{"plan": ""},
			extracted: types.CustomerContext{"plan": "desconocido"},
			field:     "plan",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enriched := Enrich(tt.static, tt.extracted)
			if got := enriched[tt.field]; got != tt.want {
				t.Errorf("enriched[%q] = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestEnrich_InputsUntouched(t *testing.T) {
	static := types.CustomerContext{"plan": "", "scoring": 4.5}
	extracted := types.CustomerContext{"plan": "Ahorro"}

	Enrich(static, extracted)

	if static["plan"] != "" {
		t.Errorf("static mutated: plan = %v, want empty string", static["plan"])
	}
	if extracted["plan"] != "Ahorro" {
		t.Errorf("extracted mutated: plan = %v, want Ahorro", extracted["plan"])
	}
}

// Property: enrichment is idempotent and system-of-record values survive any
// combination of extracted overlays.
func TestEnrich_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genValue := gen.OneConstOf("Ahorro", "Premium", "exceso_agua", "", "null", "desconocido")

	properties.Property("present static values survive enrichment", prop.ForAll(
		func(staticVal, extractedVal string) bool {
			static := types.CustomerContext{"campo": staticVal}
			enriched := Enrich(static, types.CustomerContext{"campo": extractedVal})
			if !types.Missing(staticVal) {
				return enriched["campo"] == staticVal
			}
			return true
		},
		genValue, genValue,
	))

	properties.Property("enriched context never contains a value absent from both inputs", prop.ForAll(
		func(staticVal, extractedVal string) bool {
			enriched := Enrich(
				types.CustomerContext{"campo": staticVal},
				types.CustomerContext{"campo": extractedVal},
			)
			got := enriched["campo"]
			return got == staticVal || got == extractedVal
		},
		genValue, genValue,
	))

	properties.Property("enrichment is idempotent", prop.ForAll(
		func(staticVal, extractedVal string) bool {
			extracted := types.CustomerContext{"campo": extractedVal}
			once := Enrich(types.CustomerContext{"campo": staticVal}, extracted)
			twice := Enrich(once, extracted)
			return twice["campo"] == once["campo"]
		},
		genValue, genValue,
	))

	properties.TestingRun(t)
}
