// Package types provides domain models shared across copilot components.
//
// Zero-dependency design: the evaluation-facing types use only encoding/json
// so the rules engine stays free of transport and SDK imports. ID utilities
// in ids.go import uuid but are isolated for selective inclusion.
package types

// CustomerContext maps customer attribute names to values. Keys are not
// statically declared; any rule may reference any key. Values are the JSON
// scalar types: string, float64, bool, or nil.
type CustomerContext map[string]any

// Clone returns a shallow copy of the context. Values are JSON scalars, so a
// shallow copy is sufficient for mutation isolation.
func (c CustomerContext) Clone() CustomerContext {
	out := make(CustomerContext, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Missing reports whether a context value counts as absent for rule
// evaluation: nil, the empty string, the literal string "null", or the
// placeholder "desconocido" that upstream systems emit for unknown fields.
func Missing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	return s == "" || s == "null" || s == "desconocido"
}

// Pipeline states derived per request. SOCIAL and UNKNOWN short-circuit
// before rule evaluation; NEED_INFO and RECOMMENDATION come from the engine.
const (
	StateSocial         = "SOCIAL"
	StateUnknown        = "UNKNOWN"
	StateNeedInfo       = "NEED_INFO"
	StateRecommendation = "RECOMMENDATION"
)

// ConfidenceThreshold is the exclusive lower bound on classifier confidence
// for routing into rule evaluation. Confidence exactly at the threshold
// proceeds; anything below falls back to UNKNOWN.
const ConfidenceThreshold = 0.30

// Classification is the output of the process classifier collaborator.
type Classification struct {
	Process       string          `json:"process"`
	Confidence    float64         `json:"confidence"`
	ExtractedData CustomerContext `json:"extracted_data"`
}

// UnknownClassification is the degraded classifier result substituted when
// the upstream call fails or returns unparsable output.
func UnknownClassification() Classification {
	return Classification{
		Process:       StateUnknown,
		Confidence:    0,
		ExtractedData: CustomerContext{},
	}
}

// Recommendation is the specialist collaborator payload shown to the human
// agent. Field names follow the operational wire format.
type Recommendation struct {
	Titulo            string `json:"titulo"`
	Objetivo          string `json:"objetivo"`
	StopPermitido     bool   `json:"stop_permitido"`
	SpeechSugerido    string `json:"speech_sugerido"`
	SiguientePaso     string `json:"siguiente_paso"`
	GestionFinalizada bool   `json:"gestion_finalizada"`
}

// FallbackRecommendation is the fixed payload substituted when the specialist
// collaborator fails. StopPermitido is carried over from the rules decision
// so the human agent still sees the binding constraint.
func FallbackRecommendation(d Decision) Recommendation {
	stopAllowed := false
	if d.StopAllowed != nil {
		stopAllowed = *d.StopAllowed
	}
	return Recommendation{
		Titulo:         "Error al generar recomendación",
		Objetivo:       "Error",
		StopPermitido:  stopAllowed,
		SpeechSugerido: "Error en la generación. Por favor, revisa las reglas manualmente.",
		SiguientePaso:  "Contactar con soporte técnico",
	}
}
