// internal/types/decision.go
package types

import "encoding/json"

/*
 * Consolidated decision output of rule evaluation.
 *
 * One Decision type covers the three wire shapes the pipeline emits:
 *   - NEED_INFO: {status, missing_field, behavior, question_data}
 *   - RECOMMENDATION: {status, decision, stop_allowed, allowed_actions,
 *     reason, ...auxiliary keys}
 *   - informational (SOCIAL/UNKNOWN): {status, message}
 *
 * Custom MarshalJSON keeps the shapes disjoint so downstream consumers and
 * the specialist prompt see exactly the fields relevant to each status.
 */

// Decision is the deterministic output of rule evaluation for a context,
// or the fixed informational payload of a short-circuited pipeline state.
type Decision struct {
	Status string

	// NEED_INFO fields.
	MissingField string
	Behavior     string
	QuestionData string

	// RECOMMENDATION fields.
	Decision       string
	StopAllowed    *bool
	AllowedActions []string
	Reason         string
	Extra          map[string]any

	// Informational payload for SOCIAL and UNKNOWN states.
	Message string
}

// NoMatchDecision is the sentinel returned when no rule matched: a normal
// RECOMMENDATION outcome, not an error.
func NoMatchDecision() Decision {
	return Decision{
		Status:         StateRecommendation,
		Decision:       "no_match",
		StopAllowed:    nil,
		AllowedActions: []string{},
		Reason:         "no_rules_matched",
	}
}

// SocialDecision is the fixed payload for conversations classified as small
// talk; no rules are evaluated.
func SocialDecision() Decision {
	return Decision{
		Status:  StateSocial,
		Message: "Conversación social detectada",
	}
}

// UnknownDecision is the fixed payload for unclassified or low-confidence
// conversations.
func UnknownDecision() Decision {
	return Decision{
		Status:  StateUnknown,
		Message: "Esperando solicitud de negocio...",
	}
}

// MarshalJSON emits the status-specific wire shape.
func (d Decision) MarshalJSON() ([]byte, error) {
	switch d.Status {
	case StateNeedInfo:
		return json.Marshal(map[string]any{
			"status":        d.Status,
			"missing_field": d.MissingField,
			"behavior":      d.Behavior,
			"question_data": d.QuestionData,
		})
	case StateRecommendation:
		raw := make(map[string]any, 5+len(d.Extra))
		raw["status"] = d.Status
		raw["decision"] = d.Decision
		if d.StopAllowed != nil {
			raw["stop_allowed"] = *d.StopAllowed
		} else {
			raw["stop_allowed"] = nil
		}
		actions := d.AllowedActions
		if actions == nil {
			actions = []string{}
		}
		raw["allowed_actions"] = actions
		raw["reason"] = d.Reason
		for k, v := range d.Extra {
			raw[k] = v
		}
		return json.Marshal(raw)
	default:
		return json.Marshal(map[string]any{
			"status":  d.Status,
			"message": d.Message,
		})
	}
}

// UnmarshalJSON restores a Decision from its wire shape. Used by the audit
// log reader; evaluation never consumes serialized decisions.
func (d *Decision) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	status, _ := raw["status"].(string)
	d.Status = status

	switch status {
	case StateNeedInfo:
		d.MissingField, _ = raw["missing_field"].(string)
		d.Behavior, _ = raw["behavior"].(string)
		d.QuestionData, _ = raw["question_data"].(string)
	case StateRecommendation:
		d.Decision, _ = raw["decision"].(string)
		if b, ok := raw["stop_allowed"].(bool); ok {
			d.StopAllowed = &b
		}
		if arr, ok := raw["allowed_actions"].([]any); ok {
			actions := make([]string, 0, len(arr))
			for _, a := range arr {
				if s, ok := a.(string); ok {
					actions = append(actions, s)
				}
			}
			d.AllowedActions = actions
		}
		d.Reason, _ = raw["reason"].(string)
		for k, v := range raw {
			switch k {
			case "status", "decision", "stop_allowed", "allowed_actions", "reason":
			default:
				if d.Extra == nil {
					d.Extra = make(map[string]any)
				}
				d.Extra[k] = v
			}
		}
	default:
		d.Message, _ = raw["message"].(string)
	}
	return nil
}
