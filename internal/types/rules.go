// internal/types/rules.go
package types

import (
	"encoding/json"
	"fmt"
)

/*
 * Domain types for rule evaluation.
 *
 * Provides RuleSet, Rule, Condition, and Outcome structures used by
 * internal/rules for matching and composition. These types are wire-format
 * aware: Condition and Outcome carry custom JSON unmarshaling because the
 * declarative source mixes literals with range objects and allows arbitrary
 * auxiliary keys in then clauses.
 *
 * Key types:
 *   - RuleSet: required fields, missing-field prompts, prioritized rules
 *   - Rule: id + priority + conjunctive when clause + then outcome
 *   - Condition: tagged union of equality literal and {min,max} range
 *   - Outcome: four base decision fields plus an open auxiliary-key map
 *
 * Immutability: a loaded RuleSet is never mutated by the engine; it may be
 * cached and shared across concurrent requests without synchronization.
 */

// RuleSet is the declarative bundle for one business process.
type RuleSet struct {
	RequiredFields      []string            `json:"required_fields"`
	MissingInfoBehavior MissingInfoBehavior `json:"missing_info_behavior"`
	Rules               []Rule              `json:"rules"`
}

// MissingInfoBehavior configures the NEED_INFO response: the status label to
// report and one question prompt per required field.
type MissingInfoBehavior struct {
	Status    string            `json:"status"`
	Questions map[string]string `json:"questions"`
}

// Rule is a single prioritized business rule. Higher priority evaluates
// first; ties are broken by declaration order (stable sort).
type Rule struct {
	ID       string               `json:"id"`
	Priority int                  `json:"priority"`
	When     map[string]Condition `json:"when"`
	Then     Outcome              `json:"then"`
}

// Condition is either an equality constraint (any JSON literal) or a range
// constraint with optional numeric bounds. A JSON object is always a range;
// anything else is an equality literal.
type Condition struct {
	Equals  any
	Min     *float64
	Max     *float64
	IsRange bool
}

// UnmarshalJSON decodes the two condition shapes. An object with neither
// bound is a valid range that passes for any non-missing value.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		c.Equals = raw
		return nil
	}

	c.IsRange = true
	if v, present := obj["min"]; present {
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("condition min must be a number, got %T", v)
		}
		c.Min = &f
	}
	if v, present := obj["max"]; present {
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("condition max must be a number, got %T", v)
		}
		c.Max = &f
	}
	return nil
}

// MarshalJSON restores the declarative wire shape.
func (c Condition) MarshalJSON() ([]byte, error) {
	if !c.IsRange {
		return json.Marshal(c.Equals)
	}
	obj := map[string]any{}
	if c.Min != nil {
		obj["min"] = *c.Min
	}
	if c.Max != nil {
		obj["max"] = *c.Max
	}
	return json.Marshal(obj)
}

// Outcome is a rule's then clause: the four base decision fields plus any
// auxiliary keys, which are preserved verbatim in Extra for the composer's
// merge pass. Outcome schemas are open on purpose: new flags appear in rule
// files without code changes.
type Outcome struct {
	Decision       string
	StopAllowed    *bool
	AllowedActions []string
	Reason         string
	Extra          map[string]any
}

// Base outcome keys recognized by the composer; everything else is auxiliary.
const (
	outcomeKeyDecision       = "decision"
	outcomeKeyStopAllowed    = "stop_allowed"
	outcomeKeyAllowedActions = "allowed_actions"
	outcomeKeyReason         = "reason"
)

// UnmarshalJSON splits known base fields from auxiliary keys.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, val := range raw {
		switch key {
		case outcomeKeyDecision:
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("then.decision must be a string, got %T", val)
			}
			o.Decision = s
		case outcomeKeyStopAllowed:
			if val == nil {
				o.StopAllowed = nil
				continue
			}
			b, ok := val.(bool)
			if !ok {
				return fmt.Errorf("then.stop_allowed must be a boolean or null, got %T", val)
			}
			o.StopAllowed = &b
		case outcomeKeyAllowedActions:
			arr, ok := val.([]any)
			if !ok {
				return fmt.Errorf("then.allowed_actions must be an array, got %T", val)
			}
			actions := make([]string, 0, len(arr))
			for _, a := range arr {
				s, ok := a.(string)
				if !ok {
					return fmt.Errorf("then.allowed_actions entries must be strings, got %T", a)
				}
				actions = append(actions, s)
			}
			o.AllowedActions = actions
		case outcomeKeyReason:
			s, ok := val.(string)
			if !ok {
				return fmt.Errorf("then.reason must be a string, got %T", val)
			}
			o.Reason = s
		default:
			if o.Extra == nil {
				o.Extra = make(map[string]any)
			}
			o.Extra[key] = val
		}
	}
	return nil
}

// MarshalJSON restores the flat wire shape with auxiliary keys inlined.
func (o Outcome) MarshalJSON() ([]byte, error) {
	raw := make(map[string]any, 4+len(o.Extra))
	raw[outcomeKeyDecision] = o.Decision
	if o.StopAllowed != nil {
		raw[outcomeKeyStopAllowed] = *o.StopAllowed
	} else {
		raw[outcomeKeyStopAllowed] = nil
	}
	actions := o.AllowedActions
	if actions == nil {
		actions = []string{}
	}
	raw[outcomeKeyAllowedActions] = actions
	raw[outcomeKeyReason] = o.Reason
	for k, v := range o.Extra {
		raw[k] = v
	}
	return json.Marshal(raw)
}
