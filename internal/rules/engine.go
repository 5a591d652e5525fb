// internal/rules/engine.go
package rules

import "github.com/aquaflow/copilot/internal/types"

// Engine is the façade over the missing-field gate and the decision
// composer. It is a pure in-memory computation: no I/O, no locking, safe for
// concurrent use across requests.
type Engine struct {
	ruleset *types.RuleSet
}

// NewEngine creates an engine bound to one loaded ruleset.
func NewEngine(rs *types.RuleSet) *Engine {
	return &Engine{ruleset: rs}
}

// Evaluate runs the gate first and short-circuits with a NEED_INFO decision
// when a required field is absent; otherwise it delegates to the composer.
// "No rule matched" and "info missing" are first-class results, never
// errors.
func (e *Engine) Evaluate(ctx types.CustomerContext) types.Decision {
	if d := CheckRequired(e.ruleset, ctx); d != nil {
		return *d
	}
	return Compose(e.ruleset, ctx)
}
