// internal/rules/match.go
package rules

import "github.com/aquaflow/copilot/internal/types"

// Matches reports whether every condition in the rule's when clause holds
// for the context. Conjunction only: disjunctive business logic is expressed
// as separate rules. Fields absent from the when clause are unconstrained.
func Matches(rule types.Rule, ctx types.CustomerContext) bool {
	for field, cond := range rule.When {
		if !EvaluateCondition(cond, ctx[field]) {
			return false
		}
	}
	return true
}
