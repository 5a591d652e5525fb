// internal/rules/gate.go
package rules

import "github.com/aquaflow/copilot/internal/types"

// CheckRequired iterates the ruleset's required fields in declared order and
// returns a NEED_INFO decision for the first one missing from the context,
// carrying that field's configured question text. Returns nil when every
// required field is present — only then may rule matching proceed.
//
// First-missing-field-wins keeps the outcome stable and reproducible for
// identical inputs regardless of how many fields are absent.
func CheckRequired(rs *types.RuleSet, ctx types.CustomerContext) *types.Decision {
	for _, field := range rs.RequiredFields {
		if !types.Missing(ctx[field]) {
			continue
		}
		behavior := rs.MissingInfoBehavior.Status
		if behavior == "" {
			behavior = types.StateNeedInfo
		}
		return &types.Decision{
			Status:       types.StateNeedInfo,
			MissingField: field,
			Behavior:     behavior,
			QuestionData: rs.MissingInfoBehavior.Questions[field],
		}
	}
	return nil
}
