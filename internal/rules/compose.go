// internal/rules/compose.go
package rules

import (
	"sort"

	"github.com/aquaflow/copilot/internal/types"
)

/*
 * Decision composition.
 *
 * Selects all matching rules in priority order and merges them into one
 * consolidated decision.
 *
 * Algorithm:
 *   1. Stable-sort rules by priority descending (ties keep declaration order)
 *   2. Collect every matching rule, still in sorted order
 *   3. Empty matched list -> sentinel no_match decision
 *   4. Highest-priority match seeds the base fields; reason defaults to
 *      "rule_<id>" when the then clause omits it
 *   5. Merge pass over the matched list in sorted order writes every
 *      auxiliary key into the decision, later assignments overwriting
 *      earlier ones
 *
 * Step 5 means a conflicting auxiliary flag ends up with the value from the
 * LOWEST-priority matching rule that declares it. That ordering is part of
 * the compatibility contract with existing rule files; see DESIGN.md before
 * changing it.
 *
 * Why stable sort: equal-priority rules must compose identically across runs
 * for identical inputs. The input slice is never mutated; sorting happens on
 * a copy so the loaded RuleSet stays immutable.
 */

// Compose evaluates every rule of the set against the context and returns
// the consolidated decision. Required fields must already have been checked.
func Compose(rs *types.RuleSet, ctx types.CustomerContext) types.Decision {
	ordered := make([]types.Rule, len(rs.Rules))
	copy(ordered, rs.Rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	var matched []types.Rule
	for _, rule := range ordered {
		if Matches(rule, ctx) {
			matched = append(matched, rule)
		}
	}

	if len(matched) == 0 {
		return types.NoMatchDecision()
	}

	primary := matched[0]
	reason := primary.Then.Reason
	if reason == "" {
		reason = "rule_" + primary.ID
	}

	decision := types.Decision{
		Status:         types.StateRecommendation,
		Decision:       primary.Then.Decision,
		StopAllowed:    primary.Then.StopAllowed,
		AllowedActions: primary.Then.AllowedActions,
		Reason:         reason,
	}

	for _, rule := range matched {
		for key, val := range rule.Then.Extra {
			if decision.Extra == nil {
				decision.Extra = make(map[string]any)
			}
			decision.Extra[key] = val
		}
	}

	return decision
}
