// internal/rules/condition.go
package rules

import "github.com/aquaflow/copilot/internal/types"

/*
 * Single-condition evaluation.
 *
 * Evaluates one field constraint (equality literal or numeric range) against
 * one context value.
 *
 * Missing values: a missing value (nil, "", "null", "desconocido") never
 * satisfies any condition, including a range with no lower bound. Absence is
 * handled by the missing-field gate when the field is declared required;
 * here it simply fails the constraint.
 *
 * Equality is type-sensitive: the string "3" never equals the number 3.
 * Numeric widths are tolerated (int vs float64 from different decoders
 * compare as numbers) because JSON and Go literals disagree on the default
 * numeric type.
 *
 * Range constraints compare numerically only; a non-numeric value fails a
 * bounded range. A range object with neither bound always passes for a
 * non-missing value.
 */

// EvaluateCondition checks a single condition against a context value.
func EvaluateCondition(cond types.Condition, value any) bool {
	if types.Missing(value) {
		return false
	}

	if !cond.IsRange {
		return equal(value, cond.Equals)
	}

	if cond.Min == nil && cond.Max == nil {
		return true
	}

	n, ok := toFloat64(value)
	if !ok {
		return false
	}
	if cond.Min != nil && n < *cond.Min {
		return false
	}
	if cond.Max != nil && n > *cond.Max {
		return false
	}
	return true
}

// equal performs equality comparison with numeric width tolerance.
// Cross-type string/number comparison is always false.
func equal(a, b any) bool {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	if oka || okb {
		return oka && okb && na == nb
	}
	return a == b
}

// toFloat64 converts value to float64 if it's a numeric type.
// Handles float64 from JSON unmarshaling plus int/int64 from Go callers.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
