// internal/rules/condition_test.go
package rules

import (
	"testing"

	"github.com/aquaflow/copilot/internal/types"
)

func eq(v any) types.Condition {
	return types.Condition{Equals: v}
}

func rng(min, max *float64) types.Condition {
	return types.Condition{IsRange: true, Min: min, Max: max}
}

func f(v float64) *float64 {
	return &v
}

func TestEvaluateCondition_Equality(t *testing.T) {
	tests := []struct {
		name  string
		cond  types.Condition
		value any
		want  bool
	}{
		{"string match", eq("Ahorro"), "Ahorro", true},
		{"string mismatch", eq("Ahorro"), "Premium", false},
		{"number match", eq(float64(3)), float64(3), true},
		{"number mismatch", eq(float64(3)), float64(4), false},
		{"int context value against json number", eq(float64(3)), 3, true},
		{"bool match", eq(true), true, true},
		{"bool mismatch", eq(true), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateCondition(tt.cond, tt.value); got != tt.want {
				t.Errorf("EvaluateCondition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateCondition_StringNeverEqualsNumber(t *testing.T) {
	if EvaluateCondition(eq(float64(3)), "3") {
		t.Errorf(`EvaluateCondition(3, "3") = true, want false`)
	}
	if EvaluateCondition(eq("3"), float64(3)) {
		t.Errorf(`EvaluateCondition("3", 3) = true, want false`)
	}
}

func TestEvaluateCondition_MissingNeverMatches(t *testing.T) {
	missing := []any{nil, "", "null", "desconocido"}

	for _, value := range missing {
		if EvaluateCondition(eq(value), value) {
			t.Errorf("equality against missing value %v matched, want no match", value)
		}
		// A range with no lower bound still rejects a missing value
		if EvaluateCondition(rng(nil, f(10)), value) {
			t.Errorf("range against missing value %v matched, want no match", value)
		}
		if EvaluateCondition(rng(nil, nil), value) {
			t.Errorf("unbounded range against missing value %v matched, want no match", value)
		}
	}
}

func TestEvaluateCondition_Range(t *testing.T) {
	tests := []struct {
		name  string
		cond  types.Condition
		value any
		want  bool
	}{
		{"min inclusive at bound", rng(f(4), nil), float64(4), true},
		{"min below bound", rng(f(4), nil), 3.9, false},
		{"max inclusive at bound", rng(nil, f(1)), float64(1), true},
		{"max above bound", rng(nil, f(1)), float64(2), false},
		{"both bounds inside", rng(f(1), f(5)), float64(3), true},
		{"both bounds outside", rng(f(1), f(5)), float64(6), false},
		{"no bounds passes any present value", rng(nil, nil), "whatever", true},
		{"non-numeric fails bounded range", rng(f(1), nil), "high", false},
		{"int value against float bound", rng(f(4), nil), 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateCondition(tt.cond, tt.value); got != tt.want {
				t.Errorf("EvaluateCondition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatches_Conjunction(t *testing.T) {
	rule := types.Rule{
		ID:       "r1",
		Priority: 10,
		When: map[string]types.Condition{
			"motivo": eq("exceso_agua"),
			"plan":   eq("Ahorro"),
		},
	}

	ctx := types.CustomerContext{"motivo": "exceso_agua", "plan": "Ahorro"}
	if !Matches(rule, ctx) {
		t.Errorf("Matches() = false, want true when every condition holds")
	}

	ctx["plan"] = "Premium"
	if Matches(rule, ctx) {
		t.Errorf("Matches() = true, want false when one condition fails")
	}

	delete(ctx, "plan")
	if Matches(rule, ctx) {
		t.Errorf("Matches() = true, want false when a conditioned field is absent")
	}
}

func TestMatches_EmptyWhen(t *testing.T) {
	rule := types.Rule{ID: "r1", Priority: 10}
	if !Matches(rule, types.CustomerContext{}) {
		t.Errorf("Matches() = false, want true for a rule with no conditions")
	}
}
