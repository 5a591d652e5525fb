// internal/pipeline/merge.go
package pipeline

import "github.com/aquaflow/copilot/internal/types"

// Enrich merges classifier-extracted fields into the static customer
// context. Pure function: a new map is returned, inputs are untouched.
//
// System-of-record data always wins over inferred data: an extracted value
// is copied only when it is itself non-missing AND the static value for that
// field is missing (nil, "", "null", "desconocido"). A present static value
// is never overwritten.
func Enrich(static types.CustomerContext, extracted types.CustomerContext) types.CustomerContext {
	enriched := static.Clone()
	for field, value := range extracted {
		if types.Missing(value) {
			continue
		}
		if types.Missing(enriched[field]) {
			enriched[field] = value
		}
	}
	return enriched
}
