// internal/core/db/store.go
package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aquaflow/copilot/internal/pipeline"
	"github.com/aquaflow/copilot/internal/types"
)

/*
 * Decision audit log.
 *
 * Records every completed analysis: trace ID, detected process, terminal
 * state, classifier confidence, and the serialized decision and enriched
 * context. Trace IDs are UUIDv7, so ordering by trace_id is chronological
 * and clusters inserts in B-tree pages.
 *
 * Writes are best-effort from the transport layer; the store never blocks
 * or fails an analysis response.
 */

// AuditStore persists analysis outcomes.
type AuditStore struct {
	queries *Queries
}

// NewAuditStore wraps the named-query layer.
func NewAuditStore(queries *Queries) *AuditStore {
	return &AuditStore{queries: queries}
}

// AuditEntry is one recorded analysis.
type AuditEntry struct {
	TraceID         string  `db:"trace_id" json:"trace_id"`
	CreatedAt       string  `db:"created_at" json:"created_at"`
	Process         string  `db:"process" json:"process"`
	Status          string  `db:"status" json:"status"`
	Confidence      float64 `db:"confidence" json:"confidence"`
	Decision        string  `db:"decision" json:"decision"`
	EnrichedContext string  `db:"enriched_context" json:"enriched_context"`
}

// Record inserts one analysis result.
func (s *AuditStore) Record(result pipeline.Result) error {
	decisionJSON, err := json.Marshal(result.RulesDecision)
	if err != nil {
		return fmt.Errorf("failed to encode decision: %w", err)
	}
	contextJSON, err := json.Marshal(result.EnrichedContext)
	if err != nil {
		return fmt.Errorf("failed to encode context: %w", err)
	}

	_, err = s.queries.Exec("insert-analysis",
		string(result.TraceID),
		time.Now().UTC().Format(time.RFC3339),
		result.Process,
		result.Status,
		result.Confidence,
		string(decisionJSON),
		string(contextJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (s *AuditStore) Recent(limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []AuditEntry
	if err := s.queries.Select("list-recent-analyses", &entries, limit); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return entries, nil
}

// Get returns one entry by trace ID. Wraps sql.ErrNoRows when the trace
// was never recorded.
func (s *AuditStore) Get(traceID types.TraceID) (*AuditEntry, error) {
	var entry AuditEntry
	if err := s.queries.Get("get-analysis", &entry, string(traceID)); err != nil {
		return nil, fmt.Errorf("failed to get analysis %s: %w", traceID, err)
	}
	return &entry, nil
}

// Count returns the total number of recorded analyses.
func (s *AuditStore) Count() (int, error) {
	var total int
	if err := s.queries.Get("count-analyses", &total); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return total, nil
}
