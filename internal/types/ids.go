package types

import (
	"time"

	"github.com/google/uuid"
)

// TraceID represents a UUIDv7 per-request trace identifier.
// String alias enables type safety while maintaining JSON string
// serialization. UUIDv7 time-ordering ensures sequential IDs cluster in
// B-tree indexes of the audit log.
type TraceID string

// NewTraceID generates a UUIDv7 trace identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewTraceID() TraceID {
	return TraceID(uuid.Must(uuid.NewV7()).String())
}

// ParseTraceID validates and converts a string to TraceID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseTraceID(s string) (TraceID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return TraceID(s), nil
}

// TraceIDTime extracts the timestamp embedded in a UUIDv7 trace ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func TraceIDTime(id TraceID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
