package types

import "errors"

// Sentinel errors for copilot operations.
//
// MissingRequiredField and NoRuleMatched are deliberately absent: both are
// normal Decision outcomes, not errors.
var (
	// ErrConfigNotFound indicates no ruleset source exists for a detected
	// process. Fatal for the request; never silently defaulted.
	ErrConfigNotFound = errors.New("ruleset not found for process")

	// ErrMalformedRuleSet indicates a ruleset source violates the expected
	// schema. Fails fast at load time; never partially loaded.
	ErrMalformedRuleSet = errors.New("malformed ruleset")

	// ErrUnimplementedSpecialist indicates a process passed rule evaluation
	// but has no registered specialist. Configuration gap, not recoverable.
	ErrUnimplementedSpecialist = errors.New("specialist not implemented for process")

	// ErrEmptyMessages indicates an analysis request with no messages.
	ErrEmptyMessages = errors.New("no messages provided")

	// ErrEmptyContext indicates an analysis request with no customer context.
	ErrEmptyContext = errors.New("no customer context provided")
)
