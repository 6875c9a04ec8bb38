package engine

import "fmt"

// The engine rejects bad input with one of three error kinds. Nothing is
// silently retried: every rejection carries enough detail for the caller to
// correct and resubmit.

// ConfigError marks missing or invalid template data. It is fatal for the
// operation: a battle with broken catalog references cannot start.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config error: " + e.Reason }

func ConfigErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError marks an illegal action: dead actor, insufficient MP,
// target outside the valid set, or a submission after the battle ended.
// The battle state is unchanged and the caller may retry with a corrected
// action.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid action: " + e.Reason }

func ValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// RuleViolation marks an action that is well-formed but not permitted by
// the battle rules, such as fleeing when escape is disallowed.
type RuleViolation struct {
	Reason string
}

func (e *RuleViolation) Error() string { return "rule violation: " + e.Reason }

func RuleViolationf(format string, args ...interface{}) *RuleViolation {
	return &RuleViolation{Reason: fmt.Sprintf(format, args...)}
}
