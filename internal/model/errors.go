package model

import "fmt"

// ConfigError indicates an unknown format or profile identifier. It marks a
// programming error, never a user-correctable condition, and always aborts
// the current invoice.
type ConfigError struct {
	Kind  string // "format" or "profile"
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unknown %s identifier %q", e.Kind, e.Value)
}

// NewConfigError creates a new config error
func NewConfigError(kind, value string) *ConfigError {
	return &ConfigError{Kind: kind, Value: value}
}

// DateError indicates a date string that cannot be parsed unambiguously.
// Day/month order on a legal document is never guessed: ambiguous input
// aborts generation instead.
type DateError struct {
	Value   string
	Message string
	Cause   error
}

func (e *DateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("date %q: %s (%v)", e.Value, e.Message, e.Cause)
	}
	return fmt.Sprintf("date %q: %s", e.Value, e.Message)
}

func (e *DateError) Unwrap() error {
	return e.Cause
}

// NewDateError creates a new date error
func NewDateError(value, message string, cause error) *DateError {
	return &DateError{Value: value, Message: message, Cause: cause}
}
