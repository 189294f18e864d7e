// Package provider implements the embedding providers: the remote OpenAI API
// client, the local transformers model via hugot, and the selector that picks
// between them.
package provider

import "fmt"

// ProviderError describes a failed provider operation: network failure, auth
// failure, or a malformed response. Batch operations fail atomically: a
// ProviderError means no vector from that call may be used.
type ProviderError struct {
	op         string
	statusCode int
	message    string
	err        error
}

// NewProviderError creates a ProviderError.
func NewProviderError(op string, statusCode int, message string, err error) *ProviderError {
	return &ProviderError{
		op:         op,
		statusCode: statusCode,
		message:    message,
		err:        err,
	}
}

// Op returns the failed operation name.
func (e *ProviderError) Op() string { return e.op }

// StatusCode returns the HTTP status code, or 0 when not applicable.
func (e *ProviderError) StatusCode() int { return e.statusCode }

// Error implements error.
func (e *ProviderError) Error() string {
	if e.statusCode != 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.op, e.statusCode, e.message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.op, e.message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error { return e.err }

// ConfigError indicates an explicitly requested provider cannot be
// constructed, typically because a required credential is absent. It is
// surfaced immediately and never triggers a silent fallback.
type ConfigError struct {
	mode   string
	reason string
}

// NewConfigError creates a ConfigError.
func NewConfigError(mode, reason string) *ConfigError {
	return &ConfigError{mode: mode, reason: reason}
}

// Mode returns the requested provider mode.
func (e *ConfigError) Mode() string { return e.mode }

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q: %s", e.mode, e.reason)
}
