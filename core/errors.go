package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeMissingAPIKey  = "MISSING_API_KEY"
	ErrCodeInvalidBaseURL = "INVALID_BASE_URL"
	ErrCodeInvalidDir     = "INVALID_DIR"
)

// ErrMissingAPIKey returns an error for a missing provider credential.
func ErrMissingAPIKey(envVar string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingAPIKey,
		Message: fmt.Sprintf("Missing provider credential %s", envVar),
		Action:  fmt.Sprintf("Set %s in your environment or .env file", envVar),
	}
}

// ErrInvalidBaseURL returns an error for a malformed provider base URL.
func ErrInvalidBaseURL(url string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidBaseURL,
		Message: fmt.Sprintf("Invalid DECART_BASE_URL '%s': %s", url, reason),
		Action:  "Set DECART_BASE_URL to a valid URL ending in a slash (e.g., https://api.decart.ai/v1/generate/)",
	}
}

// ErrInvalidDir returns an error for an unusable directory setting.
func ErrInvalidDir(key, dir string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidDir,
		Message: fmt.Sprintf("Cannot use %s directory '%s': %s", key, dir, reason),
		Action:  fmt.Sprintf("Set %s to a writable directory path", key),
	}
}
