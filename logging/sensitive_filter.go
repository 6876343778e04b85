package logging

import (
	"regexp"
	"strings"
)

// RedactedPlaceholder is the string used to replace sensitive data
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns contains compiled regex patterns for detecting sensitive
// data inside string values. Compiled once at package initialization.
var sensitivePatterns = []*regexp.Regexp{
	// Generic long hex keys (the Decart key format, among others)
	regexp.MustCompile(`(?i)([a-f0-9]{32,})`),
	// Bearer tokens
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{20,})`),
	// Header-style key assignments (X-API-KEY: ...)
	regexp.MustCompile(`(?i)(x-api-key\s*[:=]\s*[^\s,;]{8,})`),
	// Generic secret assignments
	regexp.MustCompile(`(?i)(password\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(secret\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(api_key\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(apikey\s*[:=]\s*[^\s,;]{8,})`),
}

// sensitiveFieldMarkers are substrings of field names that indicate the
// field value is a credential and must never be logged.
var sensitiveFieldMarkers = []string{
	"DECART_API_KEY",
	"X-API-KEY",
	"PASSWORD",
	"SECRET",
	"TOKEN",
	"API_KEY",
	"APIKEY",
}

// RedactSensitiveData scans a string value and redacts any detected
// sensitive data. This is a pure function.
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}

	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// RedactField redacts a field value if the field name indicates sensitive
// data, and otherwise scans the value itself.
//
// Example:
//
//	RedactField("DECART_API_KEY", "abc123…")  // "[REDACTED]"
//	RedactField("operation", "lucy-pro-t2i") // unchanged
func RedactField(fieldName, fieldValue string) string {
	if IsSensitiveField(fieldName) {
		return RedactedPlaceholder
	}
	return RedactSensitiveData(fieldValue)
}

// IsSensitiveField returns true if the field name indicates sensitive data.
// Only the name is examined, not the value.
func IsSensitiveField(fieldName string) bool {
	upperName := strings.ToUpper(fieldName)
	for _, marker := range sensitiveFieldMarkers {
		if strings.Contains(upperName, marker) {
			return true
		}
	}
	return false
}
