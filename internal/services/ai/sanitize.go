package ai

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPreviewLength is the maximum length for preview strings in logs
	MaxPreviewLength = 200
	// MaxDebugContentLength is the maximum length for full debug previews
	MaxDebugContentLength = 10000
	// RedactedValue is the value used to replace sensitive data
	RedactedValue = "[REDACTED]"
)

// SanitizeAPIKey sanitizes an API key for logging
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return RedactedValue
	}
	return apiKey[:4] + RedactedValue + apiKey[len(apiKey)-4:]
}

// SanitizePrompt creates a safe preview of a prompt for logging.
// Even in fullLog mode the content is sanitized to prevent log injection.
func SanitizePrompt(prompt string, fullLog bool) string {
	if prompt == "" {
		return ""
	}

	maxLen := MaxPreviewLength
	if fullLog {
		maxLen = MaxDebugContentLength
	}

	return sanitizeStringForLogging(prompt, maxLen)
}

// SanitizeResponse creates a safe preview of a response for logging
func SanitizeResponse(response string, fullLog bool) string {
	if response == "" {
		return ""
	}

	maxLen := MaxPreviewLength
	if fullLog {
		maxLen = MaxDebugContentLength
	}

	return sanitizeStringForLogging(response, maxLen)
}

// sanitizeStringForLogging removes control characters, validates UTF-8, and truncates
func sanitizeStringForLogging(s string, maxLen int) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}

	return s
}
