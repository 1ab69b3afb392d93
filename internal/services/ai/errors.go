package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError represents an error from the AI provider API
type APIError struct {
	Message    string
	Type       string
	Code       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}

	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

// ExtractAPIError extracts API error details from an error.
// The OpenAI SDK often embeds JSON in the error message; pull out message,
// type and code when present so logs carry more than an opaque string.
func ExtractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if !strings.Contains(errStr, "429") {
		return nil
	}

	apiErr := &APIError{
		StatusCode: 429,
		Message:    errStr,
		Type:       "rate_limit_error",
	}

	if jsonStart := strings.Index(errStr, "{"); jsonStart != -1 {
		jsonStr := errStr[jsonStart:]
		if jsonEnd := strings.LastIndex(jsonStr, "}"); jsonEnd != -1 {
			jsonStr = jsonStr[:jsonEnd+1]
			var errorData struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			}
			if json.Unmarshal([]byte(jsonStr), &errorData) == nil {
				apiErr.Message = errorData.Message
				apiErr.Type = errorData.Type
				apiErr.Code = errorData.Code
			}
		}
	}

	return apiErr
}
