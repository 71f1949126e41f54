package ai

import (
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError means no provider can serve a call. Missing names the
// credential variables that would fix it.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("AI provider not configured. Please set %s.", e.Missing[0])
	}
	return "No AI provider configured. Please set at least one API key: " + strings.Join(e.Missing, ", ")
}

type ErrorKind string

const (
	ErrInvalidCredentials ErrorKind = "invalid_credentials"
	ErrRateLimited        ErrorKind = "rate_limited"
	ErrPaymentRequired    ErrorKind = "payment_required"
	ErrUnknown            ErrorKind = "unknown"
)

// ProviderError is a normalized upstream failure.
type ProviderError struct {
	Provider Kind
	Kind     ErrorKind
	// Status is the upstream HTTP status, 0 for transport failures.
	Status  int
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	switch e.Kind {
	case ErrRateLimited:
		return "Rate limit exceeded. You have exceeded your API quota. Please check your plan and billing details, or try again later."
	case ErrInvalidCredentials:
		return "Invalid API key. Please check your API key configuration."
	case ErrPaymentRequired:
		return "Payment required. Please check your account billing details."
	}
	if e.Message != "" {
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s API error", e.Provider)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.Status
}

// Classify maps an upstream status and message onto an ErrorKind. Status
// wins over message text.
func Classify(status int, message string) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidCredentials
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusPaymentRequired:
		return ErrPaymentRequired
	}
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "quota"), strings.Contains(msg, "rate limit"):
		return ErrRateLimited
	case strings.Contains(msg, "api key"):
		return ErrInvalidCredentials
	case strings.Contains(msg, "payment"):
		return ErrPaymentRequired
	}
	return ErrUnknown
}

func newProviderError(k Kind, status int, message string, err error) *ProviderError {
	return &ProviderError{
		Provider: k,
		Kind:     Classify(status, message),
		Status:   status,
		Message:  message,
		Err:      err,
	}
}

// upstreamError is the {"error": {"message": ...}} body all three providers
// return on failure.
type upstreamError struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
