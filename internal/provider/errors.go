package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// AuthError means the API key is missing or was rejected (401/403).
// Fatal to the current transition: the user must fix the key and retry.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// TransportError wraps a network-level failure (DNS, connect, timeout).
// Safe to retry the same transition.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError means the remote endpoint returned a non-2xx response.
// StatusCode and Body are surfaced verbatim for the user.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, truncate(e.Body, 200))
}

// ParseError means the response was 2xx but its shape was unusable
// (no choices, empty content). The raw payload is kept for diagnosis.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected response: %s: %s", e.Reason, truncate(e.Raw, 200))
}

// statusToError 将带 HTTP 状态码的 SDK 错误映射为统一的错误分类。
func statusToError(status int, body string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Reason: fmt.Sprintf("status %d: %s", status, truncate(body, 200))}
	default:
		return &APIError{StatusCode: status, Body: body}
	}
}

// isRetryable reports whether err is worth retrying: transport failures,
// rate limits (429) and server-side errors (5xx). Auth, parse and other
// client-side errors are never retried, nor is context cancellation.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return true
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == http.StatusTooManyRequests || ae.StatusCode >= 500
	}
	return false
}

// truncate cuts s to maxLen runes; API bodies are often Chinese, so a
// byte cut could split a rune.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
