package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"auth", &AuthError{Reason: "bad key"}, false},
		{"parse", &ParseError{Reason: "no choices"}, false},
		{"transport", &TransportError{Err: errors.New("connection refused")}, true},
		{"wrapped transport", fmt.Errorf("analyze: %w", &TransportError{Err: errors.New("timeout")}), true},
		{"api 400", &APIError{StatusCode: 400, Body: "bad request"}, false},
		{"api 404", &APIError{StatusCode: 404}, false},
		{"api 429", &APIError{StatusCode: 429, Body: "rate limited"}, true},
		{"api 500", &APIError{StatusCode: 500}, true},
		{"api 503", &APIError{StatusCode: 503}, true},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusToError(t *testing.T) {
	if err := statusToError(401, "unauthorized"); err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("401 -> %T, want AuthError", err)
		}
	}
	if err := statusToError(403, "forbidden"); err != nil {
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("403 -> %T, want AuthError", err)
		}
	}

	err := statusToError(404, "not found")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("404 -> %T, want APIError", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Body != "not found" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestErrorMessagesTruncateBody(t *testing.T) {
	body := make([]byte, 1000)
	for i := range body {
		body[i] = 'x'
	}
	err := &APIError{StatusCode: 500, Body: string(body)}
	if len(err.Error()) > 300 {
		t.Errorf("error message too long: %d bytes", len(err.Error()))
	}

	// Chinese API bodies must not be cut mid-rune.
	cjk := &APIError{StatusCode: 500, Body: strings.Repeat("系统繁忙请稍后重试", 50)}
	if !utf8.ValidString(cjk.Error()) {
		t.Errorf("truncated message is not valid UTF-8: %q", cjk.Error())
	}
	if utf8.RuneCountInString(truncate(cjk.Body, 200)) != 203 { // 200 runes + "..."
		t.Errorf("truncate length = %d runes", utf8.RuneCountInString(truncate(cjk.Body, 200)))
	}
}
