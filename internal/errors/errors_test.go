package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSpecEmpty, "test error message")

	if err.Code != ErrCodeSpecEmpty {
		t.Errorf("expected code %s, got %s", ErrCodeSpecEmpty, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeFileReadFailed, "failed to read file", cause)

	if err.Code != ErrCodeFileReadFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFileReadFailed, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	// Test unwrapping
	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *PlannerError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeSpecType, "unknown specification type"),
			wantCode: "SPEC-002",
			wantMsg:  "unknown specification type",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeProviderAPI, "generation failed", fmt.Errorf("connection reset")),
			wantCode: "PROVIDER-003",
			wantMsg:  "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrCodePlanNotFound, "plan not found").
		WithSuggestion("Check the result file path")

	if len(err.Suggestions) != 1 {
		t.Errorf("expected 1 suggestion, got %d", len(err.Suggestions))
	}

	if err.Suggestions[0] != "Check the result file path" {
		t.Errorf("unexpected suggestion: %s", err.Suggestions[0])
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "Suggestions:") {
		t.Errorf("error string should contain suggestions section")
	}

	if !strings.Contains(errStr, "Check the result file path") {
		t.Errorf("error string should contain suggestion text")
	}
}

func TestHasCode(t *testing.T) {
	rateLimit := NewProviderRateLimitError("anthropic", "30s")
	unavailable := NewGenerationUnavailableError(4, rateLimit)

	if !HasCode(unavailable, ErrCodeProviderUnavailable) {
		t.Errorf("expected outer code %s to be found", ErrCodeProviderUnavailable)
	}

	if !HasCode(unavailable, ErrCodeProviderRateLimit) {
		t.Errorf("expected wrapped code %s to be found in the chain", ErrCodeProviderRateLimit)
	}

	if HasCode(unavailable, ErrCodeMalformedResponse) {
		t.Errorf("did not expect code %s in the chain", ErrCodeMalformedResponse)
	}

	if HasCode(fmt.Errorf("plain error"), ErrCodeProviderRateLimit) {
		t.Errorf("plain errors carry no code")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewSpecTooLargeError(200000, 150000)); got != ErrCodeSpecTooLarge {
		t.Errorf("expected %s, got %s", ErrCodeSpecTooLarge, got)
	}

	if got := CodeOf(fmt.Errorf("plain error")); got != "" {
		t.Errorf("expected empty code for plain error, got %s", got)
	}

	// Wrapping with %w keeps the code reachable
	wrapped := fmt.Errorf("stage parse: %w", NewMalformedResponseError("not json"))
	if got := CodeOf(wrapped); got != ErrCodeMalformedResponse {
		t.Errorf("expected %s through fmt wrapping, got %s", ErrCodeMalformedResponse, got)
	}
}

func TestNewGenerationUnavailableError(t *testing.T) {
	cause := NewProviderRateLimitError("anthropic", "")
	err := NewGenerationUnavailableError(4, cause)

	if !strings.Contains(err.Message, "4 attempts") {
		t.Errorf("message should carry the attempt count, got: %s", err.Message)
	}

	if !errors.Is(err, cause) {
		t.Errorf("the last underlying failure must stay reachable via errors.Is")
	}
}

func TestNewMalformedResponseErrorTruncatesSample(t *testing.T) {
	sample := strings.Repeat("x", 500)
	err := NewMalformedResponseError(sample)

	if len(err.Message) > 250 {
		t.Errorf("sample should be truncated, message length %d", len(err.Message))
	}

	if !strings.Contains(err.Message, "...") {
		t.Errorf("truncated sample should end with ellipsis marker")
	}
}
