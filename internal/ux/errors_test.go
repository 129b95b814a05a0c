package ux

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	base := stderrors.New("something broke")
	err := NewErrorWithSuggestion(base, "try again")

	if err == nil {
		t.Fatal("expected wrapped error")
	}
	if !strings.Contains(err.Error(), "something broke") {
		t.Errorf("wrapped error should keep the original message: %v", err)
	}
	if !strings.Contains(err.Error(), "💡 Suggestion: try again") {
		t.Errorf("wrapped error should carry the suggestion: %v", err)
	}
	if !stderrors.Is(err, base) {
		t.Error("wrapped error should unwrap to the original")
	}
}

func TestNewErrorWithSuggestionNil(t *testing.T) {
	if err := NewErrorWithSuggestion(nil, "pointless"); err != nil {
		t.Errorf("nil error should stay nil, got %v", err)
	}
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantSuggestion string
	}{
		{
			name:           "missing config file",
			err:            stderrors.New("open .ticketforge/ticketforge.yaml: no such file or directory"),
			wantSuggestion: "ticketforge config init",
		},
		{
			name:           "missing result file",
			err:            stderrors.New("open plans/plan-result.json: no such file or directory"),
			wantSuggestion: "ticketforge plan run",
		},
		{
			name:           "missing spec file",
			err:            stderrors.New("open spec.md: no such file or directory"),
			wantSuggestion: "--spec",
		},
		{
			name:           "permission denied",
			err:            stderrors.New("open plans/doc.md: permission denied"),
			wantSuggestion: "file permissions",
		},
		{
			name:           "connection refused",
			err:            stderrors.New("dial tcp: connection refused"),
			wantSuggestion: "network connection",
		},
		{
			name:           "timeout",
			err:            stderrors.New("request timeout talking to provider"),
			wantSuggestion: "provider timeout",
		},
		{
			name:           "api key",
			err:            stderrors.New("invalid api key provided"),
			wantSuggestion: "ticketforge auth set",
		},
		{
			name:           "rate limit",
			err:            stderrors.New("provider rate limit hit"),
			wantSuggestion: "throttling",
		},
		{
			name:           "generic operational failure",
			err:            stderrors.New("failed to write document"),
			wantSuggestion: "Next steps:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enhanced := EnhanceError(tt.err)
			if !strings.Contains(enhanced.Error(), tt.wantSuggestion) {
				t.Errorf("EnhanceError() = %q, want suggestion containing %q", enhanced.Error(), tt.wantSuggestion)
			}
		})
	}
}

func TestEnhanceErrorNil(t *testing.T) {
	if err := EnhanceError(nil); err != nil {
		t.Errorf("EnhanceError(nil) = %v, want nil", err)
	}
}

func TestEnhanceErrorLeavesUnknownErrorsAlone(t *testing.T) {
	base := stderrors.New("some entirely unrecognized condition")
	if got := EnhanceError(base); got != base {
		t.Errorf("unrecognized errors should pass through unchanged, got %v", got)
	}
}

func TestEnhanceErrorLeavesPlannerErrorsAlone(t *testing.T) {
	// Typed errors already carry suggestions; enhancing would duplicate them.
	typed := errors.NewProviderAuthError("anthropic")
	if got := EnhanceError(typed); got != error(typed) {
		t.Errorf("planner errors should pass through unchanged, got %v", got)
	}

	wrapped := fmt.Errorf("running plan: %w", errors.NewConfigInvalidError("tracks must be positive"))
	if got := EnhanceError(wrapped); got != wrapped {
		t.Errorf("wrapped planner errors should pass through unchanged, got %v", got)
	}
}

func TestFormatError(t *testing.T) {
	base := stderrors.New("dial tcp: connection refused")
	err := FormatError(base, "calling provider")

	if !strings.Contains(err.Error(), "calling provider:") {
		t.Errorf("FormatError() should prefix the context: %v", err)
	}
	if !strings.Contains(err.Error(), "network connection") {
		t.Errorf("FormatError() should enhance the error: %v", err)
	}
	if !stderrors.Is(err, base) {
		t.Error("FormatError() should keep the original error in the chain")
	}

	if got := FormatError(nil, "anything"); got != nil {
		t.Errorf("FormatError(nil) = %v, want nil", got)
	}
}
