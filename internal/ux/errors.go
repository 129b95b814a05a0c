package ux

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

// ErrorWithSuggestion wraps an error with a recovery suggestion
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError analyzes an error and adds a contextual suggestion. Typed
// planner errors already carry their own suggestions and pass through
// unchanged; this is for the plain errors the OS and the network hand us.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var plannerErr *errors.PlannerError
	if stderrors.As(err, &plannerErr) {
		return err
	}

	errMsg := err.Error()

	// File not found errors
	if strings.Contains(errMsg, "no such file or directory") {
		if strings.Contains(errMsg, "ticketforge.yaml") {
			return NewErrorWithSuggestion(err,
				"Write a default configuration with 'ticketforge config init'")
		}
		if strings.Contains(errMsg, "result.json") {
			return NewErrorWithSuggestion(err,
				"Generate a plan first with 'ticketforge plan run --spec <file>'")
		}
		return NewErrorWithSuggestion(err,
			"Check the path and pass the specification file with --spec")
	}

	// Permission errors
	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check file permissions on the configuration and plans directories")
	}

	// Network errors
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no route to host") {
		return NewErrorWithSuggestion(err,
			"Check your network connection and any proxy settings, then retry")
	}

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded") {
		return NewErrorWithSuggestion(err,
			"The provider did not answer in time. Retry, or raise the provider timeout in ticketforge.yaml")
	}

	// API key errors
	if strings.Contains(errMsg, "API key") || strings.Contains(errMsg, "api key") || strings.Contains(errMsg, "authentication") {
		return NewErrorWithSuggestion(err,
			"Set the ANTHROPIC_API_KEY environment variable or store a key with 'ticketforge auth set'")
	}

	// Rate limiting
	if strings.Contains(errMsg, "rate limit") || strings.Contains(errMsg, "429") {
		return NewErrorWithSuggestion(err,
			"The provider is throttling requests. Wait a minute and rerun the plan")
	}

	// Generic fallback for operational failures
	if strings.Contains(errMsg, "failed to") {
		return NewErrorWithSuggestion(err,
			fmt.Sprintf("Next steps: %s", SuggestNextSteps()))
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
