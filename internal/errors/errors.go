package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Specification errors (SPEC-001 to SPEC-099)
	ErrCodeSpecEmpty    ErrorCode = "SPEC-001"
	ErrCodeSpecType     ErrorCode = "SPEC-002"
	ErrCodeSpecTooLarge ErrorCode = "SPEC-003"
	ErrCodeSpecOpenAPI  ErrorCode = "SPEC-004"

	// Provider errors (PROVIDER-001 to PROVIDER-099)
	ErrCodeProviderConfig      ErrorCode = "PROVIDER-001"
	ErrCodeProviderAuth        ErrorCode = "PROVIDER-002"
	ErrCodeProviderAPI         ErrorCode = "PROVIDER-003"
	ErrCodeProviderRateLimit   ErrorCode = "PROVIDER-004"
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER-005"

	// Extraction errors (EXTRACT-001 to EXTRACT-099)
	ErrCodeMalformedResponse ErrorCode = "EXTRACT-001"

	// Planning errors (PLAN-001 to PLAN-099)
	ErrCodePlanStageFailed ErrorCode = "PLAN-001"
	ErrCodePlanNotFound    ErrorCode = "PLAN-002"
	ErrCodePlanInvalid     ErrorCode = "PLAN-003"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"

	// Credential errors (CRED-001 to CRED-099)
	ErrCodeCredentialNotFound ErrorCode = "CRED-001"
	ErrCodeCredentialDecrypt  ErrorCode = "CRED-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeFileUnmarshal   ErrorCode = "IO-004"
)

// PlannerError represents an enhanced error with code, suggestions, and documentation
type PlannerError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *PlannerError) Error() string {
	var b strings.Builder

	// Error code and message
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	// Add cause if present
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Add suggestions
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	// Add documentation link
	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PlannerError) Unwrap() error {
	return e.Cause
}

// New creates a new PlannerError
func New(code ErrorCode, message string) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PlannerError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PlannerError {
	return &PlannerError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PlannerError) WithSuggestion(suggestion string) *PlannerError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PlannerError) WithSuggestions(suggestions ...string) *PlannerError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *PlannerError) WithDocs(url string) *PlannerError {
	e.DocsURL = url
	return e
}

// HasCode reports whether err or any error in its chain carries the given code
func HasCode(err error, code ErrorCode) bool {
	var pe *PlannerError
	for stderrors.As(err, &pe) {
		if pe.Code == code {
			return true
		}
		err = pe.Cause
		if err == nil {
			return false
		}
		pe = nil
	}
	return false
}

// CodeOf returns the code of the outermost PlannerError in the chain, or ""
func CodeOf(err error) ErrorCode {
	var pe *PlannerError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Common error constructors for frequently used errors

// NewSpecEmptyError creates an empty specification error
func NewSpecEmptyError() *PlannerError {
	return New(ErrCodeSpecEmpty, "specification content is empty").
		WithSuggestion("Provide the specification text via --spec or stdin").
		WithSuggestion("Check that the specification file is not empty")
}

// NewSpecTypeError creates an unknown specification type error
func NewSpecTypeError(specType string) *PlannerError {
	return New(ErrCodeSpecType, fmt.Sprintf("unknown specification type: %s", specType)).
		WithSuggestion("Use one of: prd, technical_spec, architecture, feature_list, openapi").
		WithDocs("https://github.com/felixgeelhaar/ticketforge#specification-types")
}

// NewSpecTooLargeError creates a pre-flight size rejection error
func NewSpecTooLargeError(estimatedTokens, maxTokens int) *PlannerError {
	return New(ErrCodeSpecTooLarge,
		fmt.Sprintf("specification too large: estimated %d tokens exceeds the %d token budget", estimatedTokens, maxTokens)).
		WithSuggestion("Split the specification into smaller documents and plan them separately").
		WithSuggestion("Remove boilerplate sections that do not describe requirements").
		WithDocs("https://github.com/felixgeelhaar/ticketforge#specification-size")
}

// NewSpecOpenAPIError creates an OpenAPI validation error
func NewSpecOpenAPIError(cause error) *PlannerError {
	return Wrap(ErrCodeSpecOpenAPI, "OpenAPI specification failed validation", cause).
		WithSuggestion("Validate the document with an OpenAPI linter before planning").
		WithSuggestion("Use spec type 'technical_spec' if the document is not a strict OpenAPI file")
}

// NewProviderAuthError creates a provider authentication error
func NewProviderAuthError(provider string) *PlannerError {
	return New(ErrCodeProviderAuth, fmt.Sprintf("authentication failed for provider: %s", provider)).
		WithSuggestion(fmt.Sprintf("Set the %s_API_KEY environment variable", strings.ToUpper(provider))).
		WithSuggestion("Run 'ticketforge auth set' to store a key in the local credential store").
		WithDocs("https://github.com/felixgeelhaar/ticketforge#provider-configuration")
}

// NewProviderRateLimitError creates a rate limit error
func NewProviderRateLimitError(provider string, retryAfter string) *PlannerError {
	msg := fmt.Sprintf("rate limit exceeded for provider: %s", provider)
	if retryAfter != "" {
		msg += fmt.Sprintf(" (retry after: %s)", retryAfter)
	}

	return New(ErrCodeProviderRateLimit, msg).
		WithSuggestion("Wait before retrying the request").
		WithSuggestion("Lower ticket_batch_concurrency to reduce request pressure").
		WithDocs("https://github.com/felixgeelhaar/ticketforge#rate-limiting")
}

// NewProviderAPIError creates a generation failure error for non-throttling failures
func NewProviderAPIError(provider string, cause error) *PlannerError {
	return Wrap(ErrCodeProviderAPI, fmt.Sprintf("generation request failed for provider: %s", provider), cause).
		WithSuggestion("Check provider status and your network connectivity").
		WithSuggestion("Verify the configured model identifiers exist for your account")
}

// NewGenerationUnavailableError creates the terminal error after retries are exhausted
func NewGenerationUnavailableError(attempts int, cause error) *PlannerError {
	return Wrap(ErrCodeProviderUnavailable,
		fmt.Sprintf("generation unavailable after %d attempts", attempts), cause).
		WithSuggestion("Retry the run once provider capacity recovers").
		WithSuggestion("Increase max_retries or base_delay in the planner configuration")
}

// NewMalformedResponseError creates a structured-extraction failure error
func NewMalformedResponseError(sample string) *PlannerError {
	const maxSample = 160
	if len(sample) > maxSample {
		sample = sample[:maxSample] + "..."
	}
	return New(ErrCodeMalformedResponse,
		fmt.Sprintf("response contains no parseable JSON: %q", sample)).
		WithSuggestion("Re-run the stage; model output is occasionally truncated").
		WithSuggestion("Raise max_tokens for the stage if responses are cut off mid-object")
}

// NewStageFailedError creates a structured stage failure naming the failed stage
func NewStageFailedError(stage string, cause error) *PlannerError {
	return Wrap(ErrCodePlanStageFailed, fmt.Sprintf("planning failed at stage %s", stage), cause).
		WithSuggestion("Inspect the underlying cause above; completed stages are discarded").
		WithDocs("https://github.com/felixgeelhaar/ticketforge#pipeline-stages")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *PlannerError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'ticketforge config validate' to see all configuration errors").
		WithSuggestion("Run 'ticketforge config init' to write a fresh default configuration")
}

// NewCredentialNotFoundError creates a missing credential error
func NewCredentialNotFoundError(name string) *PlannerError {
	return New(ErrCodeCredentialNotFound, fmt.Sprintf("credential not found: %s", name)).
		WithSuggestion("Run 'ticketforge auth set' to store the credential").
		WithSuggestion("Check 'ticketforge auth status' for stored credentials")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *PlannerError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *PlannerError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
