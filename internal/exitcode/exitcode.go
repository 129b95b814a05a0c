package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/ticketforge/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// SpecTooLarge indicates the specification failed the pre-flight size check
	SpecTooLarge = 3

	// GenerationUnavailable indicates the provider stayed unavailable after retries
	GenerationUnavailable = 4

	// AuthError indicates an authentication or authorization failure
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// Interrupted indicates the run was cancelled by the user (128 + SIGINT)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit
// code. Typed codes are checked through the whole error chain, so a stage
// failure wrapping an auth error still maps to AuthError.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch {
	case errors.HasCode(err, errors.ErrCodeSpecTooLarge):
		return SpecTooLarge
	case errors.HasCode(err, errors.ErrCodeProviderAuth),
		errors.HasCode(err, errors.ErrCodeCredentialNotFound),
		errors.HasCode(err, errors.ErrCodeCredentialDecrypt):
		return AuthError
	case errors.HasCode(err, errors.ErrCodeProviderUnavailable),
		errors.HasCode(err, errors.ErrCodeProviderRateLimit):
		return GenerationUnavailable
	case errors.HasCode(err, errors.ErrCodeConfigNotFound),
		errors.HasCode(err, errors.ErrCodeConfigInvalid):
		return UsageError
	}

	errMsg := strings.ToLower(err.Error())

	// Authentication errors
	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "api key") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "network") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case SpecTooLarge:
		return "Specification exceeds the token budget"
	case GenerationUnavailable:
		return "Generation service unavailable"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
