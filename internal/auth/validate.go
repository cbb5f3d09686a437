package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/ai-creative-studio/internal/metrics"
)

// probeModel is the cheapest text model, used only to test a key.
const probeModel = "gemini-2.5-flash-lite"

// ValidationError represents a specific type of API key validation failure.
type ValidationError struct {
	Type    ValidationErrorType
	Message string
	Err     error
}

// ValidationErrorType categorizes validation failures.
type ValidationErrorType int

const (
	// ErrTypeNoKey indicates no API key was found or entered.
	ErrTypeNoKey ValidationErrorType = iota
	// ErrTypeInvalidKey indicates the API key is invalid or revoked.
	ErrTypeInvalidKey
	// ErrTypeNetworkError indicates a network connectivity issue.
	ErrTypeNetworkError
	// ErrTypeQuotaExceeded indicates the API quota has been exceeded.
	ErrTypeQuotaExceeded
	// ErrTypeUnknown indicates an unknown error occurred.
	ErrTypeUnknown
)

// String returns the metric label for the type.
func (t ValidationErrorType) String() string {
	switch t {
	case ErrTypeNoKey:
		return "no_key"
	case ErrTypeInvalidKey:
		return "invalid"
	case ErrTypeNetworkError:
		return "network_error"
	case ErrTypeQuotaExceeded:
		return "quota"
	default:
		return "unknown"
	}
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateAPIKey verifies the key behind client with a one-token request.
// It returns nil if the key works, or a *ValidationError describing why not.
func ValidateAPIKey(ctx context.Context, client *genai.Client) error {
	log.Debug().Str("model", probeModel).Msg("Validating API key with Gemini API")

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, probeModel, genai.Text("hi"), nil)
	elapsed := time.Since(start)

	var valErr *ValidationError
	switch {
	case err != nil:
		valErr = classifyError(err)
	case resp == nil || len(resp.Candidates) == 0:
		valErr = &ValidationError{Type: ErrTypeUnknown, Message: "API returned empty response"}
	}

	result := "success"
	if valErr != nil {
		result = valErr.Type.String()
	}
	metrics.New(metrics.Namespace).
		Dimension("Result", result).
		Metric("ApiKeyValidationMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Count("ApiKeyValidationResult").
		Flush()

	log.Debug().
		Str("result", result).
		Dur("duration", elapsed).
		Msg("API key validation result")

	if valErr != nil {
		return valErr
	}
	log.Info().Msg("API key validated successfully")
	return nil
}

// classifyError analyzes an error and returns a ValidationError with the appropriate type.
func classifyError(err error) *ValidationError {
	if err == nil {
		return nil
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}
	var apiErrVal genai.APIError
	if errors.As(err, &apiErrVal) {
		return classifyAPIError(&apiErrVal)
	}

	errLower := strings.ToLower(err.Error())
	switch {
	case containsAny(errLower, "api key not valid", "invalid api key", "api_key_invalid", "permission denied", "requested entity was not found"):
		log.Error().Err(err).Msg("Invalid API key")
		return &ValidationError{Type: ErrTypeInvalidKey, Message: "API key is invalid or has been revoked", Err: err}

	case containsAny(errLower, "quota", "resource exhausted", "rate limit"):
		log.Error().Err(err).Msg("API quota exceeded")
		return &ValidationError{Type: ErrTypeQuotaExceeded, Message: "API quota exceeded or rate limited", Err: err}

	case containsAny(errLower, "connection", "network", "timeout", "dial", "no such host", "unreachable"):
		log.Error().Err(err).Msg("Network error during API validation")
		return &ValidationError{Type: ErrTypeNetworkError, Message: "Network error - check your internet connection", Err: err}

	default:
		log.Error().Err(err).Msg("Unknown error during API validation")
		return &ValidationError{Type: ErrTypeUnknown, Message: "Failed to validate API key", Err: err}
	}
}

// classifyAPIError categorizes a Google API error by HTTP status.
func classifyAPIError(err *genai.APIError) *ValidationError {
	switch {
	case err.Code == http.StatusBadRequest:
		log.Error().Int("code", err.Code).Msg("Bad request - possibly invalid API key format")
		return &ValidationError{Type: ErrTypeInvalidKey, Message: "Bad request - API key may be malformed", Err: err}

	case err.Code == http.StatusUnauthorized || err.Code == http.StatusForbidden:
		log.Error().Int("code", err.Code).Msg("Authentication failed - invalid API key")
		return &ValidationError{Type: ErrTypeInvalidKey, Message: "API key is invalid, expired, or lacks permissions", Err: err}

	case err.Code == http.StatusTooManyRequests:
		log.Error().Int("code", err.Code).Msg("Rate limit exceeded")
		return &ValidationError{Type: ErrTypeQuotaExceeded, Message: "API rate limit exceeded - try again later", Err: err}

	case err.Code >= 500:
		log.Error().Int("code", err.Code).Msg("Server error during validation")
		return &ValidationError{Type: ErrTypeNetworkError, Message: "Gemini API server error - try again later", Err: err}

	default:
		log.Error().Int("code", err.Code).Str("message", err.Message).Msg("Google API error")
		return &ValidationError{Type: ErrTypeUnknown, Message: err.Message, Err: err}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
