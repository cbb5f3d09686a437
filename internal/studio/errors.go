package studio

import (
	"context"
	"errors"
	"strings"
)

// Kind is the error taxonomy surfaced to the session.
type Kind string

const (
	KindProvider   Kind = "provider"
	KindValidation Kind = "validation"
	KindCredential Kind = "credential"
	KindNoResult   Kind = "no_result"
	KindTimeout    Kind = "timeout"
	KindCanceled   Kind = "canceled"
)

// Error is a classified studio failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// ValidationError reports a missing required input. It never reaches the
// network.
func ValidationError(msg string) *Error {
	return newError(KindValidation, msg, nil)
}

// CredentialError reports an invalid, expired or missing API key.
func CredentialError(msg string, err error) *Error {
	return newError(KindCredential, msg, err)
}

// NoResultError reports a call that succeeded without producing media.
func NoResultError(msg string) *Error {
	return newError(KindNoResult, msg, nil)
}

// Phrases the provider uses when the API key is rejected or the key's project
// cannot see the requested model.
var credentialPhrases = []string{
	"API key not valid",
	"Requested entity was not found",
}

// CredentialRemediation replaces the provider text for credential failures.
const CredentialRemediation = "Your API Key appears to be invalid or has expired. Please select a valid key to continue."

// KindOf maps any error to the taxonomy. Typed studio errors keep their kind
// unless they are plain provider errors whose text names a credential
// problem; context errors become canceled or timeout.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var se *Error
	if errors.As(err, &se) && se.Kind != KindProvider {
		return se.Kind
	}

	switch {
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	}

	msg := err.Error()
	for _, phrase := range credentialPhrases {
		if strings.Contains(msg, phrase) {
			return KindCredential
		}
	}
	return KindProvider
}

// ErrorState is the user-facing error line plus the flag that forces the
// user to reselect a credential before retrying.
type ErrorState struct {
	Message    string `json:"message"`
	Credential bool   `json:"credential"`
}

// Classify turns an error into the session's error state.
func Classify(err error) ErrorState {
	if err == nil {
		return ErrorState{}
	}

	switch KindOf(err) {
	case KindCredential:
		return ErrorState{Message: CredentialRemediation, Credential: true}
	case KindValidation:
		return ErrorState{Message: err.Error()}
	default:
		return ErrorState{Message: "An error occurred: " + err.Error()}
	}
}
