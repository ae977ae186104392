// Package apperr defines the application error taxonomy shared by every
// handler: client-facing numeric error codes, error kinds and the HTTP status
// each renders with.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kolo-pay/kolo_pay/internal/provider"
)

// Code is the numeric error code surfaced in the failure envelope.
type Code int

const (
	CodeGeneric Code = iota
	CodeUnauthenticated
	CodeUnauthorized
	CodeInvalidCredentials
	CodeMissingFields
	CodeWalletNotFound
	CodeWalletExists
	CodeInsufficientFunds
	CodeProvider
	CodeProviderUnreachable
	CodeProviderProtocol
)

// Kind classifies an error for branching; Code and Status are what clients
// see.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindProvider
	KindTransport
	KindProtocol
)

// Error is the uniform application error. Handlers return it up to the fiber
// error handler, which renders the {errorCode, message} envelope.
type Error struct {
	Kind    Kind
	Code    Code
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation reports malformed client input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeGeneric, Status: http.StatusBadRequest, Message: message}
}

// MissingFields enumerates exactly the required keys absent from the payload.
func MissingFields(keys []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    CodeMissingFields,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("The following key(s) are missing in the request payload: %s", strings.Join(keys, ", ")),
	}
}

// InvalidCredentials reports a bad privileged secret. Rendered as a 400,
// matching the facade's historical behavior.
func InvalidCredentials(message string) *Error {
	return &Error{Kind: KindAuthentication, Code: CodeInvalidCredentials, Status: http.StatusBadRequest, Message: message}
}

// Unauthorized reports a valid wallet key presented with a mismatched email.
// Distinct from NotFound by contract.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: CodeUnauthorized, Status: http.StatusForbidden, Message: message}
}

// NotFound reports an unknown wallet key. Directory storage faults also land
// here so storage internals never leak as 500s.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeWalletNotFound, Status: http.StatusNotFound, Message: message}
}

// Conflict reports a pre-existing provider wallet for the given identity.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: CodeWalletExists, Status: http.StatusConflict, Message: message}
}

// InsufficientFunds is a terminal client error; the debit is never attempted.
func InsufficientFunds(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInsufficientFunds, Status: http.StatusBadRequest, Message: message}
}

// Internal reports an unexpected local fault.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindTransport, Code: CodeGeneric, Status: http.StatusInternalServerError, Message: message, Cause: cause}
}

// FromProvider converts a provider-layer error into the application taxonomy.
// A provider-declared failure keeps the provider's own status-like code and
// message; transport and protocol faults get distinct codes so callers can
// tell "the provider said no" from "the provider never answered".
func FromProvider(err error) *Error {
	var pe *provider.Error
	if errors.As(err, &pe) {
		return &Error{
			Kind:    KindProvider,
			Code:    CodeProvider,
			Status:  providerStatus(pe.Code),
			Message: pe.Message(),
			Cause:   err,
		}
	}
	var te *provider.TransportError
	if errors.As(err, &te) {
		return &Error{
			Kind:    KindTransport,
			Code:    CodeProviderUnreachable,
			Status:  http.StatusInternalServerError,
			Message: "wallet provider is unreachable",
			Cause:   err,
		}
	}
	var pre *provider.ProtocolError
	if errors.As(err, &pre) {
		return &Error{
			Kind:    KindProtocol,
			Code:    CodeProviderProtocol,
			Status:  http.StatusInternalServerError,
			Message: "wallet provider returned an unrecognized response",
			Cause:   err,
		}
	}
	return Internal("unexpected provider failure", err)
}

// providerStatus maps the provider's status-like code onto the facade's HTTP
// status. Anything outside the classic taxonomy degrades to 400.
func providerStatus(code int) int {
	switch code {
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusConflict,
		http.StatusInternalServerError:
		return code
	default:
		return http.StatusBadRequest
	}
}
