package provider

import (
	"encoding/json"
	"fmt"
)

// Error is a structured failure declared by the provider: the response parsed
// cleanly but carried a status-like code outside the 2xx range. Payload holds
// the provider's own error body (the Response sub-object when present,
// otherwise the whole body).
type Error struct {
	Code    int
	Payload json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.Code, e.Message())
}

// Message extracts the provider's human-readable message on a best-effort
// basis. The payload shape is not consistent across endpoints.
func (e *Error) Message() string {
	var wrapped struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal(e.Payload, &wrapped); err == nil && wrapped.Message != "" {
		return wrapped.Message
	}
	var plain string
	if err := json.Unmarshal(e.Payload, &plain); err == nil && plain != "" {
		return plain
	}
	return string(e.Payload)
}

// TransportError covers faults below the provider contract: connection
// failures, timeouts and bodies that are not valid JSON. The original error
// is retained for observability.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider call %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError indicates a well-formed JSON object that carried a status
// code in neither of the two documented locations. The upstream contract
// leaves this ambiguity open, so it is surfaced rather than guessed at.
type ProtocolError struct {
	Endpoint string
	Body     []byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("provider call %s: response carries no status code", e.Endpoint)
}
