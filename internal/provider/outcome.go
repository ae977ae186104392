package provider

import "encoding/json"

// Outcome is the normalized result of a single provider call. Exactly one of
// Data (2xx status-like code) or Fault (anything else) carries the payload.
type Outcome struct {
	// Code is the status-like code the provider embedded in the response
	// body, or the literal HTTP status when the body carried none (the
	// provider returns bare arrays on some endpoints).
	Code  int
	Data  json.RawMessage
	Fault json.RawMessage
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Code >= 200 && o.Code <= 299
}
