package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// statusCode decodes the provider's status-like code, which arrives either as
// a JSON number or as a quoted string depending on the endpoint.
type statusCode int

func (s *statusCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty status code")
	}
	if b[0] == '"' {
		raw, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("unquote status code: %w", err)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("parse status code %q: %w", raw, err)
		}
		*s = statusCode(n)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("parse status code %q: %w", n.String(), err)
	}
	*s = statusCode(v)
	return nil
}

// envelope models the provider's wrapper conventions. All three fields are
// optional; some endpoints use none of them.
type envelope struct {
	ResponseCode *statusCode     `json:"ResponseCode"`
	Response     json.RawMessage `json:"Response"`
	Data         json.RawMessage `json:"Data"`
}

type responseBlock struct {
	ResponseCode *statusCode `json:"ResponseCode"`
}

// normalize turns one raw provider response into a uniform Outcome. The
// status-like code is read from the top-level ResponseCode first, then from
// Response.ResponseCode; a JSON object carrying neither is a ProtocolError.
// Non-object bodies (e.g. the bank list array) fall back to the HTTP status.
func normalize(endpoint string, httpStatus int, body []byte) (Outcome, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return Outcome{}, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("malformed response body")}
		}
		out := Outcome{Code: httpStatus}
		if out.OK() {
			out.Data = trimmed
		} else {
			out.Fault = trimmed
		}
		return out, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Outcome{}, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decode response body: %w", err)}
	}

	code := env.ResponseCode
	if code == nil && len(env.Response) > 0 {
		var rb responseBlock
		if err := json.Unmarshal(env.Response, &rb); err == nil {
			code = rb.ResponseCode
		}
	}
	if code == nil {
		return Outcome{}, &ProtocolError{Endpoint: endpoint, Body: trimmed}
	}

	out := Outcome{Code: int(*code)}
	if !out.OK() {
		if len(env.Response) > 0 {
			out.Fault = env.Response
		} else {
			out.Fault = trimmed
		}
		return out, nil
	}

	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		out.Data = env.Data
	} else {
		out.Data = trimmed
	}
	return out, nil
}
