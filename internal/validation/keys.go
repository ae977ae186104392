// Package validation holds request payload helpers shared by the handlers.
package validation

import "encoding/json"

// MissingKeys returns the required keys absent from the payload, in the order
// they were required. Presence is what counts; empty values are the
// provider's problem to reject.
func MissingKeys(payload map[string]any, required ...string) []string {
	var missing []string
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// String extracts a string field from a decoded payload, returning "" when
// the field is absent or not a string.
func String(payload map[string]any, key string) string {
	v, _ := payload[key].(string)
	return v
}

// Number extracts a numeric field from a decoded payload. JSON numbers decode
// as float64; json.Number is accepted for callers that use decoder options.
func Number(payload map[string]any, key string) (float64, bool) {
	switch v := payload[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
