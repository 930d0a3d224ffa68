package agent

import "encoding/json"

// ParseResult normalizes an agent response payload into a plain mapping.
// It returns nil for a missing payload, a non-JSON string payload, or a
// payload that is not an object. Callers treat nil as "no structured data"
// and fall back to prior state values.
func ParseResult(resp *Response) map[string]any {
	if resp == nil || resp.Response == nil || len(resp.Response.Result) == 0 {
		return nil
	}

	raw := resp.Response.Result

	// The result field is either a JSON-encoded string or an object.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil
		}
		return m
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// Str extracts a string field from a parsed result, with ok=false when the
// field is absent or not a string.
func Str(m map[string]any, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key].(string)
	return v, ok
}

// Int extracts a numeric field. JSON numbers decode as float64; values are
// truncated toward zero.
func Int(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Bool extracts a boolean field.
func Bool(m map[string]any, key string) (bool, bool) {
	if m == nil {
		return false, false
	}
	v, ok := m[key].(bool)
	return v, ok
}

// Strings extracts a string-array field, skipping non-string elements.
func Strings(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, el := range raw {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Objects extracts an object-array field, skipping non-object elements.
func Objects(m map[string]any, key string) []map[string]any {
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		if obj, ok := el.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
