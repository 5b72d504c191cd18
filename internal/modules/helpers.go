package modules

import (
	"encoding/json"
	"strings"
)

// ToJSON marshals any value to a JSON string.
// Used by module handlers to serialize API responses.
func ToJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", Internal("marshal response: %w", err)
	}
	return string(b), nil
}

// ToStringSlice converts []interface{} (from MCP params) to []string.
// Non-string elements are silently skipped.
func ToStringSlice(v []interface{}) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringParam returns params[key] when it is a string.
func StringParam(params map[string]any, key string) (string, bool) {
	s, ok := params[key].(string)
	return s, ok
}

// NumberParam returns params[key] when it is a JSON number.
func NumberParam(params map[string]any, key string) (float64, bool) {
	f, ok := params[key].(float64)
	return f, ok
}

// BoolParam returns params[key] when it is a boolean.
func BoolParam(params map[string]any, key string) (bool, bool) {
	b, ok := params[key].(bool)
	return b, ok
}

// Present reports whether params holds a non-nil value for key. An empty
// string counts as absent.
func Present(params map[string]any, key string) bool {
	v, ok := params[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && s == "" {
		return false
	}
	return true
}

// RequireFields fails with a validation error when any of fields is absent.
// The message lists every field the action needs, not only the missing ones.
func RequireFields(params map[string]any, action string, fields ...string) error {
	for _, f := range fields {
		if !Present(params, f) {
			verb := "are"
			if len(fields) == 1 {
				verb = "is"
			}
			return Validation("%s %s required for %s action", joinFields(fields), verb, action)
		}
	}
	return nil
}

// joinFields renders "a", "a and b", "a, b, and c".
func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	}
	return strings.Join(fields[:len(fields)-1], ", ") + ", and " + fields[len(fields)-1]
}
