package modules

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// ValidateParams checks params against InputSchema.
// - Required fields: returns error if missing
// - Type check: verifies value matches declared property type
// - Enum check: string values must be one of the declared values
// - Array items: element types (and required keys of object elements) are checked
// Returns validated params or error.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	if params == nil {
		params = make(map[string]any)
	}

	if missing := missingKeys(schema.Required, params); len(missing) > 0 {
		return nil, errors.Errorf("missing required parameter(s): %s", strings.Join(missing, ", "))
	}

	// Type check provided params against schema properties
	for key, val := range params {
		prop, declared := schema.Properties[key]
		if !declared {
			// Extra params not in schema are passed through (lenient)
			continue
		}
		if val == nil {
			continue
		}
		if err := checkProperty(key, val, prop); err != nil {
			return nil, err
		}
	}

	return params, nil
}

// missingKeys returns required keys that are absent, nil or empty strings.
func missingKeys(required []string, params map[string]any) []string {
	var missing []string
	for _, key := range required {
		val, exists := params[key]
		if !exists || val == nil {
			missing = append(missing, key)
			continue
		}
		// Check for zero-value strings on required fields
		if s, ok := val.(string); ok && s == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func checkProperty(key string, val any, prop Property) error {
	if err := checkType(key, val, prop.Type); err != nil {
		return err
	}
	if len(prop.Enum) > 0 {
		s, _ := val.(string)
		if !contains(prop.Enum, s) {
			return errors.Errorf("parameter %q: %q is not one of %s", key, s, strings.Join(prop.Enum, ", "))
		}
	}
	if prop.Items == nil {
		return nil
	}
	items, _ := val.([]interface{})
	for i, item := range items {
		name := fmt.Sprintf("%s[%d]", key, i)
		if err := checkProperty(name, item, *prop.Items); err != nil {
			return err
		}
		if obj, ok := item.(map[string]interface{}); ok {
			if missing := missingKeys(prop.Items.Required, obj); len(missing) > 0 {
				return errors.Errorf("parameter %q: missing %s", name, strings.Join(missing, ", "))
			}
		}
	}
	return nil
}

// checkType verifies that val matches the expected JSON Schema type.
func checkType(key string, val any, expectedType string) error {
	switch expectedType {
	case "string":
		if _, ok := val.(string); !ok {
			return errors.Errorf("parameter %q: expected string, got %T", key, val)
		}
	case "number", "integer":
		// JSON numbers arrive as float64
		if _, ok := val.(float64); !ok {
			return errors.Errorf("parameter %q: expected number, got %T", key, val)
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return errors.Errorf("parameter %q: expected boolean, got %T", key, val)
		}
	case "array":
		if _, ok := val.([]interface{}); !ok {
			return errors.Errorf("parameter %q: expected array, got %T", key, val)
		}
	case "object":
		if _, ok := val.(map[string]interface{}); !ok {
			return errors.Errorf("parameter %q: expected object, got %T", key, val)
		}
		// "" or unknown types: skip check (lenient)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// findTool looks up a tool by name from a tool list.
func findTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
