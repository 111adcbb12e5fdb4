package subq

import (
	"fmt"
	"reflect"
)

// validateArgs checks parsed call arguments against the tool's declared
// schema: required fields present, provided fields of the declared type.
// Extra arguments pass; the dispatcher filters them separately.
func validateArgs(spec ToolSpec, args map[string]any) error {
	if len(spec.Parameters) == 0 {
		return nil
	}

	for _, fieldName := range requiredFields(spec.Parameters) {
		if _, ok := args[fieldName]; !ok {
			return fmt.Errorf("subq: tool %s: missing required parameter %s", spec.Name, fieldName)
		}
	}

	properties, ok := spec.Parameters["properties"].(map[string]any)
	if !ok {
		return nil
	}
	for argName, argValue := range args {
		propMap, ok := properties[argName].(map[string]any)
		if !ok {
			continue
		}
		expectedType, ok := propMap["type"].(string)
		if !ok {
			continue
		}
		if err := checkType(argName, argValue, expectedType); err != nil {
			return fmt.Errorf("subq: tool %s: %w", spec.Name, err)
		}
	}
	return nil
}

// requiredFields reads the schema's required list, tolerating both the
// typed form and the []any produced by JSON decoding.
func requiredFields(schema map[string]any) []string {
	if req, ok := schema["required"].([]string); ok {
		return req
	}
	reqAny, ok := schema["required"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(reqAny))
	for _, v := range reqAny {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func checkType(name string, value any, expectedType string) error {
	if value == nil {
		return nil // null passes; required-ness is checked separately
	}

	actual := reflect.TypeOf(value).Kind()

	switch expectedType {
	case "string":
		if actual != reflect.String {
			return fmt.Errorf("parameter %s: expected string, got %v", name, actual)
		}
	case "number":
		if actual != reflect.Float64 && actual != reflect.Float32 {
			return fmt.Errorf("parameter %s: expected number, got %v", name, actual)
		}
	case "integer":
		// JSON numbers decode as float64; accept only whole values.
		if f, ok := value.(float64); ok {
			if f != float64(int(f)) {
				return fmt.Errorf("parameter %s: expected integer, got float %v", name, f)
			}
		} else if actual != reflect.Int && actual != reflect.Int64 {
			return fmt.Errorf("parameter %s: expected integer, got %v", name, actual)
		}
	case "boolean":
		if actual != reflect.Bool {
			return fmt.Errorf("parameter %s: expected boolean, got %v", name, actual)
		}
	case "array":
		if actual != reflect.Slice && actual != reflect.Array {
			return fmt.Errorf("parameter %s: expected array, got %v", name, actual)
		}
	case "object":
		if actual != reflect.Map {
			return fmt.Errorf("parameter %s: expected object, got %v", name, actual)
		}
	}
	return nil
}
