package subq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Builder constructs ToolEntry values from Go functions with automatic
// schema generation. The schema's property names become the entry's
// declared dispatch parameters, so the static metadata the dispatcher
// filters on is fixed at registration time.
type Builder struct {
	entries []ToolEntry
}

// ToolOption tweaks an entry at registration.
type ToolOption func(*ToolEntry)

// WithContextParams declares host context values (ParamUser, ParamModel,
// ...) the handler wants in its args map.
func WithContextParams(names ...string) ToolOption {
	return func(e *ToolEntry) {
		e.Params = append(e.Params, names...)
	}
}

// WithCatchAll marks the handler as accepting every supplied keyword
// unfiltered.
func WithCatchAll() ToolOption {
	return func(e *ToolEntry) {
		e.CatchAll = true
	}
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddFunc registers a Go function as a tool. The expected signature is
// func(ctx context.Context, params T) (any, error) where T is a struct;
// T's fields and tags drive the generated JSON schema.
func (b *Builder) AddFunc(name, description string, fn any, opts ...ToolOption) error {
	handler, schema, err := wrapFunction(fn)
	if err != nil {
		return fmt.Errorf("subq: failed to wrap function %s: %w", name, err)
	}
	b.add(ToolSpec{Name: name, Description: description, Parameters: schema}, handler, opts)
	return nil
}

// AddTool registers a pre-built spec and handler.
func (b *Builder) AddTool(spec ToolSpec, handler ToolHandler, opts ...ToolOption) {
	b.add(spec, handler, opts)
}

func (b *Builder) add(spec ToolSpec, handler ToolHandler, opts []ToolOption) {
	entry := ToolEntry{
		Spec:    spec,
		Handler: handler,
		Params:  schemaParamNames(spec.Parameters),
	}
	for _, opt := range opts {
		opt(&entry)
	}
	b.entries = append(b.entries, entry)
}

// Build returns the accumulated entries.
func (b *Builder) Build() []ToolEntry {
	return b.entries
}

// schemaParamNames lists the schema's top-level property names, sorted.
func schemaParamNames(schema map[string]any) []string {
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// wrapFunction inspects a Go function and produces a ToolHandler plus JSON
// schema. Expected signature: func(ctx context.Context, input T) (any, error).
func wrapFunction(fn any) (ToolHandler, map[string]any, error) {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()

	if fnType.Kind() != reflect.Func {
		return nil, nil, errors.New("handler must be a function")
	}
	if fnType.NumIn() != 2 {
		return nil, nil, errors.New("function must have exactly 2 parameters: (context.Context, ParamsStruct)")
	}
	if fnType.NumOut() != 2 {
		return nil, nil, errors.New("function must return exactly 2 values: (result any, error)")
	}

	ctxType := reflect.TypeOf((*context.Context)(nil)).Elem()
	if !fnType.In(0).Implements(ctxType) {
		return nil, nil, errors.New("first parameter must be context.Context")
	}
	errType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errType) {
		return nil, nil, errors.New("second return value must be error")
	}

	paramsType := fnType.In(1)
	if paramsType.Kind() != reflect.Struct {
		return nil, nil, errors.New("second parameter must be a struct")
	}

	schema, err := structSchema(paramsType)
	if err != nil {
		return nil, nil, fmt.Errorf("schema generation failed: %w", err)
	}

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		argsJSON, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal args: %w", err)
		}
		paramsVal := reflect.New(paramsType).Interface()
		if err := json.Unmarshal(argsJSON, paramsVal); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args into %s: %w", paramsType.Name(), err)
		}

		results := fnVal.Call([]reflect.Value{
			reflect.ValueOf(ctx),
			reflect.ValueOf(paramsVal).Elem(),
		})
		resultVal := results[0].Interface()
		errVal := results[1].Interface()
		if errVal != nil {
			return nil, errVal.(error)
		}
		return resultVal, nil
	}

	return handler, schema, nil
}

// structSchema creates a JSON schema object from a struct's fields and tags.
func structSchema(t reflect.Type) (map[string]any, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.New("type must be a struct")
	}

	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		fieldName := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
			if !containsString(parts, "omitempty") {
				required = append(required, fieldName)
			}
		} else {
			required = append(required, fieldName)
		}

		fieldSchema := typeSchema(field.Type)
		if desc := field.Tag.Get("description"); desc != "" {
			fieldSchema["description"] = desc
		}
		properties[fieldName] = fieldSchema
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

// typeSchema maps a Go type to a JSON schema primitive.
func typeSchema(t reflect.Type) map[string]any {
	schema := make(map[string]any)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		schema["type"] = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		schema["type"] = "integer"
	case reflect.Float32, reflect.Float64:
		schema["type"] = "number"
	case reflect.Bool:
		schema["type"] = "boolean"
	case reflect.Slice, reflect.Array:
		schema["type"] = "array"
		schema["items"] = typeSchema(t.Elem())
	case reflect.Struct:
		nested, _ := structSchema(t)
		return nested
	case reflect.Map:
		schema["type"] = "object"
	default:
		schema["type"] = "string" // fallback
	}
	return schema
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
