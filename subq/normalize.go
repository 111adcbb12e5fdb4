package subq

import (
	"encoding/json"
	"strconv"
)

// normalizeToolCalls canonicalizes a loosely typed call batch into
// []ToolCall. Entries may be already-canonical ToolCall values or decoded
// JSON objects; anything else is dropped silently. Every surviving entry
// gets an integer index: a digit string is repaired, any other missing or
// wrong-typed index becomes the entry's position in the batch.
func normalizeToolCalls(raw []any) []ToolCall {
	out := make([]ToolCall, 0, len(raw))
	for i, entry := range raw {
		switch tc := entry.(type) {
		case ToolCall:
			out = append(out, tc)
		case *ToolCall:
			if tc != nil {
				out = append(out, *tc)
			}
		case map[string]any:
			out = append(out, callFromMap(tc, i))
		}
	}
	return out
}

func callFromMap(m map[string]any, pos int) ToolCall {
	tc := ToolCall{
		Index: resolveIndex(m["index"], pos),
		ID:    stringField(m, "id"),
		Type:  stringField(m, "type"),
	}
	if tc.Type == "" {
		tc.Type = "function"
	}
	if fn, ok := m["function"].(map[string]any); ok {
		tc.Function.Name = stringField(fn, "name")
		tc.Function.Arguments = argumentsField(fn["arguments"])
	}
	return tc
}

// resolveIndex repairs the index field: ints pass through, whole JSON
// numbers are narrowed, digit strings are parsed, everything else falls
// back to the positional index.
func resolveIndex(v any, pos int) int {
	switch idx := v.(type) {
	case int:
		return idx
	case int64:
		return int(idx)
	case float64:
		if idx == float64(int(idx)) {
			return int(idx)
		}
	case json.Number:
		if n, err := strconv.Atoi(idx.String()); err == nil {
			return n
		}
	case string:
		if n, err := strconv.Atoi(idx); err == nil && n >= 0 {
			return n
		}
	}
	return pos
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// argumentsField keeps argument text as-is; a structured value that slipped
// through is re-encoded so the field is always a JSON object string.
func argumentsField(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	default:
		b, err := json.Marshal(a)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// callsToAny widens a canonical batch back to the loose shape
// normalizeToolCalls accepts.
func callsToAny(calls []ToolCall) []any {
	out := make([]any, len(calls))
	for i, tc := range calls {
		out[i] = tc
	}
	return out
}
