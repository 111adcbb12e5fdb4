package subq

import (
	"reflect"
	"testing"
)

func rawCall(index any, id, name, args string) map[string]any {
	m := map[string]any{
		"id":   id,
		"type": "function",
		"function": map[string]any{
			"name":      name,
			"arguments": args,
		},
	}
	if index != nil {
		m["index"] = index
	}
	return m
}

func TestNormalizeToolCalls_IndexRepair(t *testing.T) {
	cases := []struct {
		name  string
		index any
		pos   int
		want  int
	}{
		{"int passes through", 4, 0, 4},
		{"json number narrows", float64(3), 0, 3},
		{"digit string parses", "7", 0, 7},
		{"non-digit string falls back", "abc", 2, 2},
		{"negative string falls back", "-3", 1, 1},
		{"fractional falls back", 2.5, 0, 0},
		{"bool falls back", true, 3, 3},
		{"absent falls back", nil, 5, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveIndex(tc.index, tc.pos)
			if got != tc.want {
				t.Errorf("resolveIndex(%v, %d) = %d, want %d", tc.index, tc.pos, got, tc.want)
			}
		})
	}
}

func TestNormalizeToolCalls_PositionalFallbackUsesBatchPosition(t *testing.T) {
	raw := []any{
		rawCall(nil, "a", "first", "{}"),
		rawCall("x", "b", "second", "{}"),
		rawCall(2, "c", "third", "{}"),
	}
	calls := normalizeToolCalls(raw)
	if len(calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(calls))
	}
	for i, want := range []int{0, 1, 2} {
		if calls[i].Index != want {
			t.Errorf("calls[%d].Index = %d, want %d", i, calls[i].Index, want)
		}
	}
}

func TestNormalizeToolCalls_DropsNonMaps(t *testing.T) {
	raw := []any{
		"not a call",
		42,
		nil,
		rawCall(nil, "a", "real", `{"x":1}`),
		[]any{"still not a call"},
	}
	calls := normalizeToolCalls(raw)
	if len(calls) != 1 {
		t.Fatalf("expected 1 surviving call, got %d", len(calls))
	}
	if calls[0].Function.Name != "real" {
		t.Errorf("wrong call survived: %+v", calls[0])
	}
	// The survivor sits at batch position 3.
	if calls[0].Index != 3 {
		t.Errorf("expected positional index 3, got %d", calls[0].Index)
	}
}

func TestNormalizeToolCalls_Idempotent(t *testing.T) {
	raw := []any{
		rawCall("1", "a", "one", `{"k":"v"}`),
		rawCall(nil, "b", "two", ""),
	}
	first := normalizeToolCalls(raw)
	second := normalizeToolCalls(callsToAny(first))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalization not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalizeToolCalls_DefaultsTypeAndEncodesStructuredArgs(t *testing.T) {
	raw := []any{
		map[string]any{
			"id": "a",
			"function": map[string]any{
				"name":      "calc",
				"arguments": map[string]any{"x": float64(1)},
			},
		},
	}
	calls := normalizeToolCalls(raw)
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Type != "function" {
		t.Errorf("expected default type 'function', got %q", calls[0].Type)
	}
	if calls[0].Function.Arguments != `{"x":1}` {
		t.Errorf("expected re-encoded arguments, got %q", calls[0].Function.Arguments)
	}
}
