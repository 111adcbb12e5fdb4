package subq

import (
	"strings"
	"testing"
)

func TestReadableName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"get_ticket", "Get Ticket"},
		{"search_issues", "Search Issues"},
		{"create_comment", "Create Comment"},
		{"echo", "Echo"},
		{"HTTP_get", "Http Get"},
	}
	for _, tc := range cases {
		if got := readableName(tc.in); got != tc.want {
			t.Errorf("readableName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDispatchPhrase(t *testing.T) {
	mkCalls := func(names ...string) []ToolCall {
		calls := make([]ToolCall, len(names))
		for i, n := range names {
			calls[i] = ToolCall{Index: i, Function: FunctionCall{Name: n}}
		}
		return calls
	}

	if phrase := dispatchPhrase(firstPhrase, mkCalls("solo_tool")); phrase != "" {
		t.Errorf("single call must produce no phrase, got %q", phrase)
	}

	two := dispatchPhrase(firstPhrase, mkCalls("get_ticket", "search_issues"))
	if !strings.Contains(two, "Get Ticket") || !strings.Contains(two, "Search Issues") {
		t.Errorf("two-call phrase must name both tools, got %q", two)
	}

	many := dispatchPhrase(firstPhrase, mkCalls("a_tool", "b_tool", "c_tool"))
	if !strings.Contains(many, "3") {
		t.Errorf("multi-call phrase must carry the count, got %q", many)
	}
	for _, name := range []string{"'A Tool'", "'B Tool'", "'C Tool'"} {
		if !strings.Contains(many, name) {
			t.Errorf("multi-call phrase missing %s: %q", name, many)
		}
	}
}

func TestEmit_NilEmitterIsSafe(t *testing.T) {
	// Must not panic.
	emitStatus(t.Context(), nil, "quiet", false, false)
	emit(t.Context(), nil, Event{Type: "status"})
}
