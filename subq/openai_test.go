package subq

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestToOpenAIMessages(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "checking", ToolCalls: []ToolCall{
			{Index: 0, ID: "c1", Type: "function", Function: FunctionCall{Name: "echo", Arguments: `{"msg":"hi"}`}},
		}},
		{Role: RoleTool, Content: "hi", ToolCallID: "c1", Name: "echo"},
	}

	out := toOpenAIMessages(msgs)
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	assistant := out[1]
	if len(assistant.ToolCalls) != 1 {
		t.Fatalf("assistant tool calls lost in conversion: %+v", assistant)
	}
	tc := assistant.ToolCalls[0]
	if tc.Index == nil || *tc.Index != 0 {
		t.Errorf("index must convert to a set pointer, got %v", tc.Index)
	}
	if tc.ID != "c1" || tc.Type != openai.ToolTypeFunction || tc.Function.Name != "echo" {
		t.Errorf("unexpected converted call: %+v", tc)
	}
	tool := out[2]
	if tool.Role != openai.ChatMessageRoleTool || tool.ToolCallID != "c1" || tool.Name != "echo" {
		t.Errorf("tool reply conversion wrong: %+v", tool)
	}
}

func TestToOpenAITools(t *testing.T) {
	specs := []ToolSpec{
		{Name: "echo", Description: "Echo", Parameters: map[string]any{"type": "object"}},
	}
	tools := toOpenAITools(specs)
	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	if tools[0].Type != openai.ToolTypeFunction || tools[0].Function.Name != "echo" {
		t.Errorf("unexpected tool: %+v", tools[0])
	}
}

func TestFromOpenAIToolCalls(t *testing.T) {
	idx := 1
	raw := fromOpenAIToolCalls([]openai.ToolCall{
		{ID: "a", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "one", Arguments: "{}"}},
		{Index: &idx, ID: "b", Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: "two", Arguments: `{"x":1}`}},
	})
	if len(raw) != 2 {
		t.Fatalf("expected 2 raw calls, got %d", len(raw))
	}

	first := raw[0].(map[string]any)
	if _, ok := first["index"]; ok {
		t.Error("a call without an index must stay index-less for the normalizer")
	}
	second := raw[1].(map[string]any)
	if second["index"] != 1 {
		t.Errorf("expected index 1 preserved, got %v", second["index"])
	}

	// The loose shape must round-trip through normalization.
	calls := normalizeToolCalls(raw)
	if calls[0].Index != 0 || calls[1].Index != 1 {
		t.Errorf("normalization of adapter output wrong: %+v", calls)
	}
	if calls[1].Function.Arguments != `{"x":1}` {
		t.Errorf("arguments lost in conversion: %q", calls[1].Function.Arguments)
	}
}

func TestApplyOpenAIParams(t *testing.T) {
	req := &openai.ChatCompletionRequest{}
	applyOpenAIParams(req, map[string]any{
		"temperature":      0.3,
		"top_p":            0.9,
		"max_tokens":       float64(256),
		"seed":             7,
		"function_calling": "native",
		"unknown_knob":     "ignored",
	})
	if req.Temperature != 0.3 {
		t.Errorf("temperature not applied: %v", req.Temperature)
	}
	if req.TopP != 0.9 {
		t.Errorf("top_p not applied: %v", req.TopP)
	}
	if req.MaxCompletionTokens != 256 {
		t.Errorf("max_tokens not applied: %v", req.MaxCompletionTokens)
	}
	if req.Seed == nil || *req.Seed != 7 {
		t.Errorf("seed not applied: %v", req.Seed)
	}
}
