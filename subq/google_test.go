package subq

import (
	"testing"

	"google.golang.org/genai"
)

func TestToGenAIContents(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleSystem, Content: "more framing"},
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "checking", ToolCalls: []ToolCall{
			{Index: 0, ID: "c1", Type: "function", Function: FunctionCall{Name: "echo", Arguments: `{"msg":"hi"}`}},
			{Index: 1, ID: "c2", Type: "function", Function: FunctionCall{Name: "count", Arguments: ""}},
		}},
		{Role: RoleTool, Content: "hi", ToolCallID: "c1", Name: "echo"},
		{Role: RoleTool, Content: "2", ToolCallID: "c2", Name: "count"},
	}

	contents, system := toGenAIContents(msgs)
	if system != "persona\nmore framing" {
		t.Errorf("system turns must fold into one instruction, got %q", system)
	}
	if len(contents) != 3 {
		t.Fatalf("expected user + model + merged tool turn, got %d", len(contents))
	}

	model := contents[1]
	if model.Role != "model" {
		t.Errorf("assistant must map to model role, got %q", model.Role)
	}
	if len(model.Parts) != 3 {
		t.Fatalf("expected text + 2 function calls, got %d parts", len(model.Parts))
	}
	fc := model.Parts[1].FunctionCall
	if fc == nil || fc.Name != "echo" || fc.Args["msg"] != "hi" {
		t.Errorf("function call part wrong: %+v", model.Parts[1])
	}
	if model.Parts[2].FunctionCall == nil || len(model.Parts[2].FunctionCall.Args) != 0 {
		t.Errorf("empty arguments must become an empty args map: %+v", model.Parts[2])
	}

	replies := contents[2]
	if replies.Role != "user" || len(replies.Parts) != 2 {
		t.Fatalf("consecutive tool replies must merge into one turn: %+v", replies)
	}
	fr := replies.Parts[0].FunctionResponse
	if fr == nil || fr.Name != "echo" || fr.Response["output"] != "hi" {
		t.Errorf("function response wrong: %+v", replies.Parts[0])
	}
}

func TestGenAIText(t *testing.T) {
	if genAIText(nil) != "" {
		t.Error("nil response must yield empty text")
	}

	res := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "first"},
				{FunctionCall: &genai.FunctionCall{Name: "skip"}},
				{Text: "second"},
			}},
		}},
	}
	if got := genAIText(res); got != "first\nsecond" {
		t.Errorf("text parts must join with newline, got %q", got)
	}
}

func TestToGenAIToolsAndParams(t *testing.T) {
	tools := toGenAITools([]ToolSpec{{Name: "echo", Description: "Echo", Parameters: map[string]any{"type": "object"}}})
	if len(tools) != 1 || len(tools[0].FunctionDeclarations) != 1 {
		t.Fatalf("unexpected tools: %+v", tools)
	}
	if tools[0].FunctionDeclarations[0].Name != "echo" {
		t.Errorf("unexpected declaration: %+v", tools[0].FunctionDeclarations[0])
	}

	cfg := &genai.GenerateContentConfig{}
	applyGenAIParams(cfg, map[string]any{"temperature": 0.5, "max_tokens": 128})
	if cfg.Temperature == nil || *cfg.Temperature != 0.5 {
		t.Errorf("temperature not applied: %v", cfg.Temperature)
	}
	if cfg.MaxOutputTokens != 128 {
		t.Errorf("max_tokens not applied: %v", cfg.MaxOutputTokens)
	}
}
