package subq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GoogleCompletion adapts the Gemini API to CompletionService. Gemini has
// no tool_call_id on the wire, so call ids are synthesized per batch and
// the tool name alone routes function responses back.
type GoogleCompletion struct {
	client   *genai.Client
	registry *Registry
}

var _ CompletionService = (*GoogleCompletion)(nil)

// NewGoogleCompletion creates the adapter.
func NewGoogleCompletion(client *genai.Client, registry *Registry) *GoogleCompletion {
	return &GoogleCompletion{client: client, registry: registry}
}

// Complete performs one non-streaming generation.
func (c *GoogleCompletion) Complete(ctx context.Context, req CompletionRequest, user *User) (CompletionResponse, error) {
	cfg := &genai.GenerateContentConfig{}
	applyGenAIParams(cfg, req.Params)

	contents, system := toGenAIContents(req.Messages)
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if len(req.ToolIDs) > 0 && c.registry != nil {
		cfg.Tools = toGenAITools(c.registry.Specs(req.ToolIDs))
		cfg.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		}
	}

	res, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return CompletionResponse{}, err
	}

	msg := ResponseMessage{Content: genAIText(res)}
	for i, fc := range res.FunctionCalls() {
		args, err := json.Marshal(fc.Args)
		if err != nil {
			return CompletionResponse{}, fmt.Errorf("subq: could not encode function call args for %s: %w", fc.Name, err)
		}
		msg.ToolCalls = append(msg.ToolCalls, map[string]any{
			"index": i,
			"id":    fmt.Sprintf("call_genai_%d", i),
			"type":  "function",
			"function": map[string]any{
				"name":      fc.Name,
				"arguments": string(args),
			},
		})
	}
	return CompletionResponse{Choices: []Choice{{Message: msg}}}, nil
}

// toGenAIContents converts the conversation. System turns are folded into
// one instruction string; assistant tool calls become FunctionCall parts;
// consecutive tool replies merge into one function-response turn, the
// shape Gemini expects after a model call turn.
func toGenAIContents(msgs []Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	var system []string

	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)

		case RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Content}},
			})

		case RoleAssistant:
			content := &genai.Content{Role: "model"}
			if m.Content != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: m.Content})
			}
			for _, tc := range m.ToolCalls {
				args := map[string]any{}
				if strings.TrimSpace(tc.Function.Arguments) != "" {
					_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
				}
				content.Parts = append(content.Parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						Name: tc.Function.Name,
						Args: args,
					},
				})
			}
			contents = append(contents, content)

		case RoleTool:
			part := &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     m.Name,
					Response: map[string]any{"output": m.Content},
				},
			}
			last := len(contents) - 1
			if last >= 0 && contents[last].Role == "user" && len(contents[last].Parts) > 0 && contents[last].Parts[0].FunctionResponse != nil {
				contents[last].Parts = append(contents[last].Parts, part)
			} else {
				contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{part}})
			}
		}
	}

	return contents, strings.Join(system, "\n")
}

func toGenAITools(specs []ToolSpec) []*genai.Tool {
	out := make([]*genai.Tool, 0, len(specs))
	for _, spec := range specs {
		out = append(out, &genai.Tool{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:                 spec.Name,
					Description:          spec.Description,
					ParametersJsonSchema: spec.Parameters,
				},
			},
		})
	}
	return out
}

// genAIText concatenates the first candidate's text parts.
func genAIText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, p := range res.Candidates[0].Content.Parts {
		if p.Text == "" {
			continue
		}
		if text == "" {
			text = p.Text
		} else {
			text += "\n" + p.Text
		}
	}
	return text
}

func applyGenAIParams(cfg *genai.GenerateContentConfig, params map[string]any) {
	if v, ok := floatParam(params, "temperature"); ok {
		cfg.Temperature = genai.Ptr[float32](float32(v))
	}
	if v, ok := floatParam(params, "top_p"); ok {
		cfg.TopP = genai.Ptr[float32](float32(v))
	}
	if v, ok := intParam(params, "max_tokens"); ok {
		cfg.MaxOutputTokens = int32(v)
	}
}
