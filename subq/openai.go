package subq

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompletion adapts an OpenAI-compatible chat endpoint to
// CompletionService. The registry supplies the tool definitions announced
// to the model for the request's tool identifiers.
type OpenAICompletion struct {
	client   *openai.Client
	registry *Registry
}

var _ CompletionService = (*OpenAICompletion)(nil)

// NewOpenAICompletion creates the adapter. registry may be nil when the
// sessions using it never inherit tools.
func NewOpenAICompletion(client *openai.Client, registry *Registry) *OpenAICompletion {
	return &OpenAICompletion{client: client, registry: registry}
}

// Complete performs one non-streaming chat completion.
func (c *OpenAICompletion) Complete(ctx context.Context, req CompletionRequest, user *User) (CompletionResponse, error) {
	oreq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toOpenAIMessages(req.Messages),
	}
	if user != nil {
		oreq.User = user.ID
	}
	if len(req.ToolIDs) > 0 && c.registry != nil {
		oreq.Tools = toOpenAITools(c.registry.Specs(req.ToolIDs))
	}
	applyOpenAIParams(&oreq, req.Params)

	resp, err := c.client.CreateChatCompletion(ctx, oreq)
	if err != nil {
		return CompletionResponse{}, err
	}

	out := CompletionResponse{Choices: make([]Choice, 0, len(resp.Choices))}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, Choice{Message: ResponseMessage{
			Content:   choice.Message.Content,
			ToolCalls: fromOpenAIToolCalls(choice.Message.ToolCalls),
		}})
	}
	return out, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		om := openai.ChatCompletionMessage{
			Role:       m.Role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			idx := tc.Index
			om.ToolCalls = append(om.ToolCalls, openai.ToolCall{
				Index: &idx,
				ID:    tc.ID,
				Type:  openai.ToolType(tc.Type),
				Function: openai.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		out = append(out, om)
	}
	return out
}

func toOpenAITools(specs []ToolSpec) []openai.Tool {
	tools := make([]openai.Tool, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}
	return tools
}

// fromOpenAIToolCalls widens provider calls into the loose shape the
// normalizer repairs; a call without an index stays index-less here.
func fromOpenAIToolCalls(calls []openai.ToolCall) []any {
	out := make([]any, 0, len(calls))
	for _, tc := range calls {
		m := map[string]any{
			"id":   tc.ID,
			"type": string(tc.Type),
			"function": map[string]any{
				"name":      tc.Function.Name,
				"arguments": tc.Function.Arguments,
			},
		}
		if tc.Index != nil {
			m["index"] = *tc.Index
		}
		out = append(out, m)
	}
	return out
}

// applyOpenAIParams maps the inherited parameter set onto the request.
// Unknown keys are ignored; function_calling has no wire equivalent since
// announcing tools already selects native calls.
func applyOpenAIParams(req *openai.ChatCompletionRequest, params map[string]any) {
	if v, ok := floatParam(params, "temperature"); ok {
		req.Temperature = float32(v)
	}
	if v, ok := floatParam(params, "top_p"); ok {
		req.TopP = float32(v)
	}
	if v, ok := intParam(params, "max_tokens"); ok {
		req.MaxCompletionTokens = v
	}
	if v, ok := params["stop"].([]string); ok {
		req.Stop = v
	}
	if v, ok := intParam(params, "seed"); ok {
		req.Seed = &v
	}
}

func floatParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func intParam(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}
