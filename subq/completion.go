package subq

import "context"

// CompletionService is the model backend the loop drives. One call per
// round, always non-streaming. Errors must propagate unchanged; the loop
// never retries a completion.
type CompletionService interface {
	Complete(ctx context.Context, req CompletionRequest, user *User) (CompletionResponse, error)
}

// CompletionRequest is one round's request payload.
type CompletionRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Params   map[string]any `json:"params,omitempty"`
	Files    []File         `json:"files,omitempty"`
	ToolIDs  []string       `json:"tool_ids,omitempty"`
}

// CompletionResponse mirrors the chat-completion response surface the loop
// reads: choices[0].message with content and optional tool calls.
type CompletionResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice is one response candidate.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage keeps tool calls loosely typed; backends differ in what
// they put there and the loop normalizes before use.
type ResponseMessage struct {
	Content   string `json:"content"`
	ToolCalls []any  `json:"tool_calls,omitempty"`
}
