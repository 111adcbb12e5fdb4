package subq

import "context"

// Message roles used on the completion wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn of the subquery conversation, in the same shape the
// completion service consumes. A tool message always carries the ToolCallID
// and Name of the call it answers.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is one canonical tool invocation request. Index is always a
// resolved integer; downstream consumers rely on ordered, integer-indexed
// calls.
type ToolCall struct {
	Index    int          `json:"index"`
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the target and carries its arguments as a JSON-encoded
// object string.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolHandler is invoked when the model requests a tool call. The args map
// holds the parsed arguments merged with any context values the tool
// declared.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// ToolSpec declares a callable function the model may request.
type ToolSpec struct {
	// Name is the unique function name referenced by the model.
	Name string
	// Description helps the model understand when to call this tool.
	Description string
	// Parameters is a JSON Schema object (draft subset).
	Parameters map[string]any
}

// ToolEntry maps a tool name to its invocable handler plus the static
// dispatch metadata: the parameter names the handler accepts, or CatchAll
// when it takes everything unfiltered.
type ToolEntry struct {
	Spec    ToolSpec
	Handler ToolHandler
	// Params are the keyword names passed through to the handler. Derived
	// once at registration; ignored when CatchAll is set.
	Params   []string
	CatchAll bool
}

// User identifies the calling user of the parent session.
type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Model describes the model the parent session runs on. ID must be set.
type Model struct {
	ID   string
	Name string
	Info map[string]any
}

// SessionMeta is the metadata inherited from the parent session: its
// parameter map and the tool identifiers it has enabled.
type SessionMeta struct {
	ChatID    string
	SessionID string
	Params    map[string]any
	ToolIDs   []string
}

// File is an opaque file attachment forwarded to the completion service.
type File map[string]any

// Request is the host request/session handle. The loop never inspects it
// beyond a nil check; it is handed through to the tool resolver and to
// tools that ask for it.
type Request struct {
	ID     string
	Values map[string]any
}
