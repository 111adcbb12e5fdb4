package subq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// dispatcher resolves and invokes tool calls against a resolved registry.
// Calls run strictly in the order given; the dispatcher has no visibility
// into side effects a tool performs.
type dispatcher struct {
	registry map[string]ToolEntry
	cache    *resultCache
	validate bool
}

// dispatchEnv carries the host context values offered to every call.
type dispatchEnv struct {
	User     *User
	Meta     *SessionMeta
	Messages []Message
	Files    []File
	Model    *Model
	Request  *Request
	Emitter  EventEmitter
}

// dispatch executes one call and returns the tool-role reply for it.
// An unregistered name is recoverable: the reply carries a not-found
// notice instead of a result. Every other failure is returned as an error
// and aborts the whole subquery.
func (d *dispatcher) dispatch(ctx context.Context, tc ToolCall, env dispatchEnv) (Message, error) {
	name := tc.Function.Name
	reply := Message{Role: RoleTool, ToolCallID: tc.ID, Name: name}

	entry, ok := d.registry[name]
	if !ok {
		reply.Content = fmt.Sprintf("Tool '%s' not found", name)
		return reply, nil
	}

	rawArgs := tc.Function.Arguments
	args := map[string]any{}
	if strings.TrimSpace(rawArgs) != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return Message{}, fmt.Errorf("subq: invalid arguments for tool %s: %w", name, err)
		}
	}

	if d.validate {
		if err := validateArgs(entry.Spec, args); err != nil {
			return Message{}, err
		}
	}

	if d.cache != nil {
		if content, ok := d.cache.get(name, rawArgs); ok {
			reply.Content = content
			return reply, nil
		}
	}

	kwargs := buildKwargs(args, env)
	if !entry.CatchAll {
		kwargs = filterKwargs(kwargs, entry.Params)
	}

	result, err := entry.Handler(ctx, kwargs)
	if err != nil {
		return Message{}, fmt.Errorf("subq: tool %s failed: %w", name, err)
	}

	content, err := serializeResult(result)
	if err != nil {
		return Message{}, fmt.Errorf("subq: tool %s returned an unencodable result: %w", name, err)
	}
	if d.cache != nil {
		d.cache.set(name, rawArgs, content)
	}

	reply.Content = content
	return reply, nil
}

// buildKwargs merges parsed arguments with the fixed set of host context
// values a tool may declare.
func buildKwargs(args map[string]any, env dispatchEnv) map[string]any {
	kwargs := make(map[string]any, len(args)+7)
	for k, v := range args {
		kwargs[k] = v
	}
	kwargs[ParamUser] = env.User
	kwargs[ParamMeta] = env.Meta
	kwargs[ParamMessages] = env.Messages
	kwargs[ParamFiles] = env.Files
	kwargs[ParamModel] = env.Model
	kwargs[ParamRequest] = env.Request
	kwargs[ParamEmitter] = env.Emitter
	return kwargs
}

// filterKwargs keeps only the keyword names the handler declares.
func filterKwargs(kwargs map[string]any, declared []string) map[string]any {
	allowed := make(map[string]bool, len(declared))
	for _, name := range declared {
		allowed[name] = true
	}
	out := make(map[string]any, len(declared))
	for k, v := range kwargs {
		if allowed[k] {
			out[k] = v
		}
	}
	return out
}

// serializeResult renders a tool result for the transcript: text as-is,
// anything else JSON-encoded.
func serializeResult(result any) (string, error) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
