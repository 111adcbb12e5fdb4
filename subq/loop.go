package subq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Subquery drives a bounded completion/tool-dispatch loop: one prompt in,
// the model's final plain-text answer out. Each Run owns its conversation
// exclusively; nothing is persisted across invocations.
type Subquery struct {
	cfg        Config
	completion CompletionService
	tools      ToolResolver
	pick       PhrasePicker
}

// New creates a loop over the given completion backend and tool resolver.
func New(completion CompletionService, tools ToolResolver, cfg Config) *Subquery {
	pick := cfg.Picker
	if pick == nil {
		pick = randomPhrase
	}
	return &Subquery{cfg: cfg, completion: completion, tools: tools, pick: pick}
}

// Input is one subquery invocation: the prompt plus the host context
// inherited from the parent session.
type Input struct {
	// Prompt is the subquery request.
	Prompt string
	// IncludeRecentMessages pulls that many trailing parent messages into
	// the subquery context. Default 0 to avoid re-loading big context.
	IncludeRecentMessages int

	User     *User
	Meta     *SessionMeta
	Messages []Message
	Files    []File
	Model    *Model
	Request  *Request
	Emitter  EventEmitter
}

// Run executes the subquery to completion. Fatal failures are reported to
// the emitter (when present) and logged before being returned; the only
// condition converted into model-visible feedback instead of an error is a
// tool the resolver does not know.
func (s *Subquery) Run(ctx context.Context, in Input) (string, error) {
	emitStatus(ctx, in.Emitter, s.pick(startPhrases), false, false)

	out, err := s.run(ctx, in)
	if err != nil {
		emit(ctx, in.Emitter, Event{Type: "chat:message:error", Data: ErrorData{Content: err.Error()}})
		slog.Error("subquery failed", "error", err)
		return "", err
	}
	return out, nil
}

func (s *Subquery) run(ctx context.Context, in Input) (string, error) {
	if in.Request == nil {
		return "", ErrNoRequest
	}
	if in.User == nil {
		return "", ErrNoUser
	}
	if in.Model == nil || in.Model.ID == "" {
		return "", ErrNoModel
	}

	// Inherit the parent's params, then force native tool calling.
	params := map[string]any{}
	if in.Meta != nil {
		for k, v := range in.Meta.Params {
			params[k] = v
		}
	}
	params["function_calling"] = "native"

	// Preserve enabled tools but exclude this tool itself, so the model
	// cannot nest subqueries.
	var toolIDs []string
	if in.Meta != nil {
		for _, id := range in.Meta.ToolIDs {
			if !strings.EqualFold(id, s.cfg.selfID()) {
				toolIDs = append(toolIDs, id)
			}
		}
	}

	registry := map[string]ToolEntry{}
	if len(toolIDs) > 0 {
		extra := map[string]any{ParamModel: in.Model, ParamUser: in.User}
		resolved, err := s.tools.Resolve(ctx, in.Request, toolIDs, in.User, extra)
		if err != nil {
			return "", err
		}
		registry = resolved
	}

	d := &dispatcher{registry: registry, validate: s.cfg.ValidateArgs}
	if s.cfg.CacheTTL > 0 && s.cfg.CacheMaxSize > 0 {
		d.cache = newResultCache(s.cfg.CacheTTL, s.cfg.CacheMaxSize)
	}

	messages := buildConversation(in.Messages, in.IncludeRecentMessages, in.Prompt)
	maxRounds := s.cfg.maxRounds()

	for round := 0; round < maxRounds; round++ {
		req := CompletionRequest{
			Model:    in.Model.ID,
			Messages: messages,
			Stream:   false,
			Params:   params,
		}
		if len(in.Files) > 0 {
			req.Files = in.Files
		}
		if len(toolIDs) > 0 {
			req.ToolIDs = toolIDs
		}

		resp, err := s.completion.Complete(ctx, req, in.User)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("subq: completion returned no choices")
		}
		msg := resp.Choices[0].Message
		content := msg.Content

		// Prefer structured calls; otherwise fall back to inline markup.
		calls := normalizeToolCalls(msg.ToolCalls)
		if len(calls) == 0 {
			if parsed := normalizeToolCalls(callsToAny(extractTextToolCalls(content))); len(parsed) > 0 {
				calls = parsed
				// Keep only the natural-language part before the first tag.
				content = contentBeforeMarker(content)
			}
		}

		// No calls by either path: the loop is done.
		if len(calls) == 0 {
			emitStatus(ctx, in.Emitter, s.pick(donePhrases), true, true)
			return strings.TrimSpace(content), nil
		}

		if phrase := dispatchPhrase(s.pick, calls); phrase != "" {
			emitStatus(ctx, in.Emitter, phrase, false, false)
		}

		messages = append(messages, Message{
			Role:      RoleAssistant,
			Content:   content,
			ToolCalls: calls,
		})

		env := dispatchEnv{
			User:    in.User,
			Meta:    in.Meta,
			Files:   in.Files,
			Model:   in.Model,
			Request: in.Request,
			Emitter: in.Emitter,
		}
		for _, tc := range calls {
			env.Messages = messages
			reply, err := d.dispatch(ctx, tc, env)
			if err != nil {
				return "", err
			}
			messages = append(messages, reply)
		}
	}

	return "", &MaxRoundsError{Limit: maxRounds}
}
