package subq

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

// Event is one progress notification. The sink is purely observational;
// a nil emitter changes nothing about control flow.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// StatusData is the payload of "status" events.
type StatusData struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// ErrorData is the payload of "chat:message:error" events.
type ErrorData struct {
	Content string `json:"content"`
}

// EventEmitter receives progress notifications.
type EventEmitter func(ctx context.Context, ev Event)

// PhrasePicker selects one of the cosmetic status phrases. Injectable so
// tests can pin the choice and assert on event shape, not wording.
type PhrasePicker func(choices []string) string

func randomPhrase(choices []string) string {
	return choices[rand.Intn(len(choices))]
}

var startPhrases = []string{
	"🤔 Initiating subquery inception... (we need to go deeper)",
	"🎭 Spawning a mini-me to handle this request...",
	"🌀 Opening a portal to Subquery Dimension™...",
	"🔮 Consulting my inner assistant about this...",
	"🎪 Time for some recursive shenanigans!",
	"🚀 Launching subquery probe into the unknown...",
	"💭 Asking myself important questions...",
	"🎯 Starting subquery session...",
	"🔄 Entering subquery mode...",
}

var donePhrases = []string{
	"✨ Subquery complete! Back to reality... 🎯",
	"🎉 Mission accomplished! Returning to base...",
	"✅ All done! That was easier than expected!",
	"🏁 Finished! Closing the loop...",
	"💫 Success! Collapsing the recursion...",
	"🎊 Nailed it! Coming back up for air...",
	"✓ Subquery finished!",
	"🔙 Returning from subquery...",
}

// readableName converts a snake_case function name to a display form,
// e.g. get_ticket -> Get Ticket.
func readableName(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// dispatchPhrase describes a tool batch about to run. Only batches of two
// or more calls get a status line.
func dispatchPhrase(pick PhrasePicker, calls []ToolCall) string {
	if len(calls) < 2 {
		return ""
	}
	names := make([]string, len(calls))
	for i, tc := range calls {
		names[i] = readableName(tc.Function.Name)
	}
	if len(calls) == 2 {
		return pick([]string{
			fmt.Sprintf("🛠️ Running: '%s' + '%s'", names[0], names[1]),
			fmt.Sprintf("👯 Executing: '%s' and '%s'", names[0], names[1]),
			fmt.Sprintf("🤝 Calling: '%s' & '%s'", names[0], names[1]),
			fmt.Sprintf("⚔️ Running 2 tools: '%s', '%s'", names[0], names[1]),
			fmt.Sprintf("🎭 Executing: '%s' + '%s'", names[0], names[1]),
		})
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	list := strings.Join(quoted, ", ")
	n := len(calls)
	return pick([]string{
		fmt.Sprintf("⚙️ Running %d tools: %s", n, list),
		fmt.Sprintf("🎉 Executing %d tools: %s", n, list),
		fmt.Sprintf("🎪 Calling %d tools: %s", n, list),
		fmt.Sprintf("🚀 Running %d tools: %s", n, list),
		fmt.Sprintf("🌟 Executing %d tools: %s", n, list),
	})
}

// emit sends an event if an emitter is attached.
func emit(ctx context.Context, emitter EventEmitter, ev Event) {
	if emitter != nil {
		emitter(ctx, ev)
	}
}

func emitStatus(ctx context.Context, emitter EventEmitter, description string, done, hidden bool) {
	emit(ctx, emitter, Event{
		Type: "status",
		Data: StatusData{Description: description, Done: done, Hidden: hidden},
	})
}
