package subq

import (
	"context"
	"sort"
	"strings"
)

// Context value names a tool may declare to receive host state alongside
// its parsed arguments.
const (
	ParamUser     = "user"
	ParamMeta     = "metadata"
	ParamMessages = "messages"
	ParamFiles    = "files"
	ParamModel    = "model"
	ParamRequest  = "request"
	ParamEmitter  = "emitter"
)

// ToolResolver resolves a set of tool identifiers into invocable entries.
// The extra map carries at least the calling user and model descriptor.
type ToolResolver interface {
	Resolve(ctx context.Context, req *Request, toolIDs []string, user *User, extra map[string]any) (map[string]ToolEntry, error)
}

// Registry is an in-memory ToolResolver. A tool identifier groups one or
// more function entries, mirroring how a host enables tools per session.
type Registry struct {
	byID map[string][]ToolEntry
}

var _ ToolResolver = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string][]ToolEntry)}
}

// Register adds entries under a tool identifier. Identifiers are matched
// case-insensitively at resolve time.
func (r *Registry) Register(toolID string, entries ...ToolEntry) {
	key := strings.ToLower(toolID)
	r.byID[key] = append(r.byID[key], entries...)
}

// Resolve returns the function-name map for the requested identifiers.
// Unknown identifiers are skipped; requesting none yields an empty map.
func (r *Registry) Resolve(_ context.Context, _ *Request, toolIDs []string, _ *User, _ map[string]any) (map[string]ToolEntry, error) {
	out := make(map[string]ToolEntry)
	for _, id := range toolIDs {
		for _, entry := range r.byID[strings.ToLower(id)] {
			out[entry.Spec.Name] = entry
		}
	}
	return out, nil
}

// Specs returns the declared specs for the given identifiers, for handing
// tool definitions to a completion backend. Sorted by name for stable
// request payloads.
func (r *Registry) Specs(toolIDs []string) []ToolSpec {
	seen := make(map[string]bool)
	var specs []ToolSpec
	for _, id := range toolIDs {
		for _, entry := range r.byID[strings.ToLower(id)] {
			if !seen[entry.Spec.Name] {
				seen[entry.Spec.Name] = true
				specs = append(specs, entry.Spec)
			}
		}
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}
