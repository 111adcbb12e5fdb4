package subq

import "time"

const (
	// DefaultMaxRounds bounds the completion/dispatch cycle.
	DefaultMaxRounds = 8

	// DefaultSelfID is the tool identifier of the subquery itself. It is
	// stripped from the inherited tool set so the model cannot recurse into
	// another subquery.
	DefaultSelfID = "subquery"
)

// Config holds construction-time settings for a Subquery loop.
type Config struct {
	// MaxRounds is the hard ceiling on completion rounds. Zero means
	// DefaultMaxRounds.
	MaxRounds int

	// SelfID is excluded (case-insensitively) from the inherited tool ids.
	// Empty means DefaultSelfID.
	SelfID string

	// Picker selects among cosmetic status phrases. Nil means randomized.
	Picker PhrasePicker

	// CacheTTL/CacheMaxSize enable the dispatch result cache when both are
	// positive. Off by default.
	CacheTTL     time.Duration
	CacheMaxSize int

	// ValidateArgs enables schema validation of parsed arguments before
	// each dispatch. Validation failure aborts the subquery.
	ValidateArgs bool
}

func (c Config) maxRounds() int {
	if c.MaxRounds > 0 {
		return c.MaxRounds
	}
	return DefaultMaxRounds
}

func (c Config) selfID() string {
	if c.SelfID != "" {
		return c.SelfID
	}
	return DefaultSelfID
}
