package llm

import (
	"context"
	"time"
)

// Reply is a single backend contribution for one debate round.
type Reply struct {
	Backend string        `json:"backend"`
	Model   string        `json:"model"`
	Round   int           `json:"round"`
	Content string        `json:"content"`
	Latency time.Duration `json:"latency"`
	Tokens  int           `json:"tokens,omitempty"`
}

// Provider defines the capability every debate backend exposes.
//
// Implementations report every fault as an error value. A timeout must carry
// errors.CodeTimeout so the round executor can tell it apart from other
// failures and apply its retry policy.
type Provider interface {
	// Name returns the short backend name used in panels and transcripts.
	Name() string

	// Generate produces the backend's reply for the given round. The round
	// number starts at 1; round 0 is reserved for health pings.
	Generate(ctx context.Context, prompt string, round int) (*Reply, error)
}
