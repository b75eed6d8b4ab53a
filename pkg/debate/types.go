package debate

import (
	"time"

	"github.com/jllopis/council/pkg/llm"
)

// Question is the subject under debate. Source records where the question
// came from ("cli", a file path, an inbox entry) and is carried into the
// saved transcript header.
type Question struct {
	Text   string
	Source string
}

// Round holds the accepted replies of one debate round. Replies keep panel
// order, contain at most one entry per backend, and are never empty: a
// round in which every backend failed is reported as an error, not as a
// Round.
type Round struct {
	Number  int
	Replies []*llm.Reply
}

// Outcome is the finished debate as handed to the result consumer.
type Outcome struct {
	RunID    string
	Question Question
	Rounds   []*Round

	// Synthesis is the synthesizer's reply, content guaranteed non-empty.
	Synthesis   *llm.Reply
	Synthesizer string

	// SynthesizerParticipated is true when the synthesizer also debated.
	SynthesizerParticipated bool

	// PanelMode is the selection mode the panel was resolved under
	// ("default", "full" or "custom").
	PanelMode string

	Duration time.Duration
}
