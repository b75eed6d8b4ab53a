package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jllopis/council/pkg/debate"
)

const previewWords = 50

// Printer writes human-readable progress to a console stream.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Banner announces the debate that is about to run.
func (p *Printer) Banner(panelSize, rounds int, mode string) {
	fmt.Fprintf(p.w, "\nAI Council: %d models, %d rounds [%s]\n", panelSize, rounds, mode)
}

// RoundSummary prints a short preview of every reply in the round.
func (p *Printer) RoundSummary(r *debate.Round) {
	fmt.Fprintf(p.w, "\n=== Round %d Summary ===\n", r.Number)
	for _, reply := range r.Replies {
		fmt.Fprintf(p.w, "\n%s (%s)  %.1fs\n", reply.Backend, reply.Model, reply.Latency.Seconds())
		fmt.Fprintf(p.w, "  %s\n", preview(reply.Content, previewWords))
	}
}

// Synthesis prints the final answer with its provenance line.
func (p *Printer) Synthesis(out *debate.Outcome) {
	fmt.Fprintf(p.w, "\n=== Council Synthesis ===\n")
	fmt.Fprintf(p.w, "Synthesized by: %s | Duration: %.1fs | Rounds: %d\n\n",
		out.Synthesizer, out.Duration.Seconds(), len(out.Rounds))
	if out.Synthesis != nil {
		fmt.Fprintln(p.w, out.Synthesis.Content)
	}
}

func preview(content string, words int) string {
	fields := strings.Fields(content)
	if len(fields) <= words {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:words], " ") + "…"
}
