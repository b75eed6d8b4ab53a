package debate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/llm"
	"github.com/jllopis/council/pkg/resilience"
	"github.com/jllopis/council/pkg/telemetry"
)

// SynthesisInput carries everything the synthesis step needs.
type SynthesisInput struct {
	Question    Question
	Rounds      []*Round
	Synthesizer Backend

	// StartedAt is when the debate began; the outcome duration is measured
	// from it.
	StartedAt time.Time

	// PanelMode is the selection mode the panel was resolved under.
	PanelMode string

	// SynthesizerParticipated records whether the synthesizer also debated.
	SynthesizerParticipated bool
}

// Synthesize issues the single synthesis call and assembles the Outcome.
// The synthesizer sees the full transcript with real attribution: its role
// is to consolidate, not to blindly judge. Synthesis has no retry; a call
// error or empty content fails the debate with CodeSynthesisFailed, and the
// caller still holds the rounds for diagnostics.
func (e *Engine) Synthesize(ctx context.Context, in SynthesisInput) (*Outcome, error) {
	if len(in.Rounds) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "synthesis requires at least one completed round", nil)
	}
	if in.Synthesizer.Provider == nil {
		return nil, errors.New(errors.CodeInvalidInput, "synthesizer backend is required", nil)
	}

	ctx, runID := EnsureRunID(ctx)
	name := in.Synthesizer.Name()

	ctx, span := e.tracer.Start(ctx, "Debate.Synthesize", trace.WithAttributes(
		telemetry.SynthesisAttributes(name, in.SynthesizerParticipated)...,
	))
	defer span.End()

	transcript := buildTranscript(in.Rounds)
	prompt := e.prompts.RenderSynthesis(in.Question.Text, len(in.Rounds), transcript)
	round := len(in.Rounds) + 1

	e.logger.Info("debate.synthesis.start",
		slog.String("run_id", runID),
		slog.String("backend", name),
		slog.Int("round", round),
	)

	value, err := resilience.WithTimeoutResult(ctx, in.Synthesizer.Timeout, func(ctx context.Context) (interface{}, error) {
		return in.Synthesizer.Provider.Generate(ctx, prompt, round)
	})
	if err != nil {
		e.metrics.RecordDebate(ctx, in.PanelMode, len(in.Rounds), sinceStart(in.StartedAt), "synthesis_failed")
		return nil, errors.New(errors.CodeSynthesisFailed, "synthesis call failed", err).
			WithAttribute("backend", name)
	}
	reply, _ := value.(*llm.Reply)
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		e.metrics.RecordDebate(ctx, in.PanelMode, len(in.Rounds), sinceStart(in.StartedAt), "synthesis_failed")
		return nil, errors.New(errors.CodeSynthesisFailed,
			fmt.Sprintf("synthesizer %s returned empty content", name), nil).
			WithAttribute("backend", name)
	}

	duration := sinceStart(in.StartedAt)
	e.metrics.RecordSynthesis(ctx, name, reply.Tokens)
	e.metrics.RecordDebate(ctx, in.PanelMode, len(in.Rounds), duration, "completed")

	e.logger.Info("debate.synthesis.complete",
		slog.String("run_id", runID),
		slog.String("backend", name),
		slog.String("duration", duration.String()),
	)

	return &Outcome{
		RunID:                   runID,
		Question:                in.Question,
		Rounds:                  in.Rounds,
		Synthesis:               reply,
		Synthesizer:             name,
		SynthesizerParticipated: in.SynthesizerParticipated,
		PanelMode:               in.PanelMode,
		Duration:                duration,
	}, nil
}

// buildTranscript renders every round with real attribution for the
// synthesis prompt.
func buildTranscript(rounds []*Round) string {
	parts := make([]string, 0, len(rounds)*3)
	for _, round := range rounds {
		parts = append(parts, fmt.Sprintf("### Round %d", round.Number))
		for _, reply := range round.Replies {
			parts = append(parts, fmt.Sprintf("**%s (%s)**\n%s", reply.Backend, reply.Model, reply.Content))
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n\n")
}

func sinceStart(t time.Time) time.Duration {
	if t.IsZero() {
		return 0
	}
	return time.Since(t)
}
