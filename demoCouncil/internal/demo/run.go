package demo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jllopis/council/pkg/config"
	"github.com/jllopis/council/pkg/debate"
	"github.com/jllopis/council/pkg/health"
	"github.com/jllopis/council/pkg/llm"
	"github.com/jllopis/council/pkg/output"
	"github.com/jllopis/council/pkg/panel"
)

// RunConfig describes one demo debate.
type RunConfig struct {
	Backends    []debate.Backend
	Question    string
	Rounds      int
	Synthesizer string
	OutputDir   string
	Out         io.Writer
}

// Run health-checks the panel, debates the question and synthesizes the
// verdict. Progress goes to cfg.Out; the markdown transcript lands in
// cfg.OutputDir unless it is empty.
func Run(ctx context.Context, cfg RunConfig) (*debate.Outcome, error) {
	started := time.Now()
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	rounds := cfg.Rounds
	if rounds < 1 {
		rounds = 2
	}

	byName := make(map[string]debate.Backend, len(cfg.Backends))
	providers := make([]llm.Provider, 0, len(cfg.Backends))
	for _, b := range cfg.Backends {
		byName[b.Name()] = b
		providers = append(providers, b.Provider)
	}

	fmt.Fprintln(out, "Checking backends...")
	results := health.NewChecker().CheckAll(ctx, providers)
	for _, res := range results {
		if res.OK() {
			fmt.Fprintf(out, "  OK   %s (%.1fs)\n", res.Backend, res.Latency.Seconds())
		} else {
			fmt.Fprintf(out, "  FAIL %s: %s\n", res.Backend, res.Message)
		}
	}
	alive := health.Healthy(results)

	debaters := panel.ExcludeSynthesizer(alive, cfg.Synthesizer, alive)
	usable := panel.Filter(debaters, alive)
	if len(usable) < 2 {
		return nil, fmt.Errorf("need at least 2 healthy backends for a debate, got %d", len(usable))
	}
	synthName, participated := panel.PickSynthesizer(alive, usable, cfg.Synthesizer)
	synthesizer, ok := byName[synthName]
	if !ok {
		return nil, fmt.Errorf("synthesizer %s is not a known backend", synthName)
	}

	members := make([]debate.Backend, 0, len(usable))
	for _, name := range usable {
		members = append(members, byName[name])
	}

	councilCfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("load default prompts: %w", err)
	}
	prompts := debate.Prompts{
		Initial:   councilCfg.Prompts.Initial,
		Critique:  councilCfg.Prompts.Critique,
		Synthesis: councilCfg.Prompts.Synthesis,
		Personas:  councilCfg.Prompts.Personas,
	}

	printer := output.NewPrinter(out)
	printer.Banner(len(usable), rounds, "full")
	fmt.Fprintf(out, "Panel: %s\n", strings.Join(usable, ", "))
	role := "non-participant"
	if participated {
		role = "participant"
	}
	fmt.Fprintf(out, "Synthesizer: %s (%s)\n\n", synthName, role)

	eng, err := debate.New(members, prompts,
		debate.WithOnRoundComplete(func(rd *debate.Round) {
			fmt.Fprintf(out, "OK Round %d complete (%d replies)\n", rd.Number, len(rd.Replies))
		}),
	)
	if err != nil {
		return nil, err
	}

	ctx, _ = debate.EnsureRunID(ctx)
	question := debate.Question{Text: cfg.Question, Source: "demo"}

	debateRounds, err := eng.Run(ctx, question, rounds)
	if err != nil {
		return nil, err
	}

	outcome, err := eng.Synthesize(ctx, debate.SynthesisInput{
		Question:                question,
		Rounds:                  debateRounds,
		Synthesizer:             synthesizer,
		StartedAt:               started,
		PanelMode:               "full",
		SynthesizerParticipated: participated,
	})
	if err != nil {
		return nil, err
	}

	for _, rd := range debateRounds {
		printer.RoundSummary(rd)
	}
	printer.Synthesis(outcome)

	if cfg.OutputDir != "" {
		path, err := output.Save(outcome, cfg.OutputDir, "")
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "\nSaved to: %s\n", path)
	}
	return outcome, nil
}
