// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package debate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/llm"
	"github.com/jllopis/council/pkg/resilience"
	"github.com/jllopis/council/pkg/telemetry"
)

// qualityQuorum is the fixed number of round-one replies under which a
// debate with three or more panelists is flagged as degraded. It does not
// scale with panel size.
const qualityQuorum = 3

type callResult struct {
	reply *llm.Reply
	err   error
}

// executeRound runs one debate round: it builds per-backend prompts,
// dispatches every backend concurrently, applies the timeout retry policy
// per call, and collects the accepted replies in panel order. Failures are
// logged and excluded; the round errors only when every backend failed.
func (e *Engine) executeRound(ctx context.Context, question Question, number int, prior []*llm.Reply) (*Round, error) {
	ctx, span := e.tracer.Start(ctx, "Debate.Round")
	defer span.End()

	prompts := make([]string, len(e.backends))
	if number == 1 {
		for i, b := range e.backends {
			prompts[i] = e.prompts.RenderInitial(question.Text, b.Name())
		}
	} else {
		block, mapping := anonymizeReplies(prior)
		for label, backend := range mapping {
			e.logger.Debug("debate.round.anonymized",
				slog.Int("round", number),
				slog.String("label", label),
				slog.String("backend", backend),
			)
		}
		for i, b := range e.backends {
			prompts[i] = e.prompts.RenderCritique(question.Text, number, block, b.Name())
		}
	}

	e.logger.Info("debate.round.start",
		slog.Int("round", number),
		slog.Int("backends", len(e.backends)),
	)

	// Fan-out, one goroutine per backend, then wait for every call to
	// settle. Each goroutine writes only its own slot, so the replies stay
	// in panel order without a shared accumulator.
	results := make([]callResult, len(e.backends))
	var wg sync.WaitGroup
	for i, b := range e.backends {
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			results[i] = e.callBackend(ctx, b, prompts[i], number)
		}(i, b)
	}
	wg.Wait()

	replies := make([]*llm.Reply, 0, len(e.backends))
	failures := 0
	for i, res := range results {
		if res.err != nil {
			failures++
			e.logger.Error("debate.backend.failed",
				slog.String("backend", e.backends[i].Name()),
				slog.Int("round", number),
				slog.String("error", res.err.Error()),
				slog.String("error_code", string(errors.Code(res.err))),
			)
			continue
		}
		replies = append(replies, res.reply)
	}
	span.SetAttributes(telemetry.RoundAttributes(number, len(replies), failures)...)

	if len(replies) == 0 {
		return nil, errors.New(errors.CodeRoundFailed,
			fmt.Sprintf("all backends failed in round %d", number), nil).
			WithContext("round", number)
	}

	if number == 1 && len(e.backends) >= qualityQuorum && len(replies) < qualityQuorum {
		e.logger.Warn("debate.quality.degraded",
			slog.String("responded", fmt.Sprintf("%d/%d", len(replies), len(e.backends))),
			slog.Int("round", number),
		)
		e.metrics.RecordDegraded(ctx, len(replies), len(e.backends))
	}

	e.logger.Info("debate.round.complete",
		slog.Int("round", number),
		slog.Int("replies", len(replies)),
		slog.Int("failures", failures),
	)
	return &Round{Number: number, Replies: replies}, nil
}

// callBackend runs one backend call under the timeout retry policy: the
// first attempt is bounded by the backend's configured timeout, and a
// timeout there earns exactly one retry at the escalated deadline. Any
// other failure is final for this round.
func (e *Engine) callBackend(ctx context.Context, b Backend, prompt string, number int) callResult {
	name := b.Name()
	retried := false

	policy := resilience.TimeoutRetry{
		Timeout: b.Timeout,
		OnRetry: func(escalated time.Duration) {
			retried = true
			e.logger.Warn("debate.backend.retry",
				slog.String("backend", name),
				slog.Int("round", number),
				slog.String("timeout", escalated.String()),
			)
			e.metrics.RecordRetry(ctx, name)
		},
	}

	callCtx, span := e.tracer.Start(ctx, "Debate.Backend.Generate")
	span.SetAttributes(telemetry.BackendCallAttributes(name, "", number, false)...)

	start := time.Now()
	value, err := policy.Do(callCtx, func(ctx context.Context) (interface{}, error) {
		return b.Provider.Generate(ctx, prompt, number)
	})
	latency := time.Since(start)

	if retried {
		span.SetAttributes(attribute.Bool(telemetry.AttrBackendRetried, true))
	}
	span.End()
	e.metrics.RecordCall(ctx, name, latency, err)

	if err != nil {
		return callResult{err: errors.AsCouncilError(err).WithAttribute("backend", name)}
	}
	reply, ok := value.(*llm.Reply)
	if !ok || reply == nil {
		return callResult{err: errors.New(errors.CodeInternal, "backend returned no reply", nil).
			WithAttribute("backend", name)}
	}
	return callResult{reply: reply}
}
