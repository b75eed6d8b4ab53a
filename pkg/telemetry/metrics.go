// SPDX-License-Identifier: Apache-2.0
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jllopis/council/pkg/errors"
)

// DebateMetrics tracks debate throughput, backend behavior, and failure
// patterns for production monitoring. All methods are safe on a nil receiver
// so callers can leave metrics unconfigured.
type DebateMetrics struct {
	// debatesCounter tracks completed debates by panel mode and outcome
	debatesCounter metric.Int64Counter

	// debateDuration tracks end-to-end debate duration
	debateDuration metric.Float64Histogram

	// roundsCounter tracks completed rounds
	roundsCounter metric.Int64Counter

	// repliesCounter tracks successful backend replies
	repliesCounter metric.Int64Counter

	// failuresCounter tracks backend failures by error code
	failuresCounter metric.Int64Counter

	// retriesCounter tracks timeout-triggered retries per backend
	retriesCounter metric.Int64Counter

	// callLatency tracks per-call backend latency
	callLatency metric.Float64Histogram

	// degradedCounter tracks debates that tripped the quality gate
	degradedCounter metric.Int64Counter

	// synthesisTokens tracks token usage of the synthesis step
	synthesisTokens metric.Int64Counter
}

// NewDebateMetrics creates a debate metrics tracker with OTEL meters.
func NewDebateMetrics(ctx context.Context) (*DebateMetrics, error) {
	meter := otel.Meter("council/debate")

	debatesCounter, err := meter.Int64Counter(
		"council.debates.total",
		metric.WithDescription("Completed debates by panel mode and outcome"),
	)
	if err != nil {
		return nil, err
	}

	debateDuration, err := meter.Float64Histogram(
		"council.debate.duration_seconds",
		metric.WithDescription("End-to-end debate duration in seconds"),
	)
	if err != nil {
		return nil, err
	}

	roundsCounter, err := meter.Int64Counter(
		"council.rounds.total",
		metric.WithDescription("Completed debate rounds"),
	)
	if err != nil {
		return nil, err
	}

	repliesCounter, err := meter.Int64Counter(
		"council.replies.total",
		metric.WithDescription("Successful backend replies by backend"),
	)
	if err != nil {
		return nil, err
	}

	failuresCounter, err := meter.Int64Counter(
		"council.backend.failures.total",
		metric.WithDescription("Backend failures by backend and error code"),
	)
	if err != nil {
		return nil, err
	}

	retriesCounter, err := meter.Int64Counter(
		"council.backend.retries.total",
		metric.WithDescription("Timeout-triggered retries by backend"),
	)
	if err != nil {
		return nil, err
	}

	callLatency, err := meter.Float64Histogram(
		"council.backend.call_seconds",
		metric.WithDescription("Backend call latency in seconds"),
	)
	if err != nil {
		return nil, err
	}

	degradedCounter, err := meter.Int64Counter(
		"council.debates.degraded.total",
		metric.WithDescription("Debates whose first round fell below quorum"),
	)
	if err != nil {
		return nil, err
	}

	synthesisTokens, err := meter.Int64Counter(
		"council.synthesis.tokens.total",
		metric.WithDescription("Token usage of the synthesis step by backend"),
	)
	if err != nil {
		return nil, err
	}

	return &DebateMetrics{
		debatesCounter:  debatesCounter,
		debateDuration:  debateDuration,
		roundsCounter:   roundsCounter,
		repliesCounter:  repliesCounter,
		failuresCounter: failuresCounter,
		retriesCounter:  retriesCounter,
		callLatency:     callLatency,
		degradedCounter: degradedCounter,
		synthesisTokens: synthesisTokens,
	}, nil
}

// RecordDebate records a finished debate run.
func (dm *DebateMetrics) RecordDebate(ctx context.Context, panelMode string, rounds int, duration time.Duration, outcome string) {
	if dm == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(AttrDebatePanelMode, panelMode),
		attribute.String("outcome", outcome),
	)
	dm.debatesCounter.Add(ctx, 1, attrs)
	dm.debateDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String(AttrDebatePanelMode, panelMode)),
	)
}

// RecordRound records a completed round and its reply count.
func (dm *DebateMetrics) RecordRound(ctx context.Context, number, replies int) {
	if dm == nil {
		return
	}
	dm.roundsCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.Int(AttrRoundNumber, number)),
	)
	dm.repliesCounter.Add(ctx, int64(replies),
		metric.WithAttributes(attribute.Int(AttrRoundNumber, number)),
	)
}

// RecordCall records one backend call, successful or not.
func (dm *DebateMetrics) RecordCall(ctx context.Context, backend string, latency time.Duration, err error) {
	if dm == nil {
		return
	}
	dm.callLatency.Record(ctx, latency.Seconds(),
		metric.WithAttributes(attribute.String(AttrBackendName, backend)),
	)
	if err != nil {
		dm.failuresCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String(AttrBackendName, backend),
				attribute.String(AttrErrorCode, string(errors.Code(err))),
			),
		)
	}
}

// RecordRetry records a timeout-triggered retry for a backend.
func (dm *DebateMetrics) RecordRetry(ctx context.Context, backend string) {
	if dm == nil {
		return
	}
	dm.retriesCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String(AttrBackendName, backend)),
	)
}

// RecordDegraded records a debate that tripped the round-one quality gate.
func (dm *DebateMetrics) RecordDegraded(ctx context.Context, succeeded, panelSize int) {
	if dm == nil {
		return
	}
	dm.degradedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.Int("succeeded", succeeded),
			attribute.Int(AttrDebatePanelSize, panelSize),
		),
	)
}

// RecordSynthesis records token usage of the synthesis step.
func (dm *DebateMetrics) RecordSynthesis(ctx context.Context, backend string, tokens int) {
	if dm == nil {
		return
	}
	if tokens > 0 {
		dm.synthesisTokens.Add(ctx, int64(tokens),
			metric.WithAttributes(attribute.String(AttrSynthesizer, backend)),
		)
	}
}
