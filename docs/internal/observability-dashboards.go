// SPDX-License-Identifier: Apache-2.0
// Council Debate Observability Dashboards
// This file documents dashboard templates for OpenTelemetry OTEL UI or Grafana.
//
// DASHBOARD: Debate Throughput & Duration
//   Shows how many debates run, how they end, and how long they take.
//
//   Queries:
//   - council.debates.total{council.debate.panel_mode, outcome} (rate 5m)
//     Metric: Debate completions by panel mode and outcome
//     Display: Line chart with legend (default, full, custom x ok/error)
//     Alert Threshold: outcome="error" > 20% of total for 5m
//
//   - council.debate.duration_seconds{council.debate.panel_mode}
//     Metric: End-to-end debate duration (rounds + synthesis)
//     Display: Heatmap or p50/p95/p99 percentile lines
//     Expectation: p95 < rounds x per-backend timeout; anything above means
//     retries are stacking up
//
//   - council.rounds.total vs council.replies.total (rate 5m)
//     Metric: Rounds completed and replies accepted per round
//     Display: Dual line chart
//     Insight: replies/rounds below panel size means backends are dropping out
//
// DASHBOARD: Backend Reliability
//   Per-backend failure, retry and latency view across the panel.
//
//   Queries:
//   - council.backend.failures.total{council.backend.name, council.error.code} (rate 5m)
//     Metric: Failure rate by backend and error code
//     Display: Stacked bar per backend (TIMEOUT, RATE_LIMITED, UNAUTHORIZED,
//     BACKEND_ERROR, EMPTY_REPLY)
//     Alert Threshold: > 5 failures/min on any single backend
//
//   - council.backend.retries.total{council.backend.name} (rate 5m)
//     Metric: Timeout-triggered retries (one retry max per call, at 1.5x budget)
//     Display: Line chart per backend
//     Insight: A retry rate near the call rate means the configured
//     timeout_seconds is too tight for that backend
//
//   - council.backend.call_seconds{council.backend.name}
//     Metric: Per-call latency distribution, pings included
//     Display: p95 per backend, single stat grid
//     Threshold: Warning > 30s, Critical > 60s at p95
//
// DASHBOARD: Quality & Synthesis
//   Tracks the round-one quality gate and synthesis spend.
//
//   Queries:
//   - council.debates.degraded.total{succeeded, council.debate.panel_size} (rate 1h)
//     Metric: Debates that ran below the quality quorum in round one
//     Display: Table of succeeded x panel_size
//     Insight: Which panel sizes routinely limp through round one?
//
//   - council.synthesis.tokens.total{council.synthesis.backend} (rate 1h)
//     Metric: Synthesis token spend by synthesizer backend
//     Display: Stacked area chart
//     Use: Cost attribution when rotating the synthesizer
//
// ALERT RULES (Prometheus/AlertManager format):
//
// Alert 1: High Backend Failure Rate
//   Name: CouncilBackendFailureRate
//   Condition: rate(council.backend.failures.total[5m]) > 5
//   Duration: 2m
//   Severity: critical
//   Message: "Backend {{ $labels.council_backend_name }} failing {{ $value }}/sec"
//   Action: Check vendor status page and API key validity
//
// Alert 2: Retry Storm
//   Name: CouncilRetryStorm
//   Condition: rate(council.backend.retries.total[5m]) / rate(council.replies.total[5m]) > 0.5
//   Duration: 5m
//   Severity: warning
//   Message: "{{ $value }} retries per reply; timeout budget too tight"
//   Action: Raise timeout_seconds for the affected backend
//
// Alert 3: Degraded Debates
//   Name: CouncilDegradedDebates
//   Condition: rate(council.debates.degraded.total[1h]) > 0.2 * rate(council.debates.total[1h])
//   Duration: 10m
//   Severity: warning
//   Message: "{{ $value }}% of debates below quality quorum in round one"
//   Action: Review panel membership; a chronically failing backend drags
//   every debate down
//
// Alert 4: Timeout Spike
//   Name: CouncilTimeoutSpike
//   Condition: rate(council.backend.failures.total{council.error.code="TIMEOUT"}[5m]) > 2
//   Duration: 2m
//   Severity: warning
//   Message: "{{ $value }} timeouts/sec across the panel"
//   Action: Correlate with council.backend.call_seconds p95; likely a vendor
//   slowdown rather than a local fault
//
// Alert 5: Debate Failures
//   Name: CouncilDebateErrors
//   Condition: rate(council.debates.total{outcome="error"}[15m]) > 0
//   Duration: 5m
//   Severity: critical
//   Message: "Debates ending in error on panel mode {{ $labels.council_debate_panel_mode }}"
//   Action: Pull the run ID from the structured logs and inspect the round
//   that failed
//
// OTEL QUERY EXAMPLES for OTEL UI or Grafana:
//
// 1. Failure Rate by Error Code (5-minute)
//    PromQL: rate(council.backend.failures.total[5m]) group by (council.error.code)
//
// 2. Reply Yield per Round
//    PromQL: rate(council.replies.total[5m]) / rate(council.rounds.total[5m])
//    Display: Single stat, compare against configured panel size
//
// 3. Slowest Backends
//    PromQL: topk(3, histogram_quantile(0.95, rate(council.backend.call_seconds_bucket[5m])))
//    Display: Bar chart
//
// 4. Debate Duration Trend (24h)
//    PromQL: histogram_quantile(0.95, rate(council.debate.duration_seconds_bucket[5m]))
//    Range: 24h
//    Display: Area chart
//
// 5. Synthesis Spend by Backend
//    PromQL: sum(rate(council.synthesis.tokens.total[1h])) by (council.synthesis.backend)
//    Display: Stacked area chart
//
// INTEGRATION PATTERNS:
//
// 1. Call-Level Tracking:
//    - Round executor calls RecordCall(ctx, backend, latency, err) for every
//      attempt, and RecordRetry(ctx, backend) when the timeout retry fires
//    - Dashboard shows: failures and retries per backend without touching
//      the engine code
//
// 2. Run Correlation:
//    - Every debate carries council.debate.run_id in spans and log lines
//    - Jump from a metrics anomaly to the exact transcript via the run ID
//      in the structured logs
//
// 3. SLO Tracking:
//    - Debate success SLO: outcome="ok" >= 99% of council.debates.total
//    - Reply yield SLO: replies/rounds >= panel_size - 1 (one slot of slack)
//    - Latency SLO: council.debate.duration_seconds p95 within 2x the
//      single-round budget
//
// 4. Cost Optimization:
//    - Monitor council.synthesis.tokens.total when rotating synthesizers;
//      verbose models show up immediately
//    - Monitor RATE_LIMITED failures to decide between capacity upgrades
//      and panel changes
//
package internal

// This file is documentation only and is not compiled.
// See pkg/telemetry/metrics.go for the instruments.
