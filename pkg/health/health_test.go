package health

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/jllopis/council/pkg/errors"
	"github.com/jllopis/council/pkg/llm"
)

func TestCheckAllPass(t *testing.T) {
	alpha := llm.NewScriptedProvider("alpha", "OK")
	beta := llm.NewScriptedProvider("beta", "OK\nextra detail")
	checker := NewChecker(WithTimeout(500 * time.Millisecond))

	results := checker.CheckAll(context.Background(), []llm.Provider{alpha, beta})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Backend != "alpha" || results[1].Backend != "beta" {
		t.Errorf("results out of input order: %s, %s", results[0].Backend, results[1].Backend)
	}
	for _, r := range results {
		if !r.OK() || r.Status != StatusHealthy {
			t.Errorf("%s: expected healthy, got %+v", r.Backend, r)
		}
		if r.CheckedAt.IsZero() {
			t.Errorf("%s: CheckedAt not stamped", r.Backend)
		}
		if r.Err != nil {
			t.Errorf("%s: unexpected error %v", r.Backend, r.Err)
		}
	}
	if results[1].Message != "OK" {
		t.Errorf("message should keep only the first line, got %q", results[1].Message)
	}

	calls := alpha.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 ping, got %d", len(calls))
	}
	if calls[0].Prompt != PingPrompt {
		t.Errorf("ping prompt = %q, want %q", calls[0].Prompt, PingPrompt)
	}
	if calls[0].Round != 0 {
		t.Errorf("ping round = %d, want 0", calls[0].Round)
	}
	if calls[0].Timeout <= 0 || calls[0].Timeout > 500*time.Millisecond {
		t.Errorf("ping deadline %v, want within the configured 500ms", calls[0].Timeout)
	}
}

func TestCheckOneFails(t *testing.T) {
	good := llm.NewScriptedProvider("good", "OK")
	bad := llm.NewScriptedProviderSteps("bad",
		llm.ScriptedStep{Err: errors.New(errors.CodeBackendError, "no key", nil)})
	checker := NewChecker(WithTimeout(time.Second))

	results := checker.CheckAll(context.Background(), []llm.Provider{good, bad})

	if !results[0].OK() {
		t.Errorf("good backend should pass: %+v", results[0])
	}
	if results[1].OK() || results[1].Err == nil {
		t.Errorf("bad backend should fail with error: %+v", results[1])
	}
	if !errors.IsCode(results[1].Err, errors.CodeBackendError) {
		t.Errorf("expected BACKEND_ERROR, got %v", results[1].Err)
	}

	if got := Healthy(results); !reflect.DeepEqual(got, []string{"good"}) {
		t.Errorf("Healthy = %v, want [good]", got)
	}
}

func TestCheckTimeout(t *testing.T) {
	slow := llm.NewScriptedProviderSteps("slow",
		llm.ScriptedStep{Content: "OK", Delay: 2 * time.Second})
	checker := NewChecker(WithTimeout(100 * time.Millisecond))

	results := checker.CheckAll(context.Background(), []llm.Provider{slow})

	if results[0].OK() {
		t.Fatalf("expected timeout failure, got %+v", results[0])
	}
	if !errors.IsCode(results[0].Err, errors.CodeTimeout) {
		t.Errorf("expected TIMEOUT, got %v", results[0].Err)
	}
	if got := slow.CallCount(); got != 1 {
		t.Errorf("pings are not retried, got %d calls", got)
	}
}

func TestHealthyAllFail(t *testing.T) {
	bad := llm.NewScriptedProviderSteps("bad",
		llm.ScriptedStep{Err: errors.New(errors.CodeBackendError, "down", nil)})
	checker := NewChecker(WithTimeout(time.Second))

	results := checker.CheckAll(context.Background(), []llm.Provider{bad})
	if got := Healthy(results); len(got) != 0 {
		t.Errorf("expected no healthy backends, got %v", got)
	}
}
