package debate

import (
	"context"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if id, ok := RunID(ctx); ok || id != "" {
		t.Errorf("expected no run id, got %q", id)
	}

	ctx = WithRunID(ctx, "run-123")
	id, ok := RunID(ctx)
	if !ok || id != "run-123" {
		t.Errorf("expected run-123, got %q (ok=%v)", id, ok)
	}
}

func TestEnsureRunID(t *testing.T) {
	ctx, id := EnsureRunID(context.Background())
	if id == "" {
		t.Fatalf("expected generated run id")
	}

	// Second call reuses the existing id
	_, again := EnsureRunID(ctx)
	if again != id {
		t.Errorf("expected stable run id, got %q then %q", id, again)
	}
}
