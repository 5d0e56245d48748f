package biometric

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestModelRegistryLoadFailureIsTerminal(t *testing.T) {
	registry := NewModelRegistry()

	// An empty directory has neither model bundle; loading fails at the
	// filesystem check before any model is constructed.
	registry.Load(t.TempDir())

	if registry.State() != ModelsFailed {
		t.Fatalf("expected failed state, got %s", registry.State())
	}

	err := registry.Await(context.Background())
	if err == nil {
		t.Fatal("Await must surface the load failure")
	}
	if !strings.Contains(err.Error(), detectorModelFile) {
		t.Errorf("error should name the missing model file, got %q", err)
	}

	// The failure is cached; a second Await reports the same cause without
	// re-attempting the load.
	again := registry.Await(context.Background())
	if again == nil || again.Error() != err.Error() {
		t.Errorf("expected the cached failure on repeat Await, got %v", again)
	}
}

func TestModelRegistryRepeatedLoadIsNoOp(t *testing.T) {
	registry := NewModelRegistry()
	registry.Load(t.TempDir())

	firstErr := registry.Await(context.Background())
	if firstErr == nil {
		t.Fatal("expected the first load to fail")
	}

	// Pointing a later Load at another path must not reopen a terminal
	// registry; the original failure stands until restart.
	registry.Load("/nonexistent/other/assets")

	if registry.State() != ModelsFailed {
		t.Fatalf("expected state to stay failed, got %s", registry.State())
	}
	if err := registry.Await(context.Background()); err == nil || err.Error() != firstErr.Error() {
		t.Errorf("expected the original cached error, got %v", err)
	}
}

func TestModelRegistryAwaitHonoursContext(t *testing.T) {
	registry := NewModelRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// Load never ran, so only the context can release the wait.
	if err := registry.Await(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestModelRegistryCloseAfterFailure(t *testing.T) {
	registry := NewModelRegistry()
	registry.Load(t.TempDir())

	// Closing a registry that never became ready must not touch the models.
	registry.Close()

	if registry.State() != ModelsFailed {
		t.Fatalf("expected failed state after close, got %s", registry.State())
	}
	if err := registry.Await(context.Background()); err == nil {
		t.Error("a closed registry must stay unavailable")
	}
}
