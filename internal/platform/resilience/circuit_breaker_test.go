package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, open time.Duration, clock *time.Time) *CircuitBreaker {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      open,
		HalfOpenMaxReq:   1,
	})
	b.now = func() time.Time { return *clock }
	return b
}

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(2, 5*time.Second, &now)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("unexpected state after first failure: got=%s want=%s", state, CircuitStateClosed)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("unexpected state after threshold: got=%s want=%s", state, CircuitStateOpen)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("unexpected state after probe success: got=%s want=%s", state, CircuitStateClosed)
	}
	if got := b.Trips(); got != 1 {
		t.Fatalf("unexpected trips: got=%d want=1", got)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	b := newTestBreaker(1, time.Second, &now)

	b.RecordFailure()
	now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}
	b.RecordFailure()

	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("unexpected state: got=%s want=%s", state, CircuitStateOpen)
	}
	if got := b.Trips(); got != 2 {
		t.Fatalf("unexpected trips: got=%d want=2", got)
	}
}

func TestCircuitBreaker_DisabledAlwaysAllows(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	for i := 0; i < 5; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("disabled breaker rejected call: %v", err)
	}
}

func TestBreakerSet_GetReturnsSameBreakerPerName(t *testing.T) {
	t.Parallel()

	set := NewBreakerSet(DefaultCircuitBreakerConfig())
	if set.Get("direct") != set.Get("direct") {
		t.Fatalf("expected the same breaker for repeated name")
	}
	if set.Get("direct") == set.Get("relay_prefix") {
		t.Fatalf("expected distinct breakers per name")
	}

	states := set.States()
	if len(states) != 2 || states["direct"] != CircuitStateClosed {
		t.Fatalf("unexpected states: %v", states)
	}
}
