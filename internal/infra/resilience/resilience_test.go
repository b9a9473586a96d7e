package resilience_test

import (
	"errors"
	"testing"

	"github.com/SatrioUtomo13/joint-stash-scan/internal/infra/resilience"

	"github.com/sony/gobreaker"
)

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test")

	result, err := cb.Execute(func() (any, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "ok" {
		t.Errorf("expected 'ok', got %v", result)
	}
}

func TestCircuitBreaker_NoRetryOnFailure(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test")

	calls := 0
	_, err := cb.Execute(func() (any, error) {
		calls++
		return nil, errors.New("remote down")
	})

	if err == nil {
		t.Fatal("expected error to surface")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call (failures are terminal), got %d", calls)
	}
}

func TestCircuitBreaker_OpensAfterRepeatedFailures(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test")

	for i := 0; i < 10; i++ {
		cb.Execute(func() (any, error) {
			return nil, errors.New("remote down")
		})
	}

	_, err := cb.Execute(func() (any, error) {
		t.Error("breaker should not let this call through")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
}
