package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.ConsecutiveFailures = 3
	cb := New[int](cfg)

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want boom", i, err)
		}
	}

	if !cb.IsOpen() {
		t.Fatal("breaker should be open after 3 consecutive failures")
	}

	_, err := cb.Execute(func() (int, error) { return 42, nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.ConsecutiveFailures = 2
	cb := New[string](cfg)

	boom := errors.New("boom")
	cb.Execute(func() (string, error) { return "", boom })
	cb.Execute(func() (string, error) { return "ok", nil })
	cb.Execute(func() (string, error) { return "", boom })

	if cb.IsOpen() {
		t.Fatal("breaker should stay closed; failures were not consecutive")
	}

	got, err := cb.Execute(func() (string, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Errorf("Execute = (%q, %v), want (ok, nil)", got, err)
	}
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.ConsecutiveFailures = 1
	cfg.Timeout = 10 * time.Millisecond
	cb := New[int](cfg)

	cb.Execute(func() (int, error) { return 0, errors.New("boom") })
	if !cb.IsOpen() {
		t.Fatal("breaker should be open")
	}

	time.Sleep(20 * time.Millisecond)

	got, err := cb.Execute(func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Errorf("Execute after timeout = (%d, %v), want (7, nil)", got, err)
	}
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	cfg := DefaultConfig("watched")
	cfg.ConsecutiveFailures = 1
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}
	cb := New[int](cfg)

	cb.Execute(func() (int, error) { return 0, errors.New("boom") })

	if len(transitions) != 1 {
		t.Fatalf("transitions = %v, want one closed->open", transitions)
	}
}
