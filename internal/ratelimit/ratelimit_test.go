package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowRespectsBurst(t *testing.T) {
	l := NewWithBurst(1, 2)

	if !l.Allow() || !l.Allow() {
		t.Fatal("burst of 2 should allow two immediate events")
	}
	if l.Allow() {
		t.Error("third immediate event should be rejected")
	}
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	l := NewWithBurst(0.001, 1)
	l.Allow() // drain the only token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("Wait should fail when the context expires first")
	}
}

func TestNewMinimumBurst(t *testing.T) {
	l := New(5) // 5/min would compute a zero burst without the floor

	if !l.Allow() {
		t.Error("limiter should allow at least one immediate event")
	}
}
