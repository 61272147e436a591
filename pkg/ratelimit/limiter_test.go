package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestBurstAdmitsImmediately(t *testing.T) {
	limiter := New(1, 2)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 2; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("burst calls should be admitted immediately, took %v", elapsed)
	}
}

func TestThrottlesPastBurst(t *testing.T) {
	limiter := New(1, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	// Tolerance for scheduler jitter; the configured spacing is 1000ms.
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Fatalf("third call should have been delayed ~1s, waited only %v", elapsed)
	}
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	limiter := New(1, 1)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("expected error when context expires before admission")
	}
}

func TestClampsInvalidConfig(t *testing.T) {
	limiter := New(0, 0)
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("clamped limiter should still admit: %v", err)
	}
}
