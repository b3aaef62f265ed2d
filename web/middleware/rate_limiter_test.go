package middleware

import (
	"testing"

	"go.uber.org/zap"
)

func TestTokenBucketExhaustion(t *testing.T) {
	// Zero refill so the test is deterministic.
	bucket := NewTokenBucket(3, 0)

	for i := 0; i < 3; i++ {
		if !bucket.Allow() {
			t.Fatalf("request %d denied within burst", i)
		}
	}
	if bucket.Allow() {
		t.Fatal("request allowed after burst exhausted")
	}
	if got := bucket.Remaining(); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
}

func TestClientRateLimiterIsolatesClients(t *testing.T) {
	limiter, err := NewClientRateLimiter(20, 2, 16, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if !limiter.Check("1.1.1.1") || !limiter.Check("1.1.1.1") {
		t.Fatal("first client denied within burst")
	}
	if limiter.Check("1.1.1.1") {
		t.Fatal("first client allowed past burst")
	}
	if !limiter.Check("2.2.2.2") {
		t.Fatal("second client throttled by first client's usage")
	}
}

func TestClientRateLimiterUnknownKeyRemaining(t *testing.T) {
	limiter, err := NewClientRateLimiter(20, 5, 16, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if got := limiter.Remaining("unseen"); got != 5 {
		t.Errorf("Remaining for unseen client = %d, want full burst", got)
	}
}
