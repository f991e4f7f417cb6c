package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAllowAndRefill(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := New().WithClock(func() time.Time { return now })

	for i := 0; i < 2; i++ {
		if !l.Allow("a", 2, 1) {
			t.Fatalf("call %d should pass", i)
		}
	}
	if l.Allow("a", 2, 1) {
		t.Fatalf("bucket should be empty")
	}
	if !l.Allow("b", 2, 1) {
		t.Fatalf("keys are independent")
	}

	now = now.Add(1500 * time.Millisecond)
	if !l.Allow("a", 2, 1) {
		t.Fatalf("one token should have refilled")
	}
	if l.Allow("a", 2, 1) {
		t.Fatalf("only half a token left")
	}
}
