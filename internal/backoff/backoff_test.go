package backoff

import (
	"context"
	"testing"
	"time"
)

func TestDelayDoublesPerAttempt(t *testing.T) {
	tests := []struct {
		attempt int
		expect  time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{0, 0},
	}

	for _, tt := range tests {
		if got := Delay(time.Second, tt.attempt); got != tt.expect {
			t.Fatalf("attempt %d: expected %v, got %v", tt.attempt, tt.expect, got)
		}
	}

	if got := Delay(0, 3); got != 0 {
		t.Fatalf("expected 0 for a zero base, got %v", got)
	}
}

func TestWaitZeroDuration(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Fatalf("expected immediate return, got %v", err)
	}
}

func TestWaitCompletes(t *testing.T) {
	old := sleep
	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }
	defer func() { sleep = old }()

	if err := Wait(context.Background(), 5*time.Second); err != nil {
		t.Fatalf("waiting: %v", err)
	}
	if slept != 5*time.Second {
		t.Fatalf("expected to sleep 5s, got %v", slept)
	}
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, time.Hour); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
