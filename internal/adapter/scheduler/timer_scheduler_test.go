package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type recordingExpirer struct {
	mu      sync.Mutex
	expired []string
}

func (r *recordingExpirer) Expire(ctx context.Context, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, ticketID)
	return nil
}

func (r *recordingExpirer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.expired)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTimerScheduler_FiresAfterDelay(t *testing.T) {
	expirer := &recordingExpirer{}
	sched := NewTimerScheduler(testLogger())
	sched.Start(expirer)
	defer sched.Stop()

	if err := sched.Schedule(context.Background(), "ticket-1", 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for expirer.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("expiry did not fire")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if expirer.count() != 1 {
		t.Errorf("expected exactly one expiry, got %d", expirer.count())
	}
}

func TestTimerScheduler_NotStarted(t *testing.T) {
	sched := NewTimerScheduler(testLogger())

	err := sched.Schedule(context.Background(), "ticket-1", time.Millisecond)
	if err == nil {
		t.Fatal("expected error when scheduler has no consumer bound")
	}
}

func TestTimerScheduler_StopCancelsPending(t *testing.T) {
	expirer := &recordingExpirer{}
	sched := NewTimerScheduler(testLogger())
	sched.Start(expirer)

	if err := sched.Schedule(context.Background(), "ticket-1", 50*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sched.Stop()

	time.Sleep(100 * time.Millisecond)
	if expirer.count() != 0 {
		t.Errorf("expected no expiries after Stop, got %d", expirer.count())
	}

	if err := sched.Schedule(context.Background(), "ticket-2", time.Millisecond); err == nil {
		t.Error("expected error when scheduling on a stopped scheduler")
	}
}
