package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tixxety/tixxety/internal/port"
)

const expireTimeout = 5 * time.Second

// TimerScheduler runs expiry checks on in-process timers. Scheduled jobs do
// not survive a restart; deployments that need durable delivery use the AMQP
// scheduler instead.
type TimerScheduler struct {
	log *slog.Logger

	mu      sync.Mutex
	expirer port.Expirer
	pending map[string]*time.Timer
	stopped bool
}

func NewTimerScheduler(log *slog.Logger) *TimerScheduler {
	return &TimerScheduler{
		log:     log,
		pending: make(map[string]*time.Timer),
	}
}

// Start binds the consumer that scheduled expiries are delivered to. Must be
// called before the first Schedule.
func (t *TimerScheduler) Start(expirer port.Expirer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expirer = expirer
}

func (t *TimerScheduler) Schedule(ctx context.Context, ticketID string, delay time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.expirer == nil {
		return errors.New("timer scheduler not started")
	}
	if t.stopped {
		return errors.New("timer scheduler stopped")
	}

	t.pending[ticketID] = time.AfterFunc(delay, func() {
		t.fire(ticketID)
	})
	return nil
}

func (t *TimerScheduler) fire(ticketID string) {
	t.mu.Lock()
	delete(t.pending, ticketID)
	expirer := t.expirer
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
	defer cancel()

	if err := expirer.Expire(ctx, ticketID); err != nil {
		t.log.Error("expiry check failed", "ticket_id", ticketID, "error", err)
	}
}

// Stop cancels all pending timers. Already-fired expiries run to completion.
func (t *TimerScheduler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	for id, timer := range t.pending {
		timer.Stop()
		delete(t.pending, id)
	}
}
