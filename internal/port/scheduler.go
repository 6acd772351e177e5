package port

import (
	"context"
	"time"
)

type ExpiryScheduler interface {
	// Schedule arranges for the ticket's expiry check to run no earlier than
	// delay from now. Delivery is at-least-once; consumers must tolerate
	// duplicate and late deliveries.
	Schedule(ctx context.Context, ticketID string, delay time.Duration) error
}

// Expirer is the consumer side of the expiry queue. Expiring a missing or
// already-terminal ticket must be a no-op, not an error.
type Expirer interface {
	Expire(ctx context.Context, ticketID string) error
}
