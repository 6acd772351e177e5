package port

import "context"

type CapacityLedger interface {
	// TryReserve atomically charges one unit of the event's capacity,
	// returning false when the event is sold out. Two concurrent callers must
	// never both succeed on the last unit.
	TryReserve(ctx context.Context, eventID string) (bool, error)

	// Release returns one charged unit. Only used to roll back a charge when
	// ticket persistence fails; expiry never releases capacity.
	Release(ctx context.Context, eventID string) error

	// SetCapacity seeds the remaining capacity for an event.
	SetCapacity(ctx context.Context, eventID string, remaining int) error
}
