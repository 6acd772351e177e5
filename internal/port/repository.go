package port

import (
	"context"
	"time"

	"github.com/tixxety/tixxety/internal/core/domain"
)

type UserRepository interface {
	// CreateUser persists a new user; domain.ErrEmailTaken when the email is
	// already registered.
	CreateUser(ctx context.Context, user domain.User) error

	// GetUser returns nil without error when the user does not exist.
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type EventRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) error

	// GetEvent returns nil without error when the event does not exist.
	GetEvent(ctx context.Context, id string) (*domain.Event, error)

	ListEvents(ctx context.Context) ([]domain.Event, error)

	// ListUpcomingEvents returns events that end after the given instant.
	ListUpcomingEvents(ctx context.Context, after time.Time) ([]domain.Event, error)

	// RemainingCapacities returns the uncharged capacity per event id, used to
	// warm the capacity ledger at startup.
	RemainingCapacities(ctx context.Context) (map[string]int, error)
}

type TicketRepository interface {
	// CreateReserved persists a reserved ticket and charges the event's sold
	// count in the same transaction; domain.ErrSoldOut when the event is at
	// capacity.
	CreateReserved(ctx context.Context, ticket domain.Ticket) error

	// GetTicket returns nil without error when the ticket does not exist.
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)

	// TransitionIfReserved applies the action only if the ticket is still
	// reserved and returns the resulting ticket. domain.ErrTicketNotFound when
	// the ticket is absent, domain.ErrInvalidTransition when it has already
	// reached a terminal state.
	TransitionIfReserved(ctx context.Context, id string, action domain.TicketAction) (domain.Ticket, error)

	ListTicketsByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
}
