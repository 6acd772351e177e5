package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tixxety/tixxety/internal/clock"
	"github.com/tixxety/tixxety/internal/core/domain"
	"github.com/tixxety/tixxety/internal/port"
)

const DefaultGracePeriod = 120 * time.Second

type ReservationService struct {
	users     port.UserRepository
	events    port.EventRepository
	tickets   port.TicketRepository
	ledger    port.CapacityLedger
	scheduler port.ExpiryScheduler
	clock     clock.Clock
	log       *slog.Logger
	grace     time.Duration
}

func NewReservationService(
	users port.UserRepository,
	events port.EventRepository,
	tickets port.TicketRepository,
	ledger port.CapacityLedger,
	scheduler port.ExpiryScheduler,
	clk clock.Clock,
	log *slog.Logger,
	opts ...ReservationOption,
) *ReservationService {
	svc := &ReservationService{
		users:     users,
		events:    events,
		tickets:   tickets,
		ledger:    ledger,
		scheduler: scheduler,
		clock:     clk,
		log:       log,
		grace:     DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationOption func(*ReservationService)

// WithGracePeriod overrides the default payment window for new reservations.
func WithGracePeriod(d time.Duration) ReservationOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.grace = d
		}
	}
}

// Reserve charges one unit of the event's capacity and creates a reserved
// ticket for the user, scheduling its expiry check after the grace period.
// A user may hold any number of reservations for the same event.
func (s *ReservationService) Reserve(ctx context.Context, userID, eventID string) (domain.Ticket, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return domain.Ticket{}, domain.ErrUserNotFound
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("look up event: %w", err)
	}
	if event == nil {
		return domain.Ticket{}, domain.ErrEventNotFound
	}

	ok, err := s.ledger.TryReserve(ctx, eventID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("capacity check: %w", err)
	}
	if !ok {
		return domain.Ticket{}, domain.ErrSoldOut
	}

	ticket := domain.Ticket{
		ID:        uuid.New().String(),
		UserID:    userID,
		EventID:   eventID,
		Status:    domain.TicketStatusReserved,
		CreatedAt: s.clock.Now(),
	}

	if err := s.tickets.CreateReserved(ctx, ticket); err != nil {
		// Return the charged unit so the gate stays in line with the database.
		if rbErr := s.ledger.Release(ctx, eventID); rbErr != nil {
			s.log.Error("capacity release failed", "event_id", eventID, "error", rbErr)
		}
		if errors.Is(err, domain.ErrSoldOut) {
			return domain.Ticket{}, domain.ErrSoldOut
		}
		return domain.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}

	if err := s.scheduler.Schedule(ctx, ticket.ID, s.grace); err != nil {
		// The reservation stands; a missed expiry only leaves the unit
		// consumed, which the design already tolerates.
		s.log.Error("schedule expiry failed", "ticket_id", ticket.ID, "error", err)
	}

	s.log.Info("ticket reserved", "ticket_id", ticket.ID, "user_id", userID, "event_id", eventID)
	return ticket, nil
}

// Pay transitions a reserved ticket to paid. The capacity unit was charged at
// reservation time, so the ledger is not touched.
func (s *ReservationService) Pay(ctx context.Context, ticketID string) (domain.Ticket, error) {
	ticket, err := s.tickets.TransitionIfReserved(ctx, ticketID, domain.ActionPay)
	if err != nil {
		return domain.Ticket{}, err
	}

	s.log.Info("ticket paid", "ticket_id", ticketID)
	return ticket, nil
}

// Expire transitions a still-reserved ticket to expired. A ticket that is
// missing or already terminal is left untouched without error, so redelivered
// expiry jobs are harmless.
func (s *ReservationService) Expire(ctx context.Context, ticketID string) error {
	_, err := s.tickets.TransitionIfReserved(ctx, ticketID, domain.ActionExpire)
	switch {
	case err == nil:
		s.log.Info("ticket expired", "ticket_id", ticketID)
	case errors.Is(err, domain.ErrTicketNotFound), errors.Is(err, domain.ErrInvalidTransition):
		s.log.Info("expiry skipped: ticket not found or already resolved", "ticket_id", ticketID)
	default:
		return fmt.Errorf("expire ticket %s: %w", ticketID, err)
	}
	return nil
}
