package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tixxety/tixxety/internal/core/domain"
	"github.com/tixxety/tixxety/internal/port"
)

type EventService struct {
	events port.EventRepository
	ledger port.CapacityLedger
	log    *slog.Logger
}

func NewEventService(events port.EventRepository, ledger port.CapacityLedger, log *slog.Logger) *EventService {
	return &EventService{
		events: events,
		ledger: ledger,
		log:    log,
	}
}

type CreateEventInput struct {
	Title        string
	Description  string
	StartTime    time.Time
	EndTime      time.Time
	TotalTickets int
	Venue        domain.Venue
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if in.TotalTickets <= 0 {
		return domain.Event{}, domain.ErrInvalidCapacity
	}
	if !in.EndTime.After(in.StartTime) {
		return domain.Event{}, domain.ErrInvalidSchedule
	}

	event := domain.Event{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		TotalTickets: in.TotalTickets,
		Venue:        in.Venue,
	}

	if err := s.events.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}

	if err := s.ledger.SetCapacity(ctx, event.ID, event.TotalTickets); err != nil {
		// Reservations against this event fail sold-out until the next
		// ledger warm-up reseeds it.
		s.log.Error("seed capacity failed", "event_id", event.ID, "error", err)
	}

	s.log.Info("event created", "event_id", event.ID, "title", event.Title, "total_tickets", event.TotalTickets)
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.events.ListEvents(ctx)
}
