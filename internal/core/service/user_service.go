package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/tixxety/tixxety/internal/clock"
	"github.com/tixxety/tixxety/internal/core/domain"
	"github.com/tixxety/tixxety/internal/port"
)

// DefaultNearbyRadiusKm bounds the nearby-events search when the caller does
// not supply a radius.
const DefaultNearbyRadiusKm = 30.0

type UserService struct {
	users   port.UserRepository
	events  port.EventRepository
	tickets port.TicketRepository
	clock   clock.Clock
	log     *slog.Logger
}

func NewUserService(
	users port.UserRepository,
	events port.EventRepository,
	tickets port.TicketRepository,
	clk clock.Clock,
	log *slog.Logger,
) *UserService {
	return &UserService{
		users:   users,
		events:  events,
		tickets: tickets,
		clock:   clk,
		log:     log,
	}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Location domain.Venue
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	user := domain.User{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Email:    in.Email,
		Location: in.Location,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	s.log.Info("user created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *UserService) Tickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.tickets.ListTicketsByUser(ctx, userID)
}

// NearbyEvents returns future events with coordinates within maxDistanceKm of
// the user's stored location, nearest first. maxDistanceKm <= 0 selects the
// default radius.
func (s *UserService) NearbyEvents(ctx context.Context, userID string, maxDistanceKm float64) ([]domain.Event, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.Location.HasCoordinates() {
		return nil, domain.ErrNoLocation
	}
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultNearbyRadiusKm
	}

	events, err := s.events.ListUpcomingEvents(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}

	type scored struct {
		event    domain.Event
		distance float64
	}
	var nearby []scored
	for _, event := range events {
		if !event.Venue.HasCoordinates() {
			continue
		}
		distance := event.Venue.DistanceKm(*user.Location.Latitude, *user.Location.Longitude)
		if distance <= maxDistanceKm {
			nearby = append(nearby, scored{event: event, distance: distance})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].distance < nearby[j].distance
	})

	result := make([]domain.Event, 0, len(nearby))
	for _, n := range nearby {
		result = append(result, n.event)
	}
	return result, nil
}
