package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tixxety/tixxety/internal/clock"
	"github.com/tixxety/tixxety/internal/core/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type userEnv struct {
	users   *fakeUserRepo
	events  *fakeEventRepo
	tickets *fakeTicketRepo
	svc     *UserService
}

func newUserEnv() *userEnv {
	env := &userEnv{
		users:  newFakeUserRepo(),
		events: newFakeEventRepo(),
	}
	env.tickets = newFakeTicketRepo(env.events)
	env.svc = NewUserService(env.users, env.events, env.tickets, clock.NewFixed(testNow), testLogger())
	return env
}

func ptr(f float64) *float64 { return &f }

func (e *userEnv) seedUserAt(lat, lng float64) string {
	id := uuid.New().String()
	e.users.users[id] = domain.User{
		ID:    id,
		Name:  "Located User",
		Email: id + "@example.com",
		Location: domain.Venue{
			Latitude:  ptr(lat),
			Longitude: ptr(lng),
		},
	}
	return id
}

func (e *userEnv) seedEventAt(title string, lat, lng float64, end time.Time) string {
	id := uuid.New().String()
	e.events.events[id] = domain.Event{
		ID:           id,
		Title:        title,
		StartTime:    end.Add(-2 * time.Hour),
		EndTime:      end,
		TotalTickets: 100,
		Venue: domain.Venue{
			Latitude:  ptr(lat),
			Longitude: ptr(lng),
		},
	}
	return id
}

func TestCreateUser_Success(t *testing.T) {
	env := newUserEnv()

	user, err := env.svc.CreateUser(context.Background(), CreateUserInput{
		Name:  "Alice",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if user.ID == "" {
		t.Error("expected non-empty user ID")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	env := newUserEnv()

	in := CreateUserInput{Name: "Alice", Email: "alice@example.com"}
	if _, err := env.svc.CreateUser(context.Background(), in); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := env.svc.CreateUser(context.Background(), in)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got: %v", err)
	}
}

func TestTickets_UserNotFound(t *testing.T) {
	env := newUserEnv()

	_, err := env.svc.Tickets(context.Background(), "missing-user")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestNearbyEvents_SortedByDistance(t *testing.T) {
	env := newUserEnv()
	// User in central Paris.
	userID := env.seedUserAt(48.8566, 2.3522)

	future := testNow.Add(24 * time.Hour)
	env.seedEventAt("across town", 48.90, 2.40, future)   // a few km away
	env.seedEventAt("next door", 48.8570, 2.3530, future) // under 1 km
	env.seedEventAt("london", 51.5074, -0.1278, future)   // ~344 km, outside radius

	events, err := env.svc.NearbyEvents(context.Background(), userID, 30)
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 nearby events, got %d", len(events))
	}
	if events[0].Title != "next door" {
		t.Errorf("expected nearest event first, got %q", events[0].Title)
	}
	if events[1].Title != "across town" {
		t.Errorf("expected second nearest event, got %q", events[1].Title)
	}
}

func TestNearbyEvents_ExcludesPastEvents(t *testing.T) {
	env := newUserEnv()
	userID := env.seedUserAt(48.8566, 2.3522)

	env.seedEventAt("already over", 48.8570, 2.3530, testNow.Add(-time.Hour))

	events, err := env.svc.NearbyEvents(context.Background(), userID, 30)
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestNearbyEvents_ExcludesEventsWithoutCoordinates(t *testing.T) {
	env := newUserEnv()
	userID := env.seedUserAt(48.8566, 2.3522)

	id := uuid.New().String()
	env.events.events[id] = domain.Event{
		ID:           id,
		Title:        "venue TBD",
		StartTime:    testNow.Add(22 * time.Hour),
		EndTime:      testNow.Add(24 * time.Hour),
		TotalTickets: 10,
	}

	events, err := env.svc.NearbyEvents(context.Background(), userID, 30)
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestNearbyEvents_DefaultRadius(t *testing.T) {
	env := newUserEnv()
	userID := env.seedUserAt(48.8566, 2.3522)

	future := testNow.Add(24 * time.Hour)
	env.seedEventAt("close", 48.8570, 2.3530, future)
	env.seedEventAt("far", 51.5074, -0.1278, future)

	events, err := env.svc.NearbyEvents(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if len(events) != 1 || events[0].Title != "close" {
		t.Errorf("expected only the close event within the default radius, got %d events", len(events))
	}
}

func TestNearbyEvents_UserNotFound(t *testing.T) {
	env := newUserEnv()

	_, err := env.svc.NearbyEvents(context.Background(), "missing-user", 30)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestNearbyEvents_NoLocation(t *testing.T) {
	env := newUserEnv()

	id := uuid.New().String()
	env.users.users[id] = domain.User{ID: id, Name: "No Location", Email: "nl@example.com"}

	_, err := env.svc.NearbyEvents(context.Background(), id, 30)
	if !errors.Is(err, domain.ErrNoLocation) {
		t.Errorf("expected ErrNoLocation, got: %v", err)
	}
}
