package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tixxety/tixxety/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fake CapacityLedger
type fakeLedger struct {
	mu        sync.Mutex
	remaining map[string]int
	releases  map[string]int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		remaining: make(map[string]int),
		releases:  make(map[string]int),
	}
}

func (f *fakeLedger) TryReserve(ctx context.Context, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.remaining[eventID] > 0 {
		f.remaining[eventID]--
		return true, nil
	}
	return false, nil
}

func (f *fakeLedger) Release(ctx context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remaining[eventID]++
	f.releases[eventID]++
	return nil
}

func (f *fakeLedger) SetCapacity(ctx context.Context, eventID string, remaining int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remaining[eventID] = remaining
	return nil
}

// Fake UserRepository
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Fake EventRepository
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]domain.Event)}
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, event domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	return &event, nil
}

func (f *fakeEventRepo) ListEvents(ctx context.Context) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) ListUpcomingEvents(ctx context.Context, after time.Time) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Event
	for _, e := range f.events {
		if e.EndTime.After(after) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) RemainingCapacities(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]int, len(f.events))
	for id, e := range f.events {
		out[id] = e.Remaining()
	}
	return out, nil
}

// Fake TicketRepository. Charges the fake event repo's sold count inside the
// same lock, mirroring the single-transaction behavior of the real adapter.
type fakeTicketRepo struct {
	mu         sync.Mutex
	tickets    map[string]domain.Ticket
	events     *fakeEventRepo
	failCreate error
}

func newFakeTicketRepo(events *fakeEventRepo) *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[string]domain.Ticket),
		events:  events,
	}
}

func (f *fakeTicketRepo) CreateReserved(ctx context.Context, ticket domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return f.failCreate
	}

	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	event, ok := f.events.events[ticket.EventID]
	if !ok || event.TicketsSold >= event.TotalTickets {
		return domain.ErrSoldOut
	}
	event.TicketsSold++
	f.events.events[ticket.EventID] = event

	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeTicketRepo) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	return &ticket, nil
}

func (f *fakeTicketRepo) TransitionIfReserved(ctx context.Context, id string, action domain.TicketAction) (domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ticket, ok := f.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}

	next, err := domain.Transition(ticket.Status, action)
	if err != nil {
		return ticket, err
	}
	ticket.Status = next
	f.tickets[id] = ticket
	return ticket, nil
}

func (f *fakeTicketRepo) ListTicketsByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Ticket
	for _, t := range f.tickets {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Fake ExpiryScheduler
type scheduledJob struct {
	ticketID string
	delay    time.Duration
}

type fakeScheduler struct {
	mu   sync.Mutex
	jobs []scheduledJob
	fail error
}

func (f *fakeScheduler) Schedule(ctx context.Context, ticketID string, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail != nil {
		return f.fail
	}
	f.jobs = append(f.jobs, scheduledJob{ticketID: ticketID, delay: delay})
	return nil
}
