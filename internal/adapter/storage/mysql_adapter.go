package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/tixxety/tixxety/internal/core/domain"
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) CreateUser(ctx context.Context, user domain.User) error {
	addr, lat, lng := venueColumns(user.Location)
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, location_address, location_latitude, location_longitude)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, addr, lat, lng,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var (
		u    domain.User
		addr sql.NullString
		lat  sql.NullFloat64
		lng  sql.NullFloat64
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, email, location_address, location_latitude, location_longitude
		FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &addr, &lat, &lng)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	u.Location = venueFromColumns(addr, lat, lng)
	return &u, nil
}

func (m *MySQLAdapter) CreateEvent(ctx context.Context, event domain.Event) error {
	addr, lat, lng := venueColumns(event.Venue)
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO events (id, title, description, start_time, end_time, total_tickets, tickets_sold, address, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Description, event.StartTime, event.EndTime,
		event.TotalTickets, event.TicketsSold, addr, lat, lng,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	row := m.db.QueryRowContext(ctx, eventSelect+` WHERE id = ?`, id)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query event: %w", err)
	}
	return &event, nil
}

func (m *MySQLAdapter) ListEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := m.db.QueryContext(ctx, eventSelect+` ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (m *MySQLAdapter) ListUpcomingEvents(ctx context.Context, after time.Time) ([]domain.Event, error) {
	rows, err := m.db.QueryContext(ctx, eventSelect+` WHERE end_time > ? ORDER BY start_time`, after)
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (m *MySQLAdapter) RemainingCapacities(ctx context.Context) (map[string]int, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, total_tickets - tickets_sold FROM events`)
	if err != nil {
		return nil, fmt.Errorf("query capacities: %w", err)
	}
	defer rows.Close()

	remaining := make(map[string]int)
	for rows.Next() {
		var (
			id   string
			left int
		)
		if err := rows.Scan(&id, &left); err != nil {
			return nil, fmt.Errorf("scan capacity: %w", err)
		}
		remaining[id] = left
	}
	return remaining, rows.Err()
}

func (m *MySQLAdapter) CreateReserved(ctx context.Context, ticket domain.Ticket) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE events
		SET tickets_sold = tickets_sold + 1
		WHERE id = ? AND tickets_sold < total_tickets`,
		ticket.EventID,
	)
	if err != nil {
		return fmt.Errorf("charge capacity: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSoldOut
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tickets (id, user_id, event_id, status, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		ticket.ID, ticket.UserID, ticket.EventID, ticket.Status, ticket.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	var t domain.Ticket
	err := m.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, status, created_at
		FROM tickets WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.EventID, &t.Status, &t.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query ticket: %w", err)
	}
	return &t, nil
}

func (m *MySQLAdapter) TransitionIfReserved(ctx context.Context, id string, action domain.TicketAction) (domain.Ticket, error) {
	target, err := domain.Transition(domain.TicketStatusReserved, action)
	if err != nil {
		return domain.Ticket{}, err
	}

	result, err := m.db.ExecContext(ctx, `
		UPDATE tickets SET status = ?
		WHERE id = ? AND status = ?`,
		target, id, domain.TicketStatusReserved,
	)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("transition ticket: %w", err)
	}

	rows, _ := result.RowsAffected()
	ticket, err := m.GetTicket(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket == nil {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	if rows == 0 {
		// Lost the race: the ticket reached a terminal state first.
		return *ticket, domain.ErrInvalidTransition
	}
	return *ticket, nil
}

func (m *MySQLAdapter) ListTicketsByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_id, event_id, status, created_at
		FROM tickets WHERE user_id = ? ORDER BY created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query user tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.UserID, &t.EventID, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

const eventSelect = `
	SELECT id, title, description, start_time, end_time, total_tickets, tickets_sold, address, latitude, longitude
	FROM events`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var (
		e    domain.Event
		desc sql.NullString
		addr sql.NullString
		lat  sql.NullFloat64
		lng  sql.NullFloat64
	)
	err := row.Scan(&e.ID, &e.Title, &desc, &e.StartTime, &e.EndTime,
		&e.TotalTickets, &e.TicketsSold, &addr, &lat, &lng)
	if err != nil {
		return domain.Event{}, err
	}
	e.Description = desc.String
	e.Venue = venueFromColumns(addr, lat, lng)
	return e, nil
}

func collectEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func venueColumns(v domain.Venue) (sql.NullString, sql.NullFloat64, sql.NullFloat64) {
	addr := sql.NullString{String: v.Address, Valid: v.Address != ""}
	var lat, lng sql.NullFloat64
	if v.Latitude != nil {
		lat = sql.NullFloat64{Float64: *v.Latitude, Valid: true}
	}
	if v.Longitude != nil {
		lng = sql.NullFloat64{Float64: *v.Longitude, Valid: true}
	}
	return addr, lat, lng
}

func venueFromColumns(addr sql.NullString, lat, lng sql.NullFloat64) domain.Venue {
	v := domain.Venue{Address: addr.String}
	if lat.Valid {
		v.Latitude = &lat.Float64
	}
	if lng.Valid {
		v.Longitude = &lng.Float64
	}
	return v
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
