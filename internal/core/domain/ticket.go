package domain

import "time"

type TicketStatus string

const (
	TicketStatusReserved TicketStatus = "reserved"
	TicketStatusPaid     TicketStatus = "paid"
	TicketStatusExpired  TicketStatus = "expired"
)

// Terminal reports whether no further transition is permitted.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusPaid || s == TicketStatusExpired
}

type TicketAction string

const (
	ActionPay    TicketAction = "pay"
	ActionExpire TicketAction = "expire"
)

// Transition returns the status that results from applying action to current.
// Only reserved tickets move; every other combination is rejected with
// ErrInvalidTransition.
func Transition(current TicketStatus, action TicketAction) (TicketStatus, error) {
	if current != TicketStatusReserved {
		return current, ErrInvalidTransition
	}
	switch action {
	case ActionPay:
		return TicketStatusPaid, nil
	case ActionExpire:
		return TicketStatusExpired, nil
	default:
		return current, ErrInvalidTransition
	}
}

type Ticket struct {
	ID        string
	UserID    string
	EventID   string
	Status    TicketStatus
	CreatedAt time.Time
}
