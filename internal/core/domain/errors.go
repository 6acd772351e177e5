package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrSoldOut           = errors.New("event is sold out")
	ErrInvalidTransition = errors.New("ticket already paid or expired")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCapacity   = errors.New("total tickets must be positive")
	ErrInvalidSchedule   = errors.New("event must end after it starts")
	ErrNoLocation        = errors.New("user location not set")
)
