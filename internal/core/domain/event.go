package domain

import "time"

type Event struct {
	ID           string
	Title        string
	Description  string
	StartTime    time.Time
	EndTime      time.Time
	TotalTickets int
	TicketsSold  int
	Venue        Venue
}

// Remaining is the capacity not yet charged by reservations. Expired tickets
// keep their unit charged, so Remaining never grows back.
func (e Event) Remaining() int {
	return e.TotalTickets - e.TicketsSold
}
