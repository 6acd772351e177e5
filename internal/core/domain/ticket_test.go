package domain

import (
	"errors"
	"testing"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		current TicketStatus
		action  TicketAction
		want    TicketStatus
		wantErr error
	}{
		{"pay reserved", TicketStatusReserved, ActionPay, TicketStatusPaid, nil},
		{"expire reserved", TicketStatusReserved, ActionExpire, TicketStatusExpired, nil},
		{"pay paid", TicketStatusPaid, ActionPay, TicketStatusPaid, ErrInvalidTransition},
		{"pay expired", TicketStatusExpired, ActionPay, TicketStatusExpired, ErrInvalidTransition},
		{"expire paid", TicketStatusPaid, ActionExpire, TicketStatusPaid, ErrInvalidTransition},
		{"expire expired", TicketStatusExpired, ActionExpire, TicketStatusExpired, ErrInvalidTransition},
		{"unknown action", TicketStatusReserved, TicketAction("refund"), TicketStatusReserved, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.current, tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected status %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTicketStatus_Terminal(t *testing.T) {
	if TicketStatusReserved.Terminal() {
		t.Error("reserved must not be terminal")
	}
	if !TicketStatusPaid.Terminal() {
		t.Error("paid must be terminal")
	}
	if !TicketStatusExpired.Terminal() {
		t.Error("expired must be terminal")
	}
}
