package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tixxety/tixxety/internal/core/domain"
)

type reserveTicketRequest struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
}

type ticketResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		EventID:   t.EventID,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
}

func (h *HTTPHandler) ReserveTicket(w http.ResponseWriter, r *http.Request) {
	var req reserveTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.EventID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	ticket, err := h.reservations.Reserve(r.Context(), req.UserID, req.EventID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

func (h *HTTPHandler) PayTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")

	ticket, err := h.reservations.Pay(r.Context(), ticketID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}
