package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tixxety/tixxety/internal/core/domain"
	"github.com/tixxety/tixxety/internal/core/service"
)

type venuePayload struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type createEventRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      time.Time    `json:"end_time"`
	TotalTickets int          `json:"total_tickets"`
	Venue        venuePayload `json:"venue"`
}

type createEventResponse struct {
	Message      string `json:"message"`
	EventID      string `json:"event_id"`
	EventTitle   string `json:"event_title"`
	TotalTickets int    `json:"total_tickets"`
}

type eventResponse struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      time.Time    `json:"end_time"`
	TotalTickets int          `json:"total_tickets"`
	TicketsSold  int          `json:"tickets_sold"`
	Venue        venuePayload `json:"venue"`
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		TotalTickets: e.TotalTickets,
		TicketsSold:  e.TicketsSold,
		Venue: venuePayload{
			Address:   e.Venue.Address,
			Latitude:  e.Venue.Latitude,
			Longitude: e.Venue.Longitude,
		},
	}
}

func (h *HTTPHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.StartTime.IsZero() || req.EndTime.IsZero() {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	event, err := h.events.CreateEvent(r.Context(), service.CreateEventInput{
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		TotalTickets: req.TotalTickets,
		Venue: domain.Venue{
			Address:   req.Venue.Address,
			Latitude:  req.Venue.Latitude,
			Longitude: req.Venue.Longitude,
		},
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createEventResponse{
		Message:      "Event created successfully",
		EventID:      event.ID,
		EventTitle:   event.Title,
		TotalTickets: event.TotalTickets,
	})
}

func (h *HTTPHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}
