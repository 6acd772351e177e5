package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tixxety/tixxety/internal/core/service"
)

type HTTPHandler struct {
	log          *slog.Logger
	reservations *service.ReservationService
	users        *service.UserService
	events       *service.EventService
}

func NewHTTPHandler(
	log *slog.Logger,
	reservations *service.ReservationService,
	users *service.UserService,
	events *service.EventService,
) *HTTPHandler {
	return &HTTPHandler{
		log:          log,
		reservations: reservations,
		users:        users,
		events:       events,
	}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)

	r.Post("/tickets", h.ReserveTicket)
	r.Post("/tickets/{id}/pay", h.PayTicket)

	r.Post("/users", h.CreateUser)
	r.Get("/users/for-you", h.NearbyEvents)
	r.Get("/users/{id}/tickets", h.UserTickets)

	r.Post("/events", h.CreateEvent)
	r.Get("/events", h.ListEvents)

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
