package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tixxety/tixxety/internal/core/domain"
	"github.com/tixxety/tixxety/internal/core/service"
)

type createUserRequest struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	LocationAddress   string   `json:"location_address"`
	LocationLatitude  *float64 `json:"location_latitude"`
	LocationLongitude *float64 `json:"location_longitude"`
}

type createUserResponse struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

func (h *HTTPHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	user, err := h.users.CreateUser(r.Context(), service.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Location: domain.Venue{
			Address:   req.LocationAddress,
			Latitude:  req.LocationLatitude,
			Longitude: req.LocationLongitude,
		},
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createUserResponse{
		Message:   "User created successfully",
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
	})
}

func (h *HTTPHandler) UserTickets(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	tickets, err := h.users.Tickets(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) NearbyEvents(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	var maxDistanceKm float64
	if raw := r.URL.Query().Get("max_distance_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid max_distance_km")
			return
		}
		maxDistanceKm = parsed
	}

	events, err := h.users.NearbyEvents(r.Context(), userID, maxDistanceKm)
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
