package handler

import (
	"errors"
	"net/http"

	"github.com/tixxety/tixxety/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps the domain error taxonomy onto the HTTP contract:
// absent entities are 404, rejected outcomes (sold out, bad transition,
// validation) are 400, everything else is a 500.
func (h *HTTPHandler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrNoLocation):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSoldOut),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrInvalidSchedule):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
