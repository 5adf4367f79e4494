package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TWRT/savvystudy/internal/api/middleware"
	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/planner"
	"github.com/TWRT/savvystudy/internal/repository"
	"github.com/TWRT/savvystudy/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, client.ErrAuth), errors.Is(err, repository.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, planner.ErrInvalidTask),
		errors.Is(err, planner.ErrInvalidReminder),
		errors.Is(err, planner.ErrInvalidPlan):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrTaskNotFound), errors.Is(err, planner.ErrReminderNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrTimerRunning):
		return http.StatusConflict
	case errors.Is(err, planner.ErrMalformedRecord):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, prefix string, err error) {
	writeJSON(w, statusFor(err), map[string]string{
		"error": prefix + ": " + err.Error(),
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return false
	}
	return true
}

// session is always present behind middleware.Auth.
func session(r *http.Request) *service.Session {
	sess, _ := middleware.SessionFromContext(r.Context())
	return sess
}
