package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"moneymanager/internal/auth"
	"moneymanager/internal/core"
	"moneymanager/internal/log"
	"moneymanager/internal/services"
	"moneymanager/internal/storage"
)

// errGoalNotFound is reported when a contribution names no existing goal.
var errGoalNotFound = errors.New("goal not found")

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// statusFor maps domain and auth errors to HTTP statuses. Anything not
// recognised is a server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, core.ErrIndexOutOfRange), errors.Is(err, errGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, storage.ErrInvalidUsername):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrTokensDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Server errors are logged and their
// details withheld from the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err.Error(),
			log.FieldPath, r.URL.Path)
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}
