package handlers

import (
	"errors"
	"net/http"

	"notely/internal/services"
	"notely/internal/utils"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy becomes an opaque 500 so internal error
// text never reaches the client.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAccountConflict):
		utils.SendJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotVerified),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrOTPNotRequested),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrOTPMismatch),
		errors.Is(err, services.ErrInvalidAssertion):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNoteNotFound):
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrMailDispatch):
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
	default:
		utils.SendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
