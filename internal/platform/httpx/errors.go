package httpx

import (
	"errors"
	"net/http"

	"github.com/aegis-iam/aegis/internal/shared"
)

// RespondError maps domain error kinds to HTTP status codes. Anything not
// recognised becomes a 500 with a generic body so no storage error leaks.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		JSON(w, http.StatusBadRequest, Message{Message: err.Error()})
	case errors.Is(err, shared.ErrUnauthorized), errors.Is(err, shared.ErrInvalidCredentials):
		JSON(w, http.StatusUnauthorized, Message{Message: err.Error()})
	case errors.Is(err, shared.ErrForbidden):
		JSON(w, http.StatusForbidden, Message{Message: err.Error()})
	case errors.Is(err, shared.ErrNotFound):
		JSON(w, http.StatusNotFound, Message{Message: err.Error()})
	case errors.Is(err, shared.ErrAlreadyExists):
		JSON(w, http.StatusConflict, Message{Message: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, Message{Message: "internal error"})
	}
}
