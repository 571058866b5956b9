package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aegis-iam/aegis/internal/shared"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", shared.E(shared.ErrValidation, "'roles' field is required."), http.StatusBadRequest, "'roles' field is required."},
		{"unauthorized", shared.E(shared.ErrUnauthorized, "Invalid token."), http.StatusUnauthorized, "Invalid token."},
		{"bad credentials", shared.E(shared.ErrInvalidCredentials, "Unable to login with the provided credentials."), http.StatusUnauthorized, "Unable to login with the provided credentials."},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", shared.E(shared.ErrNotFound, "No user with id=42 exists."), http.StatusNotFound, "No user with id=42 exists."},
		{"conflict", shared.E(shared.ErrAlreadyExists, "The role already exists."), http.StatusConflict, "The role already exists."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)

			require.Equal(t, tc.status, rec.Code)
			require.JSONEq(t, `{"message":"`+tc.body+`"}`, rec.Body.String())
		})
	}
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"internal error"}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "connection refused")
}
