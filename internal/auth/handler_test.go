package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _, _ := newAuthTestService(t)
	handler := NewHandler(nil, svc, svc.tokens)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, svc
}

func TestAuthIndex(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "/api/signup", body["user_signup"])
	require.Equal(t, "/api/login", body["user_login"])
	require.Equal(t, "/api/logout", body["user_logout"])
}

func TestSignUpEndpoint(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"username":"marley","email":"marley@example.com","password":"sekret123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		IsActive bool   `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotZero(t, body.ID)
	require.Equal(t, "marley", body.Username)
	require.True(t, body.IsActive)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestSignUpEndpointForm(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	form := url.Values{
		"username": {"marley"},
		"email":    {"marley@example.com"},
		"password": {"sekret123"},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestSignUpEndpointValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		message string
	}{
		{"missing username", `{"email":"a@b.com","password":"sekret123"}`, "'username' field is required."},
		{"missing email", `{"username":"marley","password":"sekret123"}`, "'email' field is required."},
		{"bad email", `{"username":"marley","email":"nope","password":"sekret123"}`, "'email' field is invalid."},
		{"short password", `{"username":"marley","email":"a@b.com","password":"short"}`, "'password' field is invalid."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newAuthTestRouter(t)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tc.payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), tc.message)
		})
	}
}

func TestSignUpEndpointDuplicate(t *testing.T) {
	router, _ := newAuthTestRouter(t)
	payload := `{"username":"marley","email":"marley@example.com","password":"sekret123"}`

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, "request %d", i+1)
	}
}

func TestLoginEndpoint(t *testing.T) {
	router, svc := newAuthTestRouter(t)
	_, err := svc.SignUp(context.Background(), "marley", "marley@example.com", "sekret123")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"marley","password":"sekret123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Token    string `json:"token"`
		UserID   int64  `json:"userid"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	require.Equal(t, "marley", body.Username)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	router, svc := newAuthTestRouter(t)
	_, err := svc.SignUp(context.Background(), "marley", "marley@example.com", "sekret123")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"marley","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Unable to login with the provided credentials.")
}

func TestLogoutEndpoint(t *testing.T) {
	router, svc := newAuthTestRouter(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, "marley", "marley@example.com", "sekret123")
	require.NoError(t, err)
	result, err := svc.Login(ctx, "marley", "sekret123")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/logout", nil)
	req.Header.Set("Authorization", "Token "+result.Token)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The token no longer resolves, so a second logout is rejected.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/logout", nil)
	req.Header.Set("Authorization", "Token "+result.Token)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutEndpointWithoutToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/logout", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Authentication credentials were not provided.")
}

func TestBearerTokenSchemes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	require.Equal(t, "abc123", bearerToken(req))

	req.Header.Set("Authorization", "Token abc123")
	require.Equal(t, "abc123", bearerToken(req))

	req.Header.Set("Authorization", "token abc123")
	require.Equal(t, "abc123", bearerToken(req))

	req.Header.Set("Authorization", "abc123")
	require.Empty(t, bearerToken(req))

	req.Header.Del("Authorization")
	require.Empty(t, bearerToken(req))
}
