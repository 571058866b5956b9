package rbac

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

	"github.com/aegis-iam/aegis/internal/shared"
)

type stubRBACService struct {
	roles      map[string]int64
	rolesErr   error
	assignMsg  string
	assignErr  error
	lastNames  []string
	perms      map[string]bool
	permsErr   error
	lastPermID []int64
}

func (s *stubRBACService) GetRoles(ctx context.Context, userID int64) (map[string]int64, error) {
	return s.roles, s.rolesErr
}

func (s *stubRBACService) AssignRoles(ctx context.Context, userID int64, names []string) (string, error) {
	s.lastNames = names
	return s.assignMsg, s.assignErr
}

func (s *stubRBACService) EffectivePermissions(ctx context.Context, userID int64, ids []int64) (map[string]bool, error) {
	s.lastPermID = ids
	return s.perms, s.permsErr
}

func allowAll(next http.Handler) http.Handler { return next }

func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func newTestRouter(svc ServicePort, authn func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/users", NewHandler(nil, svc, authn).MountRoutes)
	return r
}

func TestGetRolesEndpoint(t *testing.T) {
	svc := &stubRBACService{roles: map[string]int64{"SysAdmin": 1}}
	router := newTestRouter(svc, allowAll)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/1/roles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]int64{"SysAdmin": 1}, body)
}

func TestRoleEndpointsRequireAuth(t *testing.T) {
	svc := &stubRBACService{}
	router := newTestRouter(svc, denyAll)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/1/roles", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/1/roles", strings.NewReader(`{"roles":["SysAdmin"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssignRolesEndpointJSON(t *testing.T) {
	svc := &stubRBACService{assignMsg: "NormalUser has been added to user."}
	router := newTestRouter(svc, allowAll)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/1/roles", strings.NewReader(`{"roles":["SysAdmin","NormalUser"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"message":"NormalUser has been added to user."}`, rec.Body.String())
	require.Equal(t, []string{"SysAdmin", "NormalUser"}, svc.lastNames)
}

func TestAssignRolesEndpointCommaString(t *testing.T) {
	svc := &stubRBACService{assignMsg: "NormalUser has been added to user."}
	router := newTestRouter(svc, allowAll)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/1/roles", strings.NewReader(`{"roles":"SysAdmin, NormalUser"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, []string{"SysAdmin", "NormalUser"}, svc.lastNames)
}

func TestAssignRolesEndpointForm(t *testing.T) {
	svc := &stubRBACService{assignMsg: "NormalUser has been added to user."}
	router := newTestRouter(svc, allowAll)

	form := url.Values{"roles": {"SysAdmin,NormalUser"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/1/roles", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, []string{"SysAdmin", "NormalUser"}, svc.lastNames)
}

func TestAssignRolesEndpointErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing roles", shared.E(shared.ErrValidation, "'roles' field is required."), http.StatusBadRequest},
		{"unknown role", shared.E(shared.ErrNotFound, "No Ghost role exists."), http.StatusNotFound},
		{"duplicate edge", shared.E(shared.ErrAlreadyExists, "SysAdmin already assigned to user."), http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubRBACService{assignErr: tc.err}
			router := newTestRouter(svc, allowAll)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users/1/roles", strings.NewReader(`{"roles":["SysAdmin"]}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestEffectivePermissionsEndpoint(t *testing.T) {
	svc := &stubRBACService{perms: map[string]bool{"1": false, "24": true}}
	router := newTestRouter(svc, allowAll)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/1/permissions", strings.NewReader(`{"permission_ids":[1,24]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"1":false,"24":true}`, rec.Body.String())
	require.Equal(t, []int64{1, 24}, svc.lastPermID)
}

func TestEffectivePermissionsEndpointCommaString(t *testing.T) {
	svc := &stubRBACService{perms: map[string]bool{"1": false}}
	router := newTestRouter(svc, allowAll)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/1/permissions", strings.NewReader(`{"permission_ids":"1, 24"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int64{1, 24}, svc.lastPermID)
}

func TestEffectivePermissionsEndpointForm(t *testing.T) {
	svc := &stubRBACService{perms: map[string]bool{"24": true}}
	router := newTestRouter(svc, allowAll)

	form := url.Values{"permission_ids": {"24"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/1/permissions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int64{24}, svc.lastPermID)
}

func TestUserIDMustBeNumeric(t *testing.T) {
	svc := &stubRBACService{}
	router := newTestRouter(svc, allowAll)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/abc/roles", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "No user with id=abc exists.")
}
