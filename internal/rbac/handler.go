package rbac

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aegis-iam/aegis/internal/platform/httpx"
	"github.com/aegis-iam/aegis/internal/shared"
)

// ServicePort defines the business contract consumed by the handler.
type ServicePort interface {
	GetRoles(ctx context.Context, userID int64) (map[string]int64, error)
	AssignRoles(ctx context.Context, userID int64, names []string) (string, error)
	EffectivePermissions(ctx context.Context, userID int64, ids []int64) (map[string]bool, error)
}

// Handler manages per-user role assignment endpoints.
type Handler struct {
	logger  *slog.Logger
	service ServicePort
	authn   func(http.Handler) http.Handler
}

// NewHandler builds a Handler instance. authn guards the role endpoints.
func NewHandler(logger *slog.Logger, service ServicePort, authn func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if authn == nil {
		authn = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{logger: logger, service: service, authn: authn}
}

// MountRoutes registers user assignment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.authn)
			r.Get("/roles", h.getRoles)
			r.Post("/roles", h.assignRoles)
		})
		r.Post("/permissions", h.effectivePermissions)
	})
}

// roleList accepts either a JSON array of strings or a single
// comma-delimited string.
type roleList []string

func (l *roleList) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		*l = names
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*l = splitList(joined)
	return nil
}

// idList accepts either a JSON array of integers or a single comma-delimited
// string of integers.
type idList []int64

func (l *idList) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err == nil {
		*l = ids
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	parsed, err := parseIDList(joined)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

type assignRolesForm struct {
	Roles roleList `json:"roles"`
}

type effectivePermissionsForm struct {
	PermissionIDs idList `json:"permission_ids"`
}

func (h *Handler) getRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	byName, err := h.service.GetRoles(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, byName)
}

func (h *Handler) assignRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var form assignRolesForm
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "'roles' field is required."))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "'roles' field is required."))
			return
		}
		form.Roles = splitList(r.PostFormValue("roles"))
	}

	message, err := h.service.AssignRoles(r.Context(), userID, form.Roles)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("roles assigned", slog.Int64("user_id", userID), slog.Int("count", len(form.Roles)))
	httpx.Created(w, message)
}

func (h *Handler) effectivePermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var form effectivePermissionsForm
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "'permission_ids' field is required."))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "'permission_ids' field is required."))
			return
		}
		raw := r.PostFormValue("permission_ids")
		if raw != "" {
			ids, err := parseIDList(raw)
			if err != nil {
				httpx.RespondError(w, shared.E(shared.ErrValidation, "'permission_ids' field is invalid."))
				return
			}
			form.PermissionIDs = ids
		}
	}

	result, err := h.service.EffectivePermissions(r.Context(), userID, form.PermissionIDs)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) userID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, shared.E(shared.ErrNotFound, "No user with id=%s exists.", raw)
	}
	return id, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
