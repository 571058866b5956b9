package roles

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aegis-iam/aegis/internal/platform/httpx"
	"github.com/aegis-iam/aegis/internal/shared"
)

// ServicePort defines the business contract consumed by the handler.
type ServicePort interface {
	List(ctx context.Context) (map[string]int64, error)
	Create(ctx context.Context, permissionCodename, roleName string) (*Role, error)
}

// Handler manages role registry endpoints.
type Handler struct {
	logger  *slog.Logger
	service ServicePort
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service ServicePort) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRoles)
	r.Post("/", h.createRole)
}

type createRoleForm struct {
	PermissionCodename string `json:"permission_codename"`
	RoleName           string `json:"role_name"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	byName, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, byName)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var form createRoleForm
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "Malformed request body."))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "Malformed request body."))
			return
		}
		form.PermissionCodename = r.PostFormValue("permission_codename")
		form.RoleName = r.PostFormValue("role_name")
	}

	role, err := h.service.Create(r.Context(), form.PermissionCodename, form.RoleName)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.Created(w, fmt.Sprintf("%s successfully created.", role.Name))
}
