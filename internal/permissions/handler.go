package permissions

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
	List(ctx context.Context) ([]string, error)
	Create(ctx context.Context, codename, name string) (*Permission, error)
}

// Handler manages permission catalog endpoints.
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

// MountRoutes registers permission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listPermissions)
	r.Post("/", h.createPermission)
}

type createPermissionForm struct {
	Codename string `json:"codename"`
	Name     string `json:"name"`
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	codenames, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if codenames == nil {
		codenames = []string{}
	}
	httpx.JSON(w, http.StatusOK, codenames)
}

func (h *Handler) createPermission(w http.ResponseWriter, r *http.Request) {
	var form createPermissionForm
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
		form.Codename = r.PostFormValue("codename")
		form.Name = r.PostFormValue("name")
	}

	perm, err := h.service.Create(r.Context(), form.Codename, form.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.Created(w, fmt.Sprintf("Permission %s successfully created.", perm.Codename))
}
