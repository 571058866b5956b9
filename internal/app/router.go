package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aegis-iam/aegis/internal/auth"
	"github.com/aegis-iam/aegis/internal/observability"
	"github.com/aegis-iam/aegis/internal/permissions"
	"github.com/aegis-iam/aegis/internal/rbac"
	"github.com/aegis-iam/aegis/internal/roles"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthHandler        *auth.Handler
	PermissionsHandler *permissions.Handler
	RolesHandler       *roles.Handler
	UsersHandler       *rbac.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Aegis defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
