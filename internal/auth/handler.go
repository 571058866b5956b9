package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aegis-iam/aegis/internal/platform/httpx"
	"github.com/aegis-iam/aegis/internal/shared"
	"github.com/aegis-iam/aegis/internal/users"
)

// ServicePort defines the business contract consumed by the handler.
type ServicePort interface {
	SignUp(ctx context.Context, username, email, password string) (*users.User, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   ServicePort
	tokens    *TokenStore
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service ServicePort, tokens *TokenStore) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/auth", h.handleIndex)
	r.Post("/signup", h.handleSignUp)
	r.Post("/login", h.handleLogin)
	r.With(RequireToken(h.tokens)).Delete("/logout", h.handleLogout)
}

type signUpForm struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userid"`
	Username string `json:"username"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{
		"user_signup":      "/api/signup",
		"user_login":       "/api/login",
		"user_logout":      "/api/logout",
		"user_permissions": "/api/permissions",
		"user_roles":       "/api/roles",
	})
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var form signUpForm
	if isJSON(r) {
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "Malformed request body."))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "Malformed request body."))
			return
		}
		form.Username = r.PostFormValue("username")
		form.Email = r.PostFormValue("email")
		form.Password = r.PostFormValue("password")
	}

	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, validationError(err))
		return
	}

	user, err := h.service.SignUp(r.Context(), form.Username, form.Email, form.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("user signed up", slog.Int64("user_id", user.ID))
	httpx.JSON(w, http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsActive: user.IsActive,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if isJSON(r) {
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "Malformed request body."))
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.RespondError(w, shared.E(shared.ErrValidation, "Malformed request body."))
			return
		}
		form.Username = r.PostFormValue("username")
		form.Password = r.PostFormValue("password")
	}

	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, validationError(err))
		return
	}

	result, err := h.service.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:    result.Token,
		UserID:   result.UserID,
		Username: result.Username,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, shared.E(shared.ErrUnauthorized, "Authentication credentials were not provided."))
		return
	}
	if err := h.service.Logout(r.Context(), principal.Token); err != nil {
		h.logger.Error("logout", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := strings.ToLower(fieldErrs[0].Field())
		if fieldErrs[0].Tag() == "required" {
			return shared.E(shared.ErrValidation, "'%s' field is required.", field)
		}
		return shared.E(shared.ErrValidation, "'%s' field is invalid.", field)
	}
	return shared.E(shared.ErrValidation, "Invalid request.")
}
