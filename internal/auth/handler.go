package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saddlefit/oms/internal/platform/httpx"
	"github.com/saddlefit/oms/internal/rbac"
	"github.com/saddlefit/oms/internal/shared"
)

// Authenticator is the subset of Service used by the HTTP layer.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Verify(ctx context.Context, raw string) (rbac.AuthenticatedUser, string, error)
	Logout(ctx context.Context, sessionID string) error
}

// Handler exposes the login endpoints.
type Handler struct {
	service Authenticator
	logger  *slog.Logger
}

// NewHandler constructs an auth handler.
func NewHandler(service Authenticator, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// MountRoutes registers public and authenticated auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.service, h.logger))
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
	})
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := shared.Validate(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	session, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("login failed", slog.String("username", shared.NormalizeUsername(req.Username)), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	if h.logger != nil {
		h.logger.Info("login", slog.Int64("user_id", session.User.ID), slog.String("role", string(session.User.Role)))
	}
	httpx.JSON(w, http.StatusOK, session)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), shared.SessionIDFromContext(r.Context())); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := rbac.CurrentUser(r.Context())
	if err != nil {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}
