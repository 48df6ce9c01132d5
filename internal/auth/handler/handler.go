package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/auth/models"
	"bloodlink/internal/auth/service"
	"bloodlink/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for account operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	BootstrapAdmin(ctx context.Context, in service.AccountInput) (*models.User, error)
	CheckPassword(password string) service.PasswordFeedback
}

// Handler handles login, logout and account endpoints.
type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// RegisterPublic mounts routes that need no token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/password-strength", h.handlePasswordStrength)
}

// RegisterAuthenticated mounts routes that require RequireAuth upstream.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)
}

// RegisterBootstrap mounts the operator-only admin bootstrap route.
func (h *Handler) RegisterBootstrap(r chi.Router) {
	r.Post("/admin/bootstrap", h.handleBootstrapAdmin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type bootstrapRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid login request")
		return
	}
	session, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "login failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.auth.Logout(ctx); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.auth.Me(ctx)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to load account")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleBootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req bootstrapRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid bootstrap request")
		return
	}
	user, err := h.auth.BootstrapAdmin(ctx, service.AccountInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to bootstrap admin")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handlePasswordStrength(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req passwordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid password strength request")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.auth.CheckPassword(req.Password))
}
