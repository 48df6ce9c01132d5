package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/organization/models"
	"bloodlink/internal/organization/service"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type Service interface {
	Register(ctx context.Context, cmd service.RegisterCommand) (*models.Organization, error)
	Get(ctx context.Context, id domain.OrganizationID) (*models.Organization, error)
}

// Handler serves organization registration and profile.
type Handler struct {
	orgs   Service
	logger *slog.Logger
}

func New(orgs Service, logger *slog.Logger) *Handler {
	return &Handler{orgs: orgs, logger: logger}
}

func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/organizations/register", h.handleRegister)
}

func (h *Handler) RegisterOrganizationRoutes(r chi.Router) {
	r.Get("/organizations/me", h.handleGetMe)
}

type registerRequest struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	State    string `json:"state"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req registerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid organization registration")
		return
	}
	org, err := h.orgs.Register(ctx, service.RegisterCommand(req))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "organization registration failed")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, org)
}

func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	org, err := h.orgs.Get(ctx, domain.OrganizationID(requestcontext.UserID(ctx)))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to load organization")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, org)
}
