package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/emergency/models"
	"bloodlink/internal/emergency/service"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type Service interface {
	Create(ctx context.Context, org domain.OrganizationID, cmd service.CreateCommand) (*models.EmergencyRequest, error)
	Close(ctx context.Context, org domain.OrganizationID, id domain.EmergencyID) (*models.EmergencyRequest, error)
	ListByOrganization(ctx context.Context, org domain.OrganizationID) ([]*models.EmergencyRequest, error)
	ListActive(ctx context.Context) ([]*models.EmergencyRequest, error)
}

// Handler serves emergency requests.
type Handler struct {
	emergencies Service
	logger      *slog.Logger
}

func New(emergencies Service, logger *slog.Logger) *Handler {
	return &Handler{emergencies: emergencies, logger: logger}
}

// RegisterPublic mounts the public board of active requests.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/emergencies", h.handleListActive)
}

func (h *Handler) RegisterOrganizationRoutes(r chi.Router) {
	r.Post("/organizations/me/emergencies", h.handleCreate)
	r.Get("/organizations/me/emergencies", h.handleListMine)
	r.Post("/organizations/me/emergencies/{id}/close", h.handleClose)
}

type createRequest struct {
	BloodType     string `json:"blood_type"`
	UnitsRequired int    `json:"units_required"`
	Urgency       string `json:"urgency"`
	Description   string `json:"description"`
}

type listResponse struct {
	Emergencies []*models.EmergencyRequest `json:"emergencies"`
	Count       int                        `json:"count"`
}

func callerOrg(ctx context.Context) domain.OrganizationID {
	return domain.OrganizationID(requestcontext.UserID(ctx))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid emergency request")
		return
	}
	created, err := h.emergencies.Create(ctx, callerOrg(ctx), service.CreateCommand(req))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to open emergency request")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqs, err := h.emergencies.ListByOrganization(ctx, callerOrg(ctx))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to list emergency requests")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Emergencies: reqs, Count: len(reqs)})
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseEmergencyID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid emergency id")
		return
	}
	closed, err := h.emergencies.Close(ctx, callerOrg(ctx), id)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to close emergency request")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, closed)
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqs, err := h.emergencies.ListActive(ctx)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to list active emergency requests")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Emergencies: reqs, Count: len(reqs)})
}
