package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/donation/models"
	"bloodlink/internal/donation/service"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for donation history operations.
type Service interface {
	List(ctx context.Context, donorID domain.DonorID) ([]*models.DonationRecord, error)
	Create(ctx context.Context, donorID domain.DonorID, cmd service.CreateCommand) (*models.DonationRecord, error)
	Update(ctx context.Context, donorID domain.DonorID, id domain.DonationID, upd models.DonationUpdate) (*models.DonationRecord, error)
	Delete(ctx context.Context, donorID domain.DonorID, id domain.DonationID) error
	Verify(ctx context.Context, org domain.OrganizationID, id domain.DonationID) (*models.DonationRecord, error)
	RecordForDonor(ctx context.Context, org domain.OrganizationID, donorID domain.DonorID, cmd service.CreateCommand) (*models.DonationRecord, error)
	UpdateAsOrganization(ctx context.Context, org domain.OrganizationID, id domain.DonationID, upd models.DonationUpdate) (*models.DonationRecord, error)
}

// Handler serves a donor's donation history and organization verification.
type Handler struct {
	donations Service
	logger    *slog.Logger
}

func New(donations Service, logger *slog.Logger) *Handler {
	return &Handler{donations: donations, logger: logger}
}

// RegisterDonorRoutes mounts routes for an authenticated donor.
func (h *Handler) RegisterDonorRoutes(r chi.Router) {
	r.Get("/donors/me/donations", h.handleList)
	r.Post("/donors/me/donations", h.handleCreate)
	r.Patch("/donors/me/donations/{id}", h.handleUpdate)
	r.Delete("/donors/me/donations/{id}", h.handleDelete)
}

// RegisterOrganizationRoutes mounts routes for an authenticated organization.
func (h *Handler) RegisterOrganizationRoutes(r chi.Router) {
	r.Post("/organizations/me/donors/{donorID}/donations", h.handleRecordForDonor)
	r.Patch("/organizations/me/donations/{id}", h.handleOrganizationUpdate)
	r.Post("/organizations/me/donations/{id}/verify", h.handleVerify)
}

type createRequest struct {
	Date   domain.Date    `json:"date"`
	Units  float64        `json:"units"`
	Notes  string         `json:"notes"`
	Vitals *models.Vitals `json:"vitals"`
}

type updateRequest struct {
	Date   *domain.Date   `json:"date"`
	Units  *float64       `json:"units"`
	Notes  *string        `json:"notes"`
	Vitals *models.Vitals `json:"vitals"`
}

type listResponse struct {
	Donations  []*models.DonationRecord `json:"donations"`
	Count      int                      `json:"count"`
	TotalUnits float64                  `json:"total_units"`
}

func (r createRequest) command() service.CreateCommand {
	return service.CreateCommand{Date: r.Date, Units: r.Units, Notes: r.Notes, Vitals: r.Vitals}
}

func (r updateRequest) update() models.DonationUpdate {
	return models.DonationUpdate{Date: r.Date, Units: r.Units, Notes: r.Notes, Vitals: r.Vitals}
}

func callerDonor(ctx context.Context) domain.DonorID {
	return domain.DonorID(requestcontext.UserID(ctx))
}

func callerOrg(ctx context.Context) domain.OrganizationID {
	return domain.OrganizationID(requestcontext.UserID(ctx))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.donations.List(ctx, callerDonor(ctx))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to list donations")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{
		Donations:  records,
		Count:      len(records),
		TotalUnits: models.TotalUnits(records),
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donation request")
		return
	}
	record, err := h.donations.Create(ctx, callerDonor(ctx), req.command())
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to record donation")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseDonationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donation id")
		return
	}
	var req updateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donation update")
		return
	}
	record, err := h.donations.Update(ctx, callerDonor(ctx), id, req.update())
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to update donation")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseDonationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donation id")
		return
	}
	if err := h.donations.Delete(ctx, callerDonor(ctx), id); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to delete donation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseDonationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donation id")
		return
	}
	record, err := h.donations.Verify(ctx, callerOrg(ctx), id)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to verify donation")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleRecordForDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donorID, err := domain.ParseDonorID(chi.URLParam(r, "donorID"))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donor id")
		return
	}
	var req createRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donation request")
		return
	}
	record, err := h.donations.RecordForDonor(ctx, callerOrg(ctx), donorID, req.command())
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to record donation")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleOrganizationUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseDonationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donation id")
		return
	}
	var req updateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donation update")
		return
	}
	record, err := h.donations.UpdateAsOrganization(ctx, callerOrg(ctx), id, req.update())
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to update donation")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}
