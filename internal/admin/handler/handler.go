package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/admin/export"
	"bloodlink/internal/admin/models"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type Service interface {
	Stats(ctx context.Context) (*models.Stats, error)
	ListDonors(ctx context.Context, limit, offset int) (*models.DonorPage, error)
	DeleteDonor(ctx context.Context, id domain.DonorID) error
	ExportDonors(ctx context.Context) ([]byte, error)
}

// Handler serves the admin back office. Routes must sit behind an admin role
// check.
type Handler struct {
	admin  Service
	logger *slog.Logger
}

func New(admin Service, logger *slog.Logger) *Handler {
	return &Handler{admin: admin, logger: logger}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/stats", h.handleStats)
	r.Get("/admin/donors", h.handleListDonors)
	r.Get("/admin/donors/export", h.handleExportDonors)
	r.Delete("/admin/donors/{id}", h.handleDeleteDonor)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.admin.Stats(ctx)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to compute stats")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleListDonors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := intParam(r, "limit")
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid limit")
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid offset")
		return
	}
	page, err := h.admin.ListDonors(ctx, limit, offset)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to list donors")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleDeleteDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseDonorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donor id")
		return
	}
	if err := h.admin.DeleteDonor(ctx, id); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to delete donor")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExportDonors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, err := h.admin.ExportDonors(ctx)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to export donors")
		return
	}
	filename := fmt.Sprintf("donors-%s.xlsx", requestcontext.Now(ctx).UTC().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		h.logger.WarnContext(ctx, "failed to write donor export",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}
