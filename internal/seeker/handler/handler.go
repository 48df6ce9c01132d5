package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/seeker/models"
	"bloodlink/internal/seeker/service"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type Service interface {
	Submit(ctx context.Context, cmd service.SubmitCommand) (*models.Submission, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Submission, error)
}

const defaultListLimit = 50

// Handler serves the public seeker intake.
type Handler struct {
	seekers Service
	logger  *slog.Logger
}

func New(seekers Service, logger *slog.Logger) *Handler {
	return &Handler{seekers: seekers, logger: logger}
}

func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/seekers", h.handleSubmit)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/seekers", h.handleListRecent)
}

type submitRequest struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BloodType string `json:"blood_type"`
	Units     int    `json:"units"`
	City      string `json:"city"`
	Note      string `json:"note"`
}

type listResponse struct {
	Submissions []*models.Submission `json:"submissions"`
	Count       int                  `json:"count"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req submitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid seeker request")
		return
	}
	sub, err := h.seekers.Submit(ctx, service.SubmitCommand(req))
	if err != nil {
		var cooldown *models.CooldownError
		if errors.As(err, &cooldown) {
			httputil.WriteRetryAfter(w, cooldown.RetryAfter, cooldown.Error())
			return
		}
		httputil.RespondError(ctx, h.logger, w, err, "failed to submit seeker request")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Handler) handleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.RespondError(ctx, h.logger, w,
				dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"), "invalid limit")
			return
		}
		limit = n
	}
	subs, err := h.seekers.ListRecent(ctx, limit)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to list seeker submissions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Submissions: subs, Count: len(subs)})
}
