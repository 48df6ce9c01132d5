package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/inventory/models"
	"bloodlink/internal/inventory/service"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
	"bloodlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

type Service interface {
	List(ctx context.Context, org domain.OrganizationID) (*service.View, error)
	Alerts(ctx context.Context, org domain.OrganizationID) ([]*models.InventoryRow, error)
	SetUnits(ctx context.Context, org domain.OrganizationID, bloodType string, units int) (*models.InventoryRow, error)
	Adjust(ctx context.Context, org domain.OrganizationID, bloodType string, delta int) (*models.InventoryRow, error)
	SetThreshold(ctx context.Context, org domain.OrganizationID, bloodType string, threshold int) (*models.InventoryRow, error)
}

// Handler serves an organization's inventory.
type Handler struct {
	inventory Service
	logger    *slog.Logger
}

func New(inventory Service, logger *slog.Logger) *Handler {
	return &Handler{inventory: inventory, logger: logger}
}

// RegisterOrganizationRoutes mounts inventory routes. Blood types travel
// URL-escaped in the path, e.g. /inventory/AB%2B.
func (h *Handler) RegisterOrganizationRoutes(r chi.Router) {
	r.Get("/organizations/me/inventory", h.handleList)
	r.Get("/organizations/me/inventory/alerts", h.handleAlerts)
	r.Put("/organizations/me/inventory/{bloodType}", h.handleSetUnits)
	r.Post("/organizations/me/inventory/{bloodType}/adjust", h.handleAdjust)
	r.Put("/organizations/me/inventory/{bloodType}/threshold", h.handleSetThreshold)
}

type unitsRequest struct {
	Units *int `json:"units"`
}

type adjustRequest struct {
	Delta *int `json:"delta"`
}

type thresholdRequest struct {
	MinThreshold *int `json:"min_threshold"`
}

type alertsResponse struct {
	LowStock []*models.InventoryRow `json:"low_stock"`
	Count    int                    `json:"count"`
}

func callerOrg(ctx context.Context) domain.OrganizationID {
	return domain.OrganizationID(requestcontext.UserID(ctx))
}

func bloodTypeParam(r *http.Request) (string, error) {
	bt, err := url.PathUnescape(chi.URLParam(r, "bloodType"))
	if err != nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid blood type in path")
	}
	return bt, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.inventory.List(ctx, callerOrg(ctx))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to list inventory")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	low, err := h.inventory.Alerts(ctx, callerOrg(ctx))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to list inventory alerts")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alertsResponse{LowStock: low, Count: len(low)})
}

func (h *Handler) handleSetUnits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bt, err := bloodTypeParam(r)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid inventory update")
		return
	}
	var req unitsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid inventory update")
		return
	}
	if req.Units == nil {
		httputil.RespondError(ctx, h.logger, w, dErrors.New(dErrors.CodeBadRequest, "units is required"), "invalid inventory update")
		return
	}
	row, err := h.inventory.SetUnits(ctx, callerOrg(ctx), bt, *req.Units)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to set inventory")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) handleAdjust(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bt, err := bloodTypeParam(r)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid inventory adjustment")
		return
	}
	var req adjustRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid inventory adjustment")
		return
	}
	if req.Delta == nil {
		httputil.RespondError(ctx, h.logger, w, dErrors.New(dErrors.CodeBadRequest, "delta is required"), "invalid inventory adjustment")
		return
	}
	row, err := h.inventory.Adjust(ctx, callerOrg(ctx), bt, *req.Delta)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to adjust inventory")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, row)
}

func (h *Handler) handleSetThreshold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bt, err := bloodTypeParam(r)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid threshold update")
		return
	}
	var req thresholdRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid threshold update")
		return
	}
	if req.MinThreshold == nil {
		httputil.RespondError(ctx, h.logger, w, dErrors.New(dErrors.CodeBadRequest, "min_threshold is required"), "invalid threshold update")
		return
	}
	row, err := h.inventory.SetThreshold(ctx, callerOrg(ctx), bt, *req.MinThreshold)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to set threshold")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, row)
}
