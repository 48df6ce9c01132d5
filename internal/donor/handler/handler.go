package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bloodlink/internal/donor/models"
	"bloodlink/internal/donor/service"
	"bloodlink/internal/eligibility"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
	liststrings "bloodlink/pkg/platform/strings"
	"bloodlink/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the interface for donor profile operations.
type Service interface {
	Register(ctx context.Context, cmd service.RegisterCommand) (*models.Donor, error)
	Get(ctx context.Context, id domain.DonorID) (*models.Donor, error)
	UpdateProfile(ctx context.Context, id domain.DonorID, upd models.ProfileUpdate) (*models.Donor, error)
	Dashboard(ctx context.Context, id domain.DonorID) (*service.DashboardView, error)
	Eligibility(ctx context.Context, id domain.DonorID) (eligibility.Result, error)
	StreamEligibility(ctx context.Context, id domain.DonorID, emit func(service.CountdownFrame) error) error
	Search(ctx context.Context, q service.SearchQuery) ([]*models.Donor, error)
}

// Handler serves donor registration, profile, dashboard and search.
type Handler struct {
	donors Service
	logger *slog.Logger
}

func New(donors Service, logger *slog.Logger) *Handler {
	return &Handler{donors: donors, logger: logger}
}

func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/donors/register", h.handleRegister)
}

// RegisterDonorRoutes mounts routes for an authenticated donor.
func (h *Handler) RegisterDonorRoutes(r chi.Router) {
	r.Get("/donors/me", h.handleGetMe)
	r.Patch("/donors/me", h.handleUpdateMe)
	r.Get("/donors/me/dashboard", h.handleDashboard)
	r.Get("/donors/me/eligibility", h.handleEligibility)
}

// RegisterStreamRoutes mounts long-lived routes. They must not sit behind
// the request timeout middleware.
func (h *Handler) RegisterStreamRoutes(r chi.Router) {
	r.Get("/donors/me/eligibility/stream", h.handleEligibilityStream)
}

// RegisterSearchRoutes mounts donor search for organizations and admins.
func (h *Handler) RegisterSearchRoutes(r chi.Router) {
	r.Get("/donors/search", h.handleSearch)
}

type registerRequest struct {
	Email       string       `json:"email"`
	Username    string       `json:"username"`
	Password    string       `json:"password"`
	FullName    string       `json:"full_name"`
	Phone       string       `json:"phone"`
	BloodType   string       `json:"blood_type"`
	Gender      string       `json:"gender"`
	DateOfBirth *domain.Date `json:"date_of_birth"`
	City        string       `json:"city"`
	District    string       `json:"district"`
	State       string       `json:"state"`
	Country     string       `json:"country"`
}

type updateRequest struct {
	FullName       *string           `json:"full_name"`
	Phone          *string           `json:"phone"`
	Gender         *string           `json:"gender"`
	DateOfBirth    *domain.Date      `json:"date_of_birth"`
	BloodType      *domain.BloodType `json:"blood_type"`
	City           *string           `json:"city"`
	District       *string           `json:"district"`
	State          *string           `json:"state"`
	Country        *string           `json:"country"`
	ProfilePicture *string           `json:"profile_picture"`
}

type searchResponse struct {
	Donors []*models.Donor `json:"donors"`
	Count  int             `json:"count"`
}

func callerDonor(ctx context.Context) domain.DonorID {
	return domain.DonorID(requestcontext.UserID(ctx))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req registerRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donor registration")
		return
	}
	donor, err := h.donors.Register(ctx, service.RegisterCommand{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		FullName:    req.FullName,
		Phone:       req.Phone,
		BloodType:   req.BloodType,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		City:        req.City,
		District:    req.District,
		State:       req.State,
		Country:     req.Country,
	})
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "donor registration failed")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, donor)
}

func (h *Handler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	donor, err := h.donors.Get(ctx, callerDonor(ctx))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to load donor")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, donor)
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req updateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid profile update")
		return
	}
	donor, err := h.donors.UpdateProfile(ctx, callerDonor(ctx), models.ProfileUpdate{
		FullName:       req.FullName,
		Phone:          req.Phone,
		Gender:         req.Gender,
		DateOfBirth:    req.DateOfBirth,
		BloodType:      req.BloodType,
		City:           req.City,
		District:       req.District,
		State:          req.State,
		Country:        req.Country,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to update profile")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, donor)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.donors.Dashboard(ctx, callerDonor(ctx))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to build dashboard")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.donors.Eligibility(ctx, callerDonor(ctx))
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "failed to compute eligibility")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// handleEligibilityStream writes one server-sent event per countdown frame.
// Errors before the first frame are sent as a normal JSON error response.
func (h *Handler) handleEligibilityStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)
	started := false

	err := h.donors.StreamEligibility(ctx, callerDonor(ctx), func(f service.CountdownFrame) error {
		if !started {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		payload, err := json.Marshal(f)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: countdown\ndata: %s\n\n", payload); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err == nil {
		return
	}
	if !started {
		httputil.RespondError(ctx, h.logger, w, err, "failed to start eligibility stream")
		return
	}
	h.logger.DebugContext(ctx, "eligibility stream ended",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := parseSearchQuery(r)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "invalid donor search")
		return
	}
	donors, err := h.donors.Search(ctx, q)
	if err != nil {
		httputil.RespondError(ctx, h.logger, w, err, "donor search failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, searchResponse{Donors: donors, Count: len(donors)})
}

// parseSearchQuery reads blood_type (repeatable or comma separated), city,
// state, available, limit and offset.
func parseSearchQuery(r *http.Request) (service.SearchQuery, error) {
	values := r.URL.Query()
	q := service.SearchQuery{
		City:  values.Get("city"),
		State: values.Get("state"),
	}
	q.BloodTypes = liststrings.SplitList(values["blood_type"], strings.ToUpper)
	if raw := values.Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return q, dErrors.New(dErrors.CodeBadRequest, "available must be true or false")
		}
		q.AvailableOnly = available
	}
	var err error
	if q.Limit, err = intParam(values.Get("limit"), "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = intParam(values.Get("offset"), "offset"); err != nil {
		return q, err
	}
	return q, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, name+" must be a non-negative integer")
	}
	return n, nil
}
