package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bloodlink/internal/emergency/models"
	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/validation"
	"bloodlink/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, req *models.EmergencyRequest) error
	FindByID(ctx context.Context, id domain.EmergencyID) (*models.EmergencyRequest, error)
	Update(ctx context.Context, req *models.EmergencyRequest) error
	ListByOrganization(ctx context.Context, org domain.OrganizationID) ([]*models.EmergencyRequest, error)
	ListActive(ctx context.Context) ([]*models.EmergencyRequest, error)
}

// Notifier hands new requests to the broadcast side.
type Notifier interface {
	NotifyCreated(ctx context.Context, event models.Created) error
}

const defaultNotifyTimeout = 5 * time.Second

// Service manages organizations' emergency blood requests.
type Service struct {
	store         Store
	notifier      Notifier
	notifyTimeout time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

func New(store Store, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		store:         store,
		notifier:      notifier,
		notifyTimeout: defaultNotifyTimeout,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCommand is a new emergency request as entered by an organization.
type CreateCommand struct {
	BloodType     string
	UnitsRequired int
	Urgency       string
	Description   string
}

// Create opens a request and notifies donors. A failed notification is
// logged and counted; the request stays open.
func (s *Service) Create(ctx context.Context, org domain.OrganizationID, cmd CreateCommand) (*models.EmergencyRequest, error) {
	v := validation.New()
	v.Require("blood_type", cmd.BloodType).Check("blood_type", validation.BloodType(cmd.BloodType))
	urgency, err := models.ParseUrgency(cmd.Urgency)
	v.Check("urgency", err)
	if cmd.UnitsRequired <= 0 {
		v.Check("units_required", errors.New("units required must be positive"))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	req, err := models.NewEmergencyRequest(domain.EmergencyID(uuid.New()), org,
		domain.BloodType(cmd.BloodType), cmd.UnitsRequired, urgency, cmd.Description, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create emergency request")
	}
	s.metrics.IncrementEmergenciesOpened(string(req.Urgency))
	s.logger.InfoContext(ctx, "emergency request opened",
		"request_id", requestcontext.RequestID(ctx),
		"organization_id", org,
		"emergency_id", req.ID,
		"urgency", req.Urgency,
	)
	s.notify(ctx, req)
	return req, nil
}

// Close moves an active request owned by org to Closed. Closing twice is a
// conflict.
func (s *Service) Close(ctx context.Context, org domain.OrganizationID, id domain.EmergencyID) (*models.EmergencyRequest, error) {
	req, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "emergency request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load emergency request")
	}
	if req.OrganizationID != org {
		return nil, dErrors.New(dErrors.CodeNotFound, "emergency request not found")
	}
	if err := req.CanClose(); err != nil {
		return nil, err
	}
	req.ApplyClose(requestcontext.Now(ctx))
	if err := s.store.Update(ctx, req); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "emergency request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to close emergency request")
	}
	s.logger.InfoContext(ctx, "emergency request closed",
		"request_id", requestcontext.RequestID(ctx),
		"organization_id", org,
		"emergency_id", id,
	)
	return req, nil
}

func (s *Service) ListByOrganization(ctx context.Context, org domain.OrganizationID) ([]*models.EmergencyRequest, error) {
	reqs, err := s.store.ListByOrganization(ctx, org)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list emergency requests")
	}
	return nonNil(reqs), nil
}

// ListActive is the public board of open requests.
func (s *Service) ListActive(ctx context.Context) ([]*models.EmergencyRequest, error) {
	reqs, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active emergency requests")
	}
	return nonNil(reqs), nil
}

func (s *Service) notify(ctx context.Context, req *models.EmergencyRequest) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	err := s.notifier.NotifyCreated(ctx, models.Created{
		ID:             req.ID,
		OrganizationID: req.OrganizationID,
		BloodType:      req.BloodType,
		UnitsRequired:  req.UnitsRequired,
		Urgency:        req.Urgency,
		CreatedAt:      req.CreatedAt,
	})
	if err != nil {
		s.metrics.IncrementNotificationsFailed()
		s.logger.ErrorContext(ctx, "failed to send emergency notification",
			"request_id", requestcontext.RequestID(ctx),
			"emergency_id", req.ID,
			"error", err,
		)
	}
}

func nonNil(reqs []*models.EmergencyRequest) []*models.EmergencyRequest {
	if reqs == nil {
		return []*models.EmergencyRequest{}
	}
	return reqs
}
