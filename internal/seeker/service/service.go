package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"bloodlink/internal/platform/metrics"
	"bloodlink/internal/seeker/models"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/validation"
	"bloodlink/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, sub *models.Submission) error
	ListRecent(ctx context.Context, limit int) ([]*models.Submission, error)
}

// CooldownStore gates submissions per key. Acquire checks and claims all keys
// in one atomic step; when any key is held it returns the holder's time and
// claims nothing. Release undoes a claim made at at.
type CooldownStore interface {
	Acquire(ctx context.Context, keys []string, at time.Time, ttl time.Duration) (time.Time, bool, error)
	Release(ctx context.Context, keys []string, at time.Time) error
}

const (
	outcomeAccepted = "accepted"
	outcomeCooldown = "cooldown"
	outcomeInvalid  = "invalid"

	maxNoteLength = 500
)

// Service accepts public blood requests, throttling repeats per email and phone.
type Service struct {
	store    Store
	cooldown CooldownStore
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

func WithCooldown(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

func New(store Store, cooldown CooldownStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		cooldown: cooldown,
		window:   models.DefaultCooldown,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SubmitCommand struct {
	FullName  string
	Email     string
	Phone     string
	BloodType string
	Units     int
	City      string
	Note      string
}

func (c *SubmitCommand) normalize() {
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.BloodType = strings.TrimSpace(c.BloodType)
	c.City = strings.TrimSpace(c.City)
	c.Note = strings.TrimSpace(c.Note)
}

func (c *SubmitCommand) validate() error {
	v := validation.New()
	v.Require("full_name", c.FullName).Check("full_name", validation.FullName(c.FullName))
	v.Require("email", c.Email).Check("email", validation.Email(c.Email))
	v.Require("phone", c.Phone).Check("phone", validation.Phone(c.Phone))
	v.Require("blood_type", c.BloodType).Check("blood_type", validation.BloodType(c.BloodType))
	if c.Units <= 0 {
		v.Check("units", errors.New("units must be positive"))
	}
	if len(c.Note) > maxNoteLength {
		v.Check("note", errors.New("note must be at most 500 characters"))
	}
	return v.Err()
}

// Submit validates the request, applies the cooldown and stores it. A
// request inside the cooldown window fails with *models.CooldownError.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*models.Submission, error) {
	cmd.normalize()
	if err := cmd.validate(); err != nil {
		s.metrics.IncrementSeekerSubmissions(outcomeInvalid)
		return nil, err
	}

	now := requestcontext.Now(ctx)
	keys := models.CooldownKeys(cmd.Email, cmd.Phone)
	last, acquired, err := s.cooldown.Acquire(ctx, keys, now, s.window)
	switch {
	case err != nil:
		// Accept rather than lose a blood request to a cache outage.
		s.logger.WarnContext(ctx, "seeker cooldown unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	case !acquired:
		wait, _ := models.RetryAfter(last, now, s.window)
		s.metrics.IncrementSeekerSubmissions(outcomeCooldown)
		s.logger.InfoContext(ctx, "seeker submission throttled",
			"request_id", requestcontext.RequestID(ctx),
			"retry_after", wait,
		)
		return nil, &models.CooldownError{RetryAfter: max(1, wait)}
	}

	sub := &models.Submission{
		ID:        domain.SubmissionID(uuid.New()),
		FullName:  strings.TrimSpace(cmd.FullName),
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		BloodType: domain.BloodType(cmd.BloodType),
		Units:     cmd.Units,
		City:      cmd.City,
		Note:      cmd.Note,
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, sub); err != nil {
		if acquired {
			if rerr := s.cooldown.Release(ctx, keys, now); rerr != nil {
				s.logger.WarnContext(ctx, "failed to release seeker cooldown",
					"request_id", requestcontext.RequestID(ctx),
					"error", rerr,
				)
			}
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store seeker submission")
	}
	s.metrics.IncrementSeekerSubmissions(outcomeAccepted)
	s.logger.InfoContext(ctx, "seeker submission accepted",
		"request_id", requestcontext.RequestID(ctx),
		"submission_id", sub.ID,
		"blood_type", sub.BloodType,
	)
	return sub, nil
}

// ListRecent returns the newest submissions for the back office.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	subs, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list seeker submissions")
	}
	if subs == nil {
		subs = []*models.Submission{}
	}
	return subs, nil
}
