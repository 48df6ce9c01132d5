package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"bloodlink/internal/admin/export"
	"bloodlink/internal/admin/models"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
	"bloodlink/pkg/requestcontext"
)

// DonorDirectory lists and removes donor profiles.
type DonorDirectory interface {
	List(ctx context.Context, limit, offset int) ([]*models.DonorSummary, error)
	Count(ctx context.Context) (int, error)
	CountAvailable(ctx context.Context) (int, error)
	Delete(ctx context.Context, id domain.DonorID) error
}

// DonationLedger reads and purges donation history.
type DonationLedger interface {
	Totals(ctx context.Context, donorID domain.DonorID) (models.DonationTotals, error)
	DeleteByDonor(ctx context.Context, donorID domain.DonorID) error
	TotalUnits(ctx context.Context) (float64, error)
}

// Counter counts rows of one kind. Organization, emergency and seeker stores
// each satisfy it through a method value.
type Counter func(ctx context.Context) (int, error)

// AccountDeleter removes the login that owns a profile.
type AccountDeleter interface {
	DeleteUser(ctx context.Context, id domain.UserID) error
}

// Counters groups the totals that live outside the donor module.
type Counters struct {
	Organizations     Counter
	ActiveEmergencies Counter
	SeekerSubmissions Counter
}

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Service is the back office: platform totals and donor administration.
type Service struct {
	donors    DonorDirectory
	donations DonationLedger
	counters  Counters
	accounts  AccountDeleter
	tx        tx.Runner
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(donors DonorDirectory, donations DonationLedger, counters Counters, accounts AccountDeleter, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		donors:    donors,
		donations: donations,
		counters:  counters,
		accounts:  accounts,
		tx:        runner,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats gathers every total concurrently.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, fn Counter) {
		if fn == nil {
			return
		}
		g.Go(func() error {
			n, err := fn(gctx)
			*dst = n
			return err
		})
	}
	count(&stats.Donors, s.donors.Count)
	count(&stats.AvailableDonors, s.donors.CountAvailable)
	count(&stats.Organizations, s.counters.Organizations)
	count(&stats.ActiveEmergencies, s.counters.ActiveEmergencies)
	count(&stats.SeekerSubmissions, s.counters.SeekerSubmissions)
	g.Go(func() error {
		total, err := s.donations.TotalUnits(gctx)
		stats.TotalUnitsDonated = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute stats")
	}
	return &stats, nil
}

// ListDonors returns a page of donors with their donation totals.
func (s *Service) ListDonors(ctx context.Context, limit, offset int) (*models.DonorPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	offset = max(offset, 0)

	donors, err := s.donors.List(ctx, limit, offset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donors")
	}
	if err := s.fillTotals(ctx, donors); err != nil {
		return nil, err
	}
	total, err := s.donors.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count donors")
	}
	if donors == nil {
		donors = []*models.DonorSummary{}
	}
	return &models.DonorPage{Donors: donors, Total: total, Limit: limit, Offset: offset}, nil
}

// DeleteDonor removes the donor's history, profile and account together.
func (s *Service) DeleteDonor(ctx context.Context, id domain.DonorID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "donor ID required")
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.donations.DeleteByDonor(ctx, id); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete donations")
		}
		if err := s.donors.Delete(ctx, id); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "donor not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete donor")
		}
		return s.accounts.DeleteUser(ctx, domain.UserID(id))
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "donor deleted by admin",
		"request_id", requestcontext.RequestID(ctx),
		"admin_id", requestcontext.UserID(ctx),
		"donor_id", id,
	)
	return nil
}

// ExportDonors renders every donor as an XLSX workbook.
func (s *Service) ExportDonors(ctx context.Context) ([]byte, error) {
	donors, err := s.donors.List(ctx, 0, 0)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donors")
	}
	if err := s.fillTotals(ctx, donors); err != nil {
		return nil, err
	}
	raw, err := export.DonorsXLSX(donors)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render donor export")
	}
	s.logger.InfoContext(ctx, "donor export generated",
		"request_id", requestcontext.RequestID(ctx),
		"donors", len(donors),
		"bytes", len(raw),
	)
	return raw, nil
}

func (s *Service) fillTotals(ctx context.Context, donors []*models.DonorSummary) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, d := range donors {
		g.Go(func() error {
			totals, err := s.donations.Totals(gctx, d.ID)
			if err != nil {
				return err
			}
			d.Apply(totals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation totals")
	}
	return nil
}
