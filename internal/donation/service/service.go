package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"bloodlink/internal/donation/models"
	donormodels "bloodlink/internal/donor/models"
	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, record *models.DonationRecord) error
	FindByID(ctx context.Context, id domain.DonationID) (*models.DonationRecord, error)
	ListByDonor(ctx context.Context, donorID domain.DonorID) ([]*models.DonationRecord, error)
	Update(ctx context.Context, record *models.DonationRecord) error
	Delete(ctx context.Context, id domain.DonationID) error
}

// AvailabilityRecomputer refreshes a donor's stored availability flag after
// their history changes.
type AvailabilityRecomputer interface {
	RecomputeAvailability(ctx context.Context, donorID domain.DonorID) error
}

// DonorLookup resolves the donor an organization records a donation for.
type DonorLookup interface {
	Get(ctx context.Context, id domain.DonorID) (*donormodels.Donor, error)
}

// Service manages a donor's donation history.
type Service struct {
	store        Store
	availability AvailabilityRecomputer
	donors       DonorLookup
	logger       *slog.Logger
	metrics      *metrics.Metrics
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

func WithAvailability(a AvailabilityRecomputer) Option {
	return func(s *Service) {
		s.availability = a
	}
}

func WithDonors(d DonorLookup) Option {
	return func(s *Service) {
		s.donors = d
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCommand carries a new donation as entered by the donor.
type CreateCommand struct {
	Date   domain.Date
	Units  float64
	Notes  string
	Vitals *models.Vitals
}

func (s *Service) List(ctx context.Context, donorID domain.DonorID) ([]*models.DonationRecord, error) {
	records, err := s.store.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donations")
	}
	if records == nil {
		records = []*models.DonationRecord{}
	}
	return records, nil
}

func (s *Service) Create(ctx context.Context, donorID domain.DonorID, cmd CreateCommand) (*models.DonationRecord, error) {
	return s.create(ctx, donorID, cmd, nil)
}

// RecordForDonor creates a record on behalf of donorID that is verified by
// org from the start.
func (s *Service) RecordForDonor(ctx context.Context, org domain.OrganizationID, donorID domain.DonorID, cmd CreateCommand) (*models.DonationRecord, error) {
	if s.donors != nil {
		if _, err := s.donors.Get(ctx, donorID); err != nil {
			return nil, err
		}
	}
	return s.create(ctx, donorID, cmd, &org)
}

func (s *Service) create(ctx context.Context, donorID domain.DonorID, cmd CreateCommand, verifier *domain.OrganizationID) (*models.DonationRecord, error) {
	now := requestcontext.Now(ctx)
	record, err := models.NewDonationRecord(domain.DonationID(uuid.New()), donorID,
		cmd.Date, cmd.Units, cmd.Notes, cmd.Vitals, now)
	if err != nil {
		return nil, err
	}
	if verifier != nil {
		record.ApplyVerification(*verifier, now)
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record donation")
	}
	s.metrics.IncrementDonations("create")
	s.logger.InfoContext(ctx, "donation recorded",
		"request_id", requestcontext.RequestID(ctx),
		"donor_id", donorID,
		"donation_id", record.ID,
		"verified", record.IsVerified(),
	)
	s.recompute(ctx, donorID)
	return record, nil
}

// Update applies a partial edit to a record owned by donorID. Changing the
// date or units of a verified record drops its verification.
func (s *Service) Update(ctx context.Context, donorID domain.DonorID, id domain.DonationID, upd models.DonationUpdate) (*models.DonationRecord, error) {
	return s.update(ctx, id, ownedBy(donorID), upd, true)
}

// UpdateAsOrganization applies a partial edit to a record org has verified.
// The record stays verified.
func (s *Service) UpdateAsOrganization(ctx context.Context, org domain.OrganizationID, id domain.DonationID, upd models.DonationUpdate) (*models.DonationRecord, error) {
	return s.update(ctx, id, verifiedBy(org), upd, false)
}

func (s *Service) update(ctx context.Context, id domain.DonationID, canSee accessCheck, upd models.DonationUpdate, revokeOnChange bool) (*models.DonationRecord, error) {
	if upd.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no fields to update")
	}
	now := requestcontext.Now(ctx)
	var revoked bool
	record, err := s.execute(ctx, id, canSee,
		func(r *models.DonationRecord) error { return upd.Validate(r, now) },
		func(r *models.DonationRecord) {
			revoked = revokeOnChange && r.IsVerified() && upd.ChangesFacts(r)
			upd.Apply(r, now)
			if revoked {
				r.ClearVerification()
			}
		},
	)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementDonations("update")
	if revoked {
		s.logger.InfoContext(ctx, "donation verification cleared by edit",
			"request_id", requestcontext.RequestID(ctx),
			"donor_id", record.DonorID,
			"donation_id", record.ID,
		)
	}
	s.recompute(ctx, record.DonorID)
	return record, nil
}

func (s *Service) Delete(ctx context.Context, donorID domain.DonorID, id domain.DonationID) error {
	if _, err := s.load(ctx, id, ownedBy(donorID)); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "donation not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete donation")
	}
	s.metrics.IncrementDonations("delete")
	s.logger.InfoContext(ctx, "donation deleted",
		"request_id", requestcontext.RequestID(ctx),
		"donor_id", donorID,
		"donation_id", id,
	)
	s.recompute(ctx, donorID)
	return nil
}

// Verify marks a donation as confirmed by an organization. Re-verifying by
// the same organization is a no-op; another organization gets a conflict.
func (s *Service) Verify(ctx context.Context, org domain.OrganizationID, id domain.DonationID) (*models.DonationRecord, error) {
	now := requestcontext.Now(ctx)
	record, err := s.execute(ctx, id, anyone,
		func(r *models.DonationRecord) error {
			if r.IsVerified() && *r.VerifiedBy != org {
				return dErrors.New(dErrors.CodeConflict, "donation already verified by another organization")
			}
			return nil
		},
		func(r *models.DonationRecord) {
			if !r.IsVerified() {
				r.ApplyVerification(org, now)
			}
		},
	)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementDonations("verify")
	return record, nil
}

type accessCheck func(r *models.DonationRecord) bool

func ownedBy(donorID domain.DonorID) accessCheck {
	return func(r *models.DonationRecord) bool { return r.DonorID == donorID }
}

func verifiedBy(org domain.OrganizationID) accessCheck {
	return func(r *models.DonationRecord) bool { return r.IsVerified() && *r.VerifiedBy == org }
}

func anyone(*models.DonationRecord) bool { return true }

// load fetches a record visible to the caller. Records owned by someone else
// are reported as not found so existence does not leak.
func (s *Service) load(ctx context.Context, id domain.DonationID, canSee accessCheck) (*models.DonationRecord, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation")
	}
	if !canSee(record) {
		return nil, dErrors.New(dErrors.CodeNotFound, "donation not found")
	}
	return record, nil
}

// execute loads, validates, mutates and persists a record.
func (s *Service) execute(ctx context.Context, id domain.DonationID, canSee accessCheck,
	validate func(*models.DonationRecord) error, mutate func(*models.DonationRecord)) (*models.DonationRecord, error) {
	record, err := s.load(ctx, id, canSee)
	if err != nil {
		return nil, err
	}
	if err := validate(record); err != nil {
		return nil, err
	}
	mutate(record)
	if err := s.store.Update(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update donation")
	}
	return record, nil
}

// recompute refreshes the stored availability flag. The flag is only a search
// index, so a failure is logged and the mutation still succeeds.
func (s *Service) recompute(ctx context.Context, donorID domain.DonorID) {
	if s.availability == nil {
		return
	}
	if err := s.availability.RecomputeAvailability(ctx, donorID); err != nil {
		s.logger.WarnContext(ctx, "failed to recompute donor availability",
			"request_id", requestcontext.RequestID(ctx),
			"donor_id", donorID,
			"error", err,
		)
	}
}
