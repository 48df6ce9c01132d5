package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	authmodels "bloodlink/internal/auth/models"
	authservice "bloodlink/internal/auth/service"
	donationmodels "bloodlink/internal/donation/models"
	"bloodlink/internal/donor/models"
	"bloodlink/internal/eligibility"
	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
	"bloodlink/pkg/platform/validation"
	"bloodlink/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, donor *models.Donor) error
	FindByID(ctx context.Context, id domain.DonorID) (*models.Donor, error)
	Update(ctx context.Context, donor *models.Donor) error
	SetAvailability(ctx context.Context, id domain.DonorID, available bool, at time.Time) error
	Search(ctx context.Context, filter models.SearchFilter) ([]*models.Donor, error)
	ListIDs(ctx context.Context) ([]domain.DonorID, error)
}

// DonationReader reads a donor's history, most recent first.
type DonationReader interface {
	ListByDonor(ctx context.Context, donorID domain.DonorID) ([]*donationmodels.DonationRecord, error)
}

// AccountCreator creates the login account behind a donor profile.
type AccountCreator interface {
	CreateAccount(ctx context.Context, in authservice.AccountInput, role domain.Role) (*authmodels.User, error)
}

const (
	defaultSearchLimit = 50
	defaultStreamTick  = time.Second
)

// Service owns donor profiles, eligibility and the dashboard view.
type Service struct {
	store       Store
	donations   DonationReader
	accounts    AccountCreator
	tx          tx.Runner
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	clock       func() time.Time
	streamTick  time.Duration
	searchLimit int
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

// WithClock sets the clock used by the eligibility stream, which outlives
// the request-scoped time.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func WithStreamTick(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.streamTick = d
		}
	}
}

func WithSearchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

func New(store Store, donations DonationReader, accounts AccountCreator, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:       store,
		donations:   donations,
		accounts:    accounts,
		tx:          runner,
		logger:      slog.Default(),
		tracer:      otel.Tracer("bloodlink/donor"),
		clock:       time.Now,
		streamTick:  defaultStreamTick,
		searchLimit: defaultSearchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterCommand is the public donor sign-up form.
type RegisterCommand struct {
	Email       string
	Username    string
	Password    string
	FullName    string
	Phone       string
	BloodType   string
	Gender      string
	DateOfBirth *domain.Date
	City        string
	District    string
	State       string
	Country     string
}

func (c RegisterCommand) validate() error {
	v := validation.New()
	v.Require("full_name", c.FullName).Check("full_name", validation.FullName(c.FullName))
	authservice.AccountInput{Email: c.Email, Username: c.Username, Password: c.Password}.Validate(v)
	v.Require("phone", c.Phone).Check("phone", validation.Phone(c.Phone))
	v.Require("blood_type", c.BloodType).Check("blood_type", validation.BloodType(c.BloodType))
	return v.Err()
}

// Register creates the account and the donor profile together. The profile
// ID is the account's user ID.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*models.Donor, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var donor *models.Donor
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.accounts.CreateAccount(ctx, authservice.AccountInput{
			Email:    cmd.Email,
			Username: cmd.Username,
			Password: cmd.Password,
		}, domain.RoleDonor)
		if err != nil {
			return err
		}
		donor = &models.Donor{
			ID:          domain.DonorID(user.ID),
			Email:       user.Email,
			Phone:       cmd.Phone,
			FullName:    strings.TrimSpace(cmd.FullName),
			Gender:      strings.TrimSpace(cmd.Gender),
			DateOfBirth: cmd.DateOfBirth,
			BloodType:   domain.BloodType(cmd.BloodType),
			City:        strings.TrimSpace(cmd.City),
			District:    strings.TrimSpace(cmd.District),
			State:       strings.TrimSpace(cmd.State),
			Country:     strings.TrimSpace(cmd.Country),
			Available:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.store.Create(ctx, donor); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "email is already registered")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create donor profile")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "donor registered",
		"request_id", requestcontext.RequestID(ctx),
		"donor_id", donor.ID,
	)
	return donor, nil
}

// Get returns the profile with Available derived from the donation history
// rather than the stored flag.
func (s *Service) Get(ctx context.Context, id domain.DonorID) (*models.Donor, error) {
	donor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.history(ctx, id)
	if err != nil {
		return nil, err
	}
	donor.Available = eligibility.Compute(donationmodels.Dates(history), requestcontext.Now(ctx)).IsEligible
	return donor, nil
}

// UpdateProfile applies a partial edit. Phone, blood type and full name are
// re-validated when present.
func (s *Service) UpdateProfile(ctx context.Context, id domain.DonorID, upd models.ProfileUpdate) (*models.Donor, error) {
	v := validation.New()
	if upd.FullName != nil {
		v.Check("full_name", validation.FullName(*upd.FullName))
	}
	if upd.Phone != nil {
		v.Check("phone", validation.Phone(*upd.Phone))
	}
	if upd.BloodType != nil {
		v.Check("blood_type", validation.BloodType(string(*upd.BloodType)))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	donor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	upd.Apply(donor, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, donor); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update donor profile")
	}
	s.logger.InfoContext(ctx, "donor profile updated",
		"request_id", requestcontext.RequestID(ctx),
		"donor_id", id,
	)
	return donor, nil
}

// DashboardView is everything the donor home screen needs in one read.
type DashboardView struct {
	Donor           *models.Donor                    `json:"donor"`
	Eligibility     eligibility.Result               `json:"eligibility"`
	ProfileComplete bool                             `json:"profile_complete"`
	MissingFields   []string                         `json:"missing_fields"`
	LastDonation    *donationmodels.DonationRecord   `json:"last_donation,omitempty"`
	RecentDonations []*donationmodels.DonationRecord `json:"recent_donations"`
	DonationCount   int                              `json:"donation_count"`
	TotalUnits      float64                          `json:"total_units"`
}

const recentDonations = 5

// Dashboard reads the profile and history concurrently, then runs the
// eligibility calculation and the profile completeness gate over them.
func (s *Service) Dashboard(ctx context.Context, id domain.DonorID) (*DashboardView, error) {
	defer s.metrics.ObserveDashboard(time.Now())
	ctx, span := s.tracer.Start(ctx, "donor.Dashboard",
		trace.WithAttributes(attribute.String("donor.id", id.String())))
	defer span.End()

	var (
		donor   *models.Donor
		history []*donationmodels.DonationRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		donor, err = s.load(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		history, err = s.history(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dashboard read failed")
		return nil, err
	}

	result := eligibility.Compute(donationmodels.Dates(history), requestcontext.Now(ctx))
	donor.Available = result.IsEligible
	missing := models.MissingProfileFields(donor)
	if missing == nil {
		missing = []string{}
	}
	view := &DashboardView{
		Donor:           donor,
		Eligibility:     result,
		ProfileComplete: len(missing) == 0,
		MissingFields:   missing,
		RecentDonations: history[:min(len(history), recentDonations)],
		DonationCount:   len(history),
		TotalUnits:      donationmodels.TotalUnits(history),
	}
	if len(history) > 0 {
		view.LastDonation = history[0]
	}
	span.SetAttributes(
		attribute.Bool("donor.eligible", result.IsEligible),
		attribute.Bool("donor.profile_complete", view.ProfileComplete),
		attribute.Int("donor.donation_count", view.DonationCount),
	)
	return view, nil
}

// Eligibility computes the donor's current eligibility from history.
func (s *Service) Eligibility(ctx context.Context, id domain.DonorID) (eligibility.Result, error) {
	if _, err := s.load(ctx, id); err != nil {
		return eligibility.Result{}, err
	}
	history, err := s.history(ctx, id)
	if err != nil {
		return eligibility.Result{}, err
	}
	return eligibility.Compute(donationmodels.Dates(history), requestcontext.Now(ctx)), nil
}

// CountdownFrame is one tick of the eligibility stream.
type CountdownFrame struct {
	eligibility.Countdown
	IsEligible bool `json:"is_eligible"`
}

// StreamEligibility emits a countdown frame immediately and then once per
// tick until the donor becomes eligible or ctx is cancelled. The last frame
// sent always has IsEligible set unless ctx ended the stream.
func (s *Service) StreamEligibility(ctx context.Context, id domain.DonorID, emit func(CountdownFrame) error) error {
	result, err := s.Eligibility(ctx, id)
	if err != nil {
		return err
	}
	if result.IsEligible || result.NextEligibleDate == nil {
		return emit(CountdownFrame{IsEligible: true})
	}
	next := *result.NextEligibleDate

	frame := func() CountdownFrame {
		now := s.clock()
		return CountdownFrame{
			Countdown:  eligibility.CountdownUntil(next, now),
			IsEligible: !now.Before(next),
		}
	}
	f := frame()
	if err := emit(f); err != nil || f.IsEligible {
		return err
	}

	ticker := time.NewTicker(s.streamTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f := frame()
			if err := emit(f); err != nil || f.IsEligible {
				return err
			}
		}
	}
}

// RecomputeAvailability rewrites the stored availability flag from a fresh
// eligibility computation.
func (s *Service) RecomputeAvailability(ctx context.Context, id domain.DonorID) error {
	history, err := s.history(ctx, id)
	if err != nil {
		return err
	}
	now := requestcontext.Now(ctx)
	available := eligibility.Compute(donationmodels.Dates(history), now).IsEligible
	if err := s.store.SetAvailability(ctx, id, available, now); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store donor availability")
	}
	return nil
}

// RecomputeSummary reports a batch recompute run.
type RecomputeSummary struct {
	Donors int
	Failed int
}

// RecomputeAll refreshes the stored flag for every donor against one instant.
// Individual failures are logged and counted; the run continues.
func (s *Service) RecomputeAll(ctx context.Context) (RecomputeSummary, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return RecomputeSummary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donors")
	}
	ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))

	summary := RecomputeSummary{Donors: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := s.RecomputeAvailability(ctx, id); err != nil {
			summary.Failed++
			s.logger.WarnContext(ctx, "failed to recompute donor availability",
				"donor_id", id,
				"error", err,
			)
		}
	}
	s.logger.InfoContext(ctx, "donor availability recomputed",
		"donors", summary.Donors,
		"failed", summary.Failed,
	)
	return summary, nil
}

// SearchQuery is the raw search input from the organization UI.
type SearchQuery struct {
	BloodTypes    []string
	City          string
	State         string
	AvailableOnly bool
	Limit         int
	Offset        int
}

// Search finds donors by blood type and location. Availability filtering
// reads the stored flag, which may lag the live rule by one recompute.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]*models.Donor, error) {
	filter := models.SearchFilter{
		City:          strings.TrimSpace(q.City),
		State:         strings.TrimSpace(q.State),
		AvailableOnly: q.AvailableOnly,
		Limit:         q.Limit,
		Offset:        max(q.Offset, 0),
	}
	v := validation.New()
	for _, raw := range q.BloodTypes {
		bt, err := domain.ParseBloodType(raw)
		if err != nil {
			v.Check("blood_type", err)
			continue
		}
		filter.BloodTypes = append(filter.BloodTypes, bt)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 || filter.Limit > s.searchLimit {
		filter.Limit = s.searchLimit
	}

	donors, err := s.store.Search(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search donors")
	}
	if donors == nil {
		donors = []*models.Donor{}
	}
	return donors, nil
}

func (s *Service) load(ctx context.Context, id domain.DonorID) (*models.Donor, error) {
	donor, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "donor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	return donor, nil
}

func (s *Service) history(ctx context.Context, id domain.DonorID) ([]*donationmodels.DonationRecord, error) {
	records, err := s.donations.ListByDonor(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donation history")
	}
	return records, nil
}
