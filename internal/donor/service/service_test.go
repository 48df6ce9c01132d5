package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	authservice "bloodlink/internal/auth/service"
	"bloodlink/internal/auth/store/revocation"
	userstore "bloodlink/internal/auth/store/user"
	donationmodels "bloodlink/internal/donation/models"
	donationstore "bloodlink/internal/donation/store"
	"bloodlink/internal/donor/models"
	donorstore "bloodlink/internal/donor/store"
	"bloodlink/internal/eligibility"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/tx"
	"bloodlink/pkg/requestcontext"
	"bloodlink/pkg/secrets"
)

type DonorServiceSuite struct {
	suite.Suite
	donors    *donorstore.InMemoryStore
	donations *donationstore.InMemoryStore
	users     *userstore.InMemoryUserStore
	service   *Service
	now       time.Time
	ctx       context.Context
}

func TestDonorServiceSuite(t *testing.T) {
	suite.Run(t, new(DonorServiceSuite))
}

func (s *DonorServiceSuite) SetupTest() {
	s.donors = donorstore.NewInMemoryStore()
	s.donations = donationstore.NewInMemoryStore()
	s.users = userstore.New()
	accounts := authservice.New(s.users, nil, revocation.NewInMemoryTRL(nil), secrets.NewHasher(bcrypt.MinCost))
	s.service = New(s.donors, s.donations, accounts, &tx.LockRunner{})
	s.now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *DonorServiceSuite) validRegistration() RegisterCommand {
	return RegisterCommand{
		Email:     "ana@example.com",
		Password:  "password1!",
		FullName:  "Ana Rao",
		Phone:     "9876543210",
		BloodType: "O+",
		Gender:    "female",
		City:      "Pune",
		District:  "Pune",
		State:     "MH",
	}
}

func (s *DonorServiceSuite) register() *models.Donor {
	donor, err := s.service.Register(s.ctx, s.validRegistration())
	s.Require().NoError(err)
	return donor
}

func (s *DonorServiceSuite) donate(id domain.DonorID, date string, units float64) {
	d, err := domain.ParseDate(date)
	s.Require().NoError(err)
	s.Require().NoError(s.donations.Create(s.ctx, &donationmodels.DonationRecord{
		ID:        domain.DonationID(uuid.New()),
		DonorID:   id,
		Date:      d,
		Units:     units,
		CreatedAt: s.now,
	}))
}

func (s *DonorServiceSuite) TestRegister() {
	s.Run("creates account and profile with a shared ID", func() {
		donor := s.register()

		user, err := s.users.FindByID(s.ctx, domain.UserID(donor.ID))
		s.Require().NoError(err)
		s.Equal(domain.RoleDonor, user.Role)
		s.Equal("ana@example.com", donor.Email)
		s.True(donor.Available)
	})

	s.Run("duplicate email is a conflict", func() {
		_, err := s.service.Register(s.ctx, s.validRegistration())
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("reports every invalid field", func() {
		cmd := s.validRegistration()
		cmd.Email = "not-an-email"
		cmd.Phone = "98765-43210"
		cmd.BloodType = "C+"
		cmd.FullName = " Ana"

		_, err := s.service.Register(s.ctx, cmd)
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Equal(dErrors.CodeValidation, de.Code)
		s.Contains(de.Fields, "email")
		s.Contains(de.Fields, "phone")
		s.Contains(de.Fields, "blood_type")
		s.Contains(de.Fields, "full_name")
	})
}

func (s *DonorServiceSuite) TestDashboard() {
	s.Run("new donor is eligible with a complete profile", func() {
		donor := s.register()

		view, err := s.service.Dashboard(s.ctx, donor.ID)
		s.Require().NoError(err)
		s.True(view.Eligibility.IsEligible)
		s.Nil(view.Eligibility.Countdown)
		s.True(view.ProfileComplete)
		s.Empty(view.MissingFields)
		s.Nil(view.LastDonation)
		s.Zero(view.DonationCount)
	})

	s.Run("recent donation yields a countdown and names missing fields", func() {
		cmd := s.validRegistration()
		cmd.Email = "ben@example.com"
		cmd.Gender = ""
		cmd.District = ""
		donor, err := s.service.Register(s.ctx, cmd)
		s.Require().NoError(err)
		s.donate(donor.ID, "2025-01-01", 1)
		s.donate(donor.ID, "2025-05-11", 0.5)

		view, err := s.service.Dashboard(s.ctx, donor.ID)
		s.Require().NoError(err)
		s.False(view.Eligibility.IsEligible)
		s.False(view.Donor.Available)
		s.Require().NotNil(view.Eligibility.Countdown)
		// 2025-05-11 + 90 days = 2025-08-09 00:00 UTC; now is 2025-06-10 12:00.
		s.Equal(eligibility.Countdown{Days: 59, Hours: 12}, *view.Eligibility.Countdown)
		s.False(view.ProfileComplete)
		s.Equal([]string{models.FieldGender, models.FieldDistrict}, view.MissingFields)
		s.Require().NotNil(view.LastDonation)
		s.Equal("2025-05-11", view.LastDonation.Date.String())
		s.Equal(2, view.DonationCount)
		s.InDelta(1.5, view.TotalUnits, 1e-9)
	})

	s.Run("unknown donor", func() {
		_, err := s.service.Dashboard(s.ctx, domain.DonorID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *DonorServiceSuite) TestUpdateProfile() {
	donor := s.register()

	s.Run("applies set fields only", func() {
		city := "Mumbai"
		got, err := s.service.UpdateProfile(s.ctx, donor.ID, models.ProfileUpdate{City: &city})
		s.Require().NoError(err)
		s.Equal("Mumbai", got.City)
		s.Equal("9876543210", got.Phone)
	})

	s.Run("revalidates phone and blood type", func() {
		phone := "12345"
		bt := domain.BloodType("Z")
		_, err := s.service.UpdateProfile(s.ctx, donor.ID, models.ProfileUpdate{Phone: &phone, BloodType: &bt})
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Contains(de.Fields, "phone")
		s.Contains(de.Fields, "blood_type")
	})
}

func (s *DonorServiceSuite) TestRecomputeAvailability() {
	donor := s.register()
	s.donate(donor.ID, "2025-06-01", 1)

	s.Require().NoError(s.service.RecomputeAvailability(s.ctx, donor.ID))
	stored, err := s.donors.FindByID(s.ctx, donor.ID)
	s.Require().NoError(err)
	s.False(stored.Available)

	// Exactly 90 days later the donor is eligible again.
	later := requestcontext.WithTime(context.Background(), time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC))
	summary, err := s.service.RecomputeAll(later)
	s.Require().NoError(err)
	s.Equal(RecomputeSummary{Donors: 1}, summary)
	stored, err = s.donors.FindByID(s.ctx, donor.ID)
	s.Require().NoError(err)
	s.True(stored.Available)
}

func (s *DonorServiceSuite) TestSearch() {
	donor := s.register()

	s.Run("filters by parsed blood types", func() {
		got, err := s.service.Search(s.ctx, SearchQuery{BloodTypes: []string{"O+"}, City: "pune"})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(donor.ID, got[0].ID)
	})

	s.Run("unknown blood type is a validation error", func() {
		_, err := s.service.Search(s.ctx, SearchQuery{BloodTypes: []string{"o+"}})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("no match returns an empty list", func() {
		got, err := s.service.Search(s.ctx, SearchQuery{BloodTypes: []string{"AB-"}})
		s.Require().NoError(err)
		s.NotNil(got)
		s.Empty(got)
	})
}

func (s *DonorServiceSuite) TestStreamEligibility() {
	donor := s.register()
	s.donate(donor.ID, "2025-06-01", 1)
	next := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)

	ticks := []time.Time{next.Add(-2 * time.Second), next.Add(-time.Second), next}
	i := 0
	clock := func() time.Time {
		t := ticks[min(i, len(ticks)-1)]
		i++
		return t
	}
	svc := New(s.donors, s.donations, nil, &tx.LockRunner{}, WithClock(clock), WithStreamTick(time.Millisecond))

	s.Run("counts down until eligible", func() {
		var frames []CountdownFrame
		err := svc.StreamEligibility(s.ctx, donor.ID, func(f CountdownFrame) error {
			frames = append(frames, f)
			return nil
		})
		s.Require().NoError(err)
		s.Require().Len(frames, 3)
		s.Equal(int64(2), frames[0].Seconds)
		s.Equal(int64(1), frames[1].Seconds)
		s.True(frames[2].IsEligible)
		s.True(frames[2].Countdown.IsZero())
	})

	s.Run("stops when the client goes away", func() {
		i = 0
		ctx, cancel := context.WithCancel(s.ctx)
		errGone := errors.New("client gone")
		err := svc.StreamEligibility(ctx, donor.ID, func(CountdownFrame) error {
			cancel()
			return errGone
		})
		s.ErrorIs(err, errGone)
	})

	s.Run("eligible donor gets a single frame", func() {
		fresh, err := s.service.Register(s.ctx, RegisterCommand{
			Email: "cy@example.com", Password: "password1!", FullName: "Cy Das",
			Phone: "9123456780", BloodType: "A+",
		})
		s.Require().NoError(err)

		var frames []CountdownFrame
		s.Require().NoError(svc.StreamEligibility(s.ctx, fresh.ID, func(f CountdownFrame) error {
			frames = append(frames, f)
			return nil
		}))
		s.Equal([]CountdownFrame{{IsEligible: true}}, frames)
	})
}
