package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bloodlink/internal/donor/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) donor(name, email string, bt domain.BloodType, city string, available bool) *models.Donor {
	d := &models.Donor{
		ID:        domain.DonorID(uuid.New()),
		Email:     email,
		FullName:  name,
		BloodType: bt,
		City:      city,
		Available: available,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.store.Create(s.ctx, d))
	return d
}

func (s *InMemoryStoreSuite) TestCreateRejectsDuplicateEmail() {
	s.donor("Ana", "ana@example.com", domain.BloodTypeOPos, "Pune", true)

	err := s.store.Create(s.ctx, &models.Donor{ID: domain.DonorID(uuid.New()), Email: "ANA@example.com"})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryStoreSuite) TestSearch() {
	ana := s.donor("Ana", "ana@example.com", domain.BloodTypeOPos, "Pune", true)
	ben := s.donor("ben", "ben@example.com", domain.BloodTypeONeg, "pune", false)
	cy := s.donor("Cy", "cy@example.com", domain.BloodTypeOPos, "Mumbai", true)

	s.Run("filters by blood type and city case-insensitively", func() {
		got, err := s.store.Search(s.ctx, models.SearchFilter{
			BloodTypes: []domain.BloodType{domain.BloodTypeOPos, domain.BloodTypeONeg},
			City:       "PUNE",
		})
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(ana.ID, got[0].ID)
		s.Equal(ben.ID, got[1].ID)
	})

	s.Run("available only uses the stored flag", func() {
		got, err := s.store.Search(s.ctx, models.SearchFilter{AvailableOnly: true})
		s.Require().NoError(err)
		s.Len(got, 2)
		for _, d := range got {
			s.NotEqual(ben.ID, d.ID)
		}
	})

	s.Run("pages results", func() {
		got, err := s.store.List(s.ctx, 1, 2)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(cy.ID, got[0].ID)

		got, err = s.store.List(s.ctx, 10, 5)
		s.Require().NoError(err)
		s.Empty(got)
	})
}

func (s *InMemoryStoreSuite) TestSetAvailabilityAndCounts() {
	d := s.donor("Ana", "ana@example.com", domain.BloodTypeAPos, "Pune", true)
	s.donor("Ben", "ben@example.com", domain.BloodTypeAPos, "Pune", true)

	at := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.SetAvailability(s.ctx, d.ID, false, at))

	got, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.False(got.Available)
	s.Equal(at, got.UpdatedAt)

	total, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, total)
	available, err := s.store.CountAvailable(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, available)

	s.ErrorIs(s.store.SetAvailability(s.ctx, domain.DonorID(uuid.New()), true, at), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestReturnedValuesAreCopies() {
	d := s.donor("Ana", "ana@example.com", domain.BloodTypeAPos, "Pune", true)

	got, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	got.City = "Changed"

	again, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal("Pune", again.City)
}

func (s *InMemoryStoreSuite) TestDelete() {
	d := s.donor("Ana", "ana@example.com", domain.BloodTypeAPos, "Pune", true)

	s.Require().NoError(s.store.Delete(s.ctx, d.ID))
	_, err := s.store.FindByID(s.ctx, d.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, d.ID), sentinel.ErrNotFound)

	ids, err := s.store.ListIDs(s.ctx)
	s.Require().NoError(err)
	s.Empty(ids)
}
