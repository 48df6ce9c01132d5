package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bloodlink/internal/donation/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	donor domain.DonorID
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.donor = domain.DonorID(uuid.New())
}

func (s *InMemoryStoreSuite) record(donor domain.DonorID, date string, units float64) *models.DonationRecord {
	d, err := domain.ParseDate(date)
	s.Require().NoError(err)
	return &models.DonationRecord{
		ID:        domain.DonationID(uuid.New()),
		DonorID:   donor,
		Date:      d,
		Units:     units,
		CreatedAt: time.Now(),
	}
}

func (s *InMemoryStoreSuite) TestListByDonorOrdersMostRecentFirst() {
	older := s.record(s.donor, "2024-01-10", 1)
	newer := s.record(s.donor, "2024-06-01", 1)
	other := s.record(domain.DonorID(uuid.New()), "2024-07-01", 1)
	for _, r := range []*models.DonationRecord{older, newer, other} {
		s.Require().NoError(s.store.Create(s.ctx, r))
	}

	list, err := s.store.ListByDonor(s.ctx, s.donor)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newer.ID, list[0].ID)
	s.Equal(older.ID, list[1].ID)
}

func (s *InMemoryStoreSuite) TestReturnedRecordsAreCopies() {
	r := s.record(s.donor, "2024-01-10", 1)
	s.Require().NoError(s.store.Create(s.ctx, r))

	found, err := s.store.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	found.Units = 4

	again, err := s.store.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(1.0, again.Units)
}

func (s *InMemoryStoreSuite) TestUpdateAndDeleteMissingRecord() {
	r := s.record(s.donor, "2024-01-10", 1)
	s.ErrorIs(s.store.Update(s.ctx, r), sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, r.ID), sentinel.ErrNotFound)

	s.Require().NoError(s.store.Create(s.ctx, r))
	s.Require().NoError(s.store.Delete(s.ctx, r.ID))
	s.ErrorIs(s.store.Update(s.ctx, r), sentinel.ErrNotFound, "editing a deleted record is not found")
	_, err := s.store.FindByID(s.ctx, r.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestDeleteByDonorAndTotals() {
	s.Require().NoError(s.store.Create(s.ctx, s.record(s.donor, "2024-01-10", 1.5)))
	s.Require().NoError(s.store.Create(s.ctx, s.record(s.donor, "2024-05-10", 1)))
	s.Require().NoError(s.store.Create(s.ctx, s.record(domain.DonorID(uuid.New()), "2024-05-10", 2)))

	total, err := s.store.TotalUnits(s.ctx)
	s.Require().NoError(err)
	s.InDelta(4.5, total, 0.0001)

	s.Require().NoError(s.store.DeleteByDonor(s.ctx, s.donor))
	list, err := s.store.ListByDonor(s.ctx, s.donor)
	s.Require().NoError(err)
	s.Empty(list)
}
