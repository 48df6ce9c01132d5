package store

import (
	"context"
	"slices"
	"sync"

	"bloodlink/internal/donation/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

// InMemoryStore keeps donation records in a map. Records are copied on the
// way in and out so callers never share state with the store.
type InMemoryStore struct {
	mu        sync.RWMutex
	donations map[domain.DonationID]models.DonationRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{donations: make(map[domain.DonationID]models.DonationRecord)}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.DonationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.donations[record.ID]; exists {
		return sentinel.ErrConflict
	}
	s.donations[record.ID] = *record
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.DonationID) (*models.DonationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.donations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &record, nil
}

// ListByDonor returns the donor's records, most recent date first.
func (s *InMemoryStore) ListByDonor(_ context.Context, donorID domain.DonorID) ([]*models.DonationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.DonationRecord
	for _, record := range s.donations {
		if record.DonorID == donorID {
			r := record
			out = append(out, &r)
		}
	}
	sortRecentFirst(out)
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, record *models.DonationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[record.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.donations[record.ID] = *record
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.DonationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.donations, id)
	return nil
}

func (s *InMemoryStore) DeleteByDonor(_ context.Context, donorID domain.DonorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, record := range s.donations {
		if record.DonorID == donorID {
			delete(s.donations, id)
		}
	}
	return nil
}

func (s *InMemoryStore) TotalUnits(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, record := range s.donations {
		total += record.Units
	}
	return total, nil
}

func sortRecentFirst(records []*models.DonationRecord) {
	slices.SortFunc(records, func(a, b *models.DonationRecord) int {
		if c := b.Date.Time().Compare(a.Date.Time()); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
