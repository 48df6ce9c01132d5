package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"bloodlink/internal/donor/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

// InMemoryStore keeps donor profiles in a map keyed by ID.
type InMemoryStore struct {
	mu     sync.RWMutex
	donors map[domain.DonorID]models.Donor
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{donors: make(map[domain.DonorID]models.Donor)}
}

func (s *InMemoryStore) Create(_ context.Context, donor *models.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.donors[donor.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, d := range s.donors {
		if strings.EqualFold(d.Email, donor.Email) {
			return sentinel.ErrConflict
		}
	}
	s.donors[donor.ID] = *donor
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.DonorID) (*models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	donor, ok := s.donors[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &donor, nil
}

func (s *InMemoryStore) Update(_ context.Context, donor *models.Donor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donors[donor.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.donors[donor.ID] = *donor
	return nil
}

// SetAvailability rewrites only the stored availability flag.
func (s *InMemoryStore) SetAvailability(_ context.Context, id domain.DonorID, available bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	donor, ok := s.donors[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	donor.Available = available
	donor.UpdatedAt = at
	s.donors[id] = donor
	return nil
}

// Search returns donors matching filter ordered by name, then ID.
func (s *InMemoryStore) Search(_ context.Context, filter models.SearchFilter) ([]*models.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Donor
	for _, d := range s.donors {
		if matches(d, filter) {
			donor := d
			out = append(out, &donor)
		}
	}
	sortByName(out)
	return page(out, filter.Offset, filter.Limit), nil
}

// List returns all donors ordered by name, then ID.
func (s *InMemoryStore) List(ctx context.Context, limit, offset int) ([]*models.Donor, error) {
	return s.Search(ctx, models.SearchFilter{Limit: limit, Offset: offset})
}

// ListIDs returns every donor ID. Used by the availability recompute job.
func (s *InMemoryStore) ListIDs(_ context.Context) ([]domain.DonorID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]domain.DonorID, 0, len(s.donors))
	for id := range s.donors {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b domain.DonorID) int { return strings.Compare(a.String(), b.String()) })
	return ids, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.DonorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donors[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.donors, id)
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.donors), nil
}

func (s *InMemoryStore) CountAvailable(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, d := range s.donors {
		if d.Available {
			n++
		}
	}
	return n, nil
}

func matches(d models.Donor, f models.SearchFilter) bool {
	if len(f.BloodTypes) > 0 && !slices.Contains(f.BloodTypes, d.BloodType) {
		return false
	}
	if f.City != "" && !strings.EqualFold(d.City, f.City) {
		return false
	}
	if f.State != "" && !strings.EqualFold(d.State, f.State) {
		return false
	}
	if f.AvailableOnly && !d.Available {
		return false
	}
	return true
}

func sortByName(donors []*models.Donor) {
	slices.SortFunc(donors, func(a, b *models.Donor) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName)),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
}

func page(donors []*models.Donor, offset, limit int) []*models.Donor {
	offset = max(offset, 0)
	if offset >= len(donors) {
		return nil
	}
	donors = donors[offset:]
	if limit > 0 && limit < len(donors) {
		donors = donors[:limit]
	}
	return donors
}
