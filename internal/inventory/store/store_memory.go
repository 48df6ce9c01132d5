package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"bloodlink/internal/inventory/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

type rowKey struct {
	org       domain.OrganizationID
	bloodType domain.BloodType
}

// InMemoryStore keeps inventory rows keyed by organization and blood type.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows map[rowKey]models.InventoryRow
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rows: make(map[rowKey]models.InventoryRow)}
}

func (s *InMemoryStore) Get(_ context.Context, org domain.OrganizationID, bt domain.BloodType) (*models.InventoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[rowKey{org, bt}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &row, nil
}

// Upsert writes the row, creating it on first write.
func (s *InMemoryStore) Upsert(_ context.Context, row *models.InventoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[rowKey{row.OrganizationID, row.BloodType}] = *row
	return nil
}

// ListByOrganization returns the organization's rows ordered by blood type.
func (s *InMemoryStore) ListByOrganization(_ context.Context, org domain.OrganizationID) ([]*models.InventoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.InventoryRow
	for key, row := range s.rows {
		if key.org == org {
			r := row
			out = append(out, &r)
		}
	}
	slices.SortFunc(out, func(a, b *models.InventoryRow) int {
		return strings.Compare(string(a.BloodType), string(b.BloodType))
	})
	return out, nil
}
