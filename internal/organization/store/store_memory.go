package store

import (
	"context"
	"strings"
	"sync"

	"bloodlink/internal/organization/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

// InMemoryStore keeps organizations in a map keyed by ID.
type InMemoryStore struct {
	mu   sync.RWMutex
	orgs map[domain.OrganizationID]models.Organization
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{orgs: make(map[domain.OrganizationID]models.Organization)}
}

func (s *InMemoryStore) Create(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orgs[org.ID]; exists {
		return sentinel.ErrConflict
	}
	for _, o := range s.orgs {
		if strings.EqualFold(o.Email, org.Email) {
			return sentinel.ErrConflict
		}
	}
	s.orgs[org.ID] = *org
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.OrganizationID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &org, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orgs), nil
}
