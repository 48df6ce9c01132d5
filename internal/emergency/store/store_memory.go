package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"bloodlink/internal/emergency/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

// InMemoryStore keeps emergency requests in a map keyed by ID.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[domain.EmergencyID]models.EmergencyRequest
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{requests: make(map[domain.EmergencyID]models.EmergencyRequest)}
}

func (s *InMemoryStore) Create(_ context.Context, req *models.EmergencyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.ID]; exists {
		return sentinel.ErrConflict
	}
	s.requests[req.ID] = *req
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.EmergencyID) (*models.EmergencyRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &req, nil
}

func (s *InMemoryStore) Update(_ context.Context, req *models.EmergencyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.requests[req.ID] = *req
	return nil
}

// ListByOrganization returns the organization's requests, newest first.
func (s *InMemoryStore) ListByOrganization(_ context.Context, org domain.OrganizationID) ([]*models.EmergencyRequest, error) {
	return s.filter(func(r models.EmergencyRequest) bool { return r.OrganizationID == org }), nil
}

// ListActive returns every active request, newest first.
func (s *InMemoryStore) ListActive(_ context.Context) ([]*models.EmergencyRequest, error) {
	return s.filter(func(r models.EmergencyRequest) bool { return r.IsActive() }), nil
}

func (s *InMemoryStore) CountActive(_ context.Context) (int, error) {
	return len(s.filter(func(r models.EmergencyRequest) bool { return r.IsActive() })), nil
}

func (s *InMemoryStore) filter(keep func(models.EmergencyRequest) bool) []*models.EmergencyRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.EmergencyRequest
	for _, r := range s.requests {
		if keep(r) {
			req := r
			out = append(out, &req)
		}
	}
	slices.SortFunc(out, func(a, b *models.EmergencyRequest) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(a.ID.String(), b.ID.String()))
	})
	return out
}
