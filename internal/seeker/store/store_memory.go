package store

import (
	"context"
	"slices"
	"sync"

	"bloodlink/internal/seeker/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

// InMemoryStore keeps accepted seeker submissions.
type InMemoryStore struct {
	mu          sync.RWMutex
	submissions map[domain.SubmissionID]models.Submission
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{submissions: make(map[domain.SubmissionID]models.Submission)}
}

func (s *InMemoryStore) Create(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[sub.ID]; ok {
		return sentinel.ErrConflict
	}
	s.submissions[sub.ID] = *sub
	return nil
}

// ListRecent returns up to limit submissions, newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]*models.Submission, error) {
	s.mu.RLock()
	out := make([]*models.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		out = append(out, &sub)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *models.Submission) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions), nil
}
