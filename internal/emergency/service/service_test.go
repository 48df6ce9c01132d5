package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"bloodlink/internal/emergency/models"
	"bloodlink/internal/emergency/store"
	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/requestcontext"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.Created
	err    error
}

func (n *recordingNotifier) NotifyCreated(_ context.Context, event models.Created) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type EmergencyServiceSuite struct {
	suite.Suite
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	service  *Service
	org      domain.OrganizationID
	ctx      context.Context
}

func TestEmergencyServiceSuite(t *testing.T) {
	suite.Run(t, new(EmergencyServiceSuite))
}

func (s *EmergencyServiceSuite) SetupTest() {
	s.notifier = &recordingNotifier{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(store.NewInMemoryStore(), s.notifier, WithMetrics(s.metrics))
	s.org = domain.OrganizationID(uuid.New())
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
}

func (s *EmergencyServiceSuite) open() *models.EmergencyRequest {
	req, err := s.service.Create(s.ctx, s.org, CreateCommand{
		BloodType:     "O-",
		UnitsRequired: 4,
		Urgency:       "Critical",
		Description:   "  trauma ward  ",
	})
	s.Require().NoError(err)
	return req
}

func (s *EmergencyServiceSuite) TestCreateNotifies() {
	req := s.open()

	s.Equal(models.StatusActive, req.Status)
	s.Equal("trauma ward", req.Description)
	s.Require().Len(s.notifier.events, 1)
	s.Equal(req.ID, s.notifier.events[0].ID)
	s.Equal(models.UrgencyCritical, s.notifier.events[0].Urgency)
}

func (s *EmergencyServiceSuite) TestNotificationFailureDoesNotFailCreate() {
	s.notifier.err = errors.New("broker down")

	req := s.open()

	s.NotNil(req)
	s.InDelta(1, testutil.ToFloat64(s.metrics.NotificationsFailed), 0)
	active, err := s.service.ListActive(s.ctx)
	s.Require().NoError(err)
	s.Len(active, 1)
}

func (s *EmergencyServiceSuite) TestCreateValidation() {
	_, err := s.service.Create(s.ctx, s.org, CreateCommand{BloodType: "Q", UnitsRequired: 0, Urgency: "Low"})
	de, ok := dErrors.As(err)
	s.Require().True(ok)
	s.Contains(de.Fields, "blood_type")
	s.Contains(de.Fields, "units_required")
	s.Contains(de.Fields, "urgency")
	s.Empty(s.notifier.events)
}

func (s *EmergencyServiceSuite) TestClose() {
	req := s.open()

	s.Run("another organization cannot see the request", func() {
		_, err := s.service.Close(s.ctx, domain.OrganizationID(uuid.New()), req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("owner closes it", func() {
		closed, err := s.service.Close(s.ctx, s.org, req.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusClosed, closed.Status)
		s.Require().NotNil(closed.ClosedAt)
	})

	s.Run("closing again is a conflict", func() {
		_, err := s.service.Close(s.ctx, s.org, req.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("closed requests leave the public board", func() {
		active, err := s.service.ListActive(s.ctx)
		s.Require().NoError(err)
		s.Empty(active)

		mine, err := s.service.ListByOrganization(s.ctx, s.org)
		s.Require().NoError(err)
		s.Len(mine, 1)
	})
}
