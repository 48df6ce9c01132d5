package service

import (
	"context"
	"errors"
	"log/slog"

	"bloodlink/internal/inventory/models"
	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/requestcontext"
)

type Store interface {
	Get(ctx context.Context, org domain.OrganizationID, bt domain.BloodType) (*models.InventoryRow, error)
	Upsert(ctx context.Context, row *models.InventoryRow) error
	ListByOrganization(ctx context.Context, org domain.OrganizationID) ([]*models.InventoryRow, error)
}

// Service manages organization stock levels and low-stock alerts.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View is an organization's inventory with its current alerts.
type View struct {
	Rows     []*models.InventoryRow `json:"rows"`
	LowStock []*models.InventoryRow `json:"low_stock"`
}

func (s *Service) List(ctx context.Context, org domain.OrganizationID) (*View, error) {
	rows, err := s.rows(ctx, org)
	if err != nil {
		return nil, err
	}
	return &View{Rows: rows, LowStock: s.lowStock(rows)}, nil
}

// Alerts returns only the rows below threshold.
func (s *Service) Alerts(ctx context.Context, org domain.OrganizationID) ([]*models.InventoryRow, error) {
	rows, err := s.rows(ctx, org)
	if err != nil {
		return nil, err
	}
	return s.lowStock(rows), nil
}

// SetUnits replaces the stock count for one blood type.
func (s *Service) SetUnits(ctx context.Context, org domain.OrganizationID, bloodType string, units int) (*models.InventoryRow, error) {
	return s.execute(ctx, org, bloodType, func(row *models.InventoryRow) error {
		return row.SetUnits(units, requestcontext.Now(ctx))
	})
}

// Adjust applies delta, clamping the result at zero.
func (s *Service) Adjust(ctx context.Context, org domain.OrganizationID, bloodType string, delta int) (*models.InventoryRow, error) {
	return s.execute(ctx, org, bloodType, func(row *models.InventoryRow) error {
		return row.Adjust(delta, requestcontext.Now(ctx))
	})
}

func (s *Service) SetThreshold(ctx context.Context, org domain.OrganizationID, bloodType string, threshold int) (*models.InventoryRow, error) {
	return s.execute(ctx, org, bloodType, func(row *models.InventoryRow) error {
		return row.SetThreshold(threshold, requestcontext.Now(ctx))
	})
}

// execute loads the row (or starts an empty one), mutates it and writes the
// absolute result.
func (s *Service) execute(ctx context.Context, org domain.OrganizationID, bloodType string, mutate func(*models.InventoryRow) error) (*models.InventoryRow, error) {
	bt, err := domain.ParseBloodType(bloodType)
	if err != nil {
		return nil, err
	}
	row, err := s.store.Get(ctx, org, bt)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		row = models.NewInventoryRow(org, bt, requestcontext.Now(ctx))
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load inventory")
	}
	if err := mutate(row); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, row); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save inventory")
	}
	s.logger.InfoContext(ctx, "inventory updated",
		"request_id", requestcontext.RequestID(ctx),
		"organization_id", org,
		"blood_type", bt,
		"units", row.Units,
		"low", row.IsLow(),
	)
	return row, nil
}

func (s *Service) rows(ctx context.Context, org domain.OrganizationID) ([]*models.InventoryRow, error) {
	rows, err := s.store.ListByOrganization(ctx, org)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list inventory")
	}
	if rows == nil {
		rows = []*models.InventoryRow{}
	}
	return rows, nil
}

func (s *Service) lowStock(rows []*models.InventoryRow) []*models.InventoryRow {
	low := models.LowStock(rows)
	if low == nil {
		low = []*models.InventoryRow{}
	}
	s.metrics.AddLowStockRows(len(low))
	return low
}
