package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bloodlink/internal/emergency/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
)

// PostgresStore persists emergency requests in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const emergencyColumns = `id, organization_id, blood_type, units_required, urgency, description, status, created_at, closed_at`

func (s *PostgresStore) Create(ctx context.Context, req *models.EmergencyRequest) error {
	query := `
		INSERT INTO emergencies (` + emergencyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(req.ID),
		uuid.UUID(req.OrganizationID),
		string(req.BloodType),
		req.UnitsRequired,
		string(req.Urgency),
		req.Description,
		string(req.Status),
		req.CreatedAt,
		nullTime(req.ClosedAt),
	)
	if err != nil {
		return fmt.Errorf("create emergency: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.EmergencyID) (*models.EmergencyRequest, error) {
	query := `SELECT ` + emergencyColumns + ` FROM emergencies WHERE id = $1`
	req, err := scanEmergency(tx.Querier(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find emergency by id: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) Update(ctx context.Context, req *models.EmergencyRequest) error {
	query := `
		UPDATE emergencies
		SET units_required = $2, urgency = $3, description = $4, status = $5, closed_at = $6
		WHERE id = $1
	`
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(req.ID),
		req.UnitsRequired,
		string(req.Urgency),
		req.Description,
		string(req.Status),
		nullTime(req.ClosedAt),
	)
	if err != nil {
		return fmt.Errorf("update emergency: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update emergency: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListByOrganization returns the organization's requests, newest first.
func (s *PostgresStore) ListByOrganization(ctx context.Context, org domain.OrganizationID) ([]*models.EmergencyRequest, error) {
	query := `SELECT ` + emergencyColumns + ` FROM emergencies WHERE organization_id = $1 ORDER BY created_at DESC, id`
	return s.list(ctx, query, uuid.UUID(org))
}

// ListActive returns every active request, newest first.
func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.EmergencyRequest, error) {
	query := `SELECT ` + emergencyColumns + ` FROM emergencies WHERE status = $1 ORDER BY created_at DESC, id`
	return s.list(ctx, query, string(models.StatusActive))
}

func (s *PostgresStore) CountActive(ctx context.Context) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM emergencies WHERE status = $1`
	if err := tx.Querier(ctx, s.db).QueryRowContext(ctx, query, string(models.StatusActive)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active emergencies: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*models.EmergencyRequest, error) {
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list emergencies: %w", err)
	}
	defer rows.Close()

	var out []*models.EmergencyRequest
	for rows.Next() {
		req, err := scanEmergency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan emergency: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emergencies: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmergency(row rowScanner) (*models.EmergencyRequest, error) {
	var (
		id, org                    uuid.UUID
		bloodType, urgency, status string
		closedAt                   sql.NullTime
		req                        models.EmergencyRequest
	)
	if err := row.Scan(&id, &org, &bloodType, &req.UnitsRequired, &urgency, &req.Description, &status, &req.CreatedAt, &closedAt); err != nil {
		return nil, err
	}
	req.ID = domain.EmergencyID(id)
	req.OrganizationID = domain.OrganizationID(org)
	req.BloodType = domain.BloodType(bloodType)
	req.Urgency = models.Urgency(urgency)
	req.Status = models.Status(status)
	if closedAt.Valid {
		t := closedAt.Time
		req.ClosedAt = &t
	}
	return &req, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
