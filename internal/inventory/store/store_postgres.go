package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bloodlink/internal/inventory/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
)

// PostgresStore persists inventory rows in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const inventoryColumns = `organization_id, blood_type, units, min_threshold, updated_at`

func (s *PostgresStore) Get(ctx context.Context, org domain.OrganizationID, bt domain.BloodType) (*models.InventoryRow, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE organization_id = $1 AND blood_type = $2`
	row, err := scanRow(tx.Querier(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(org), string(bt)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find inventory row: %w", err)
	}
	return row, nil
}

// Upsert writes the row, creating it on first write. Last write wins.
func (s *PostgresStore) Upsert(ctx context.Context, row *models.InventoryRow) error {
	query := `
		INSERT INTO inventory (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, blood_type) DO UPDATE
		SET units = EXCLUDED.units, min_threshold = EXCLUDED.min_threshold, updated_at = EXCLUDED.updated_at
	`
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(row.OrganizationID), string(row.BloodType), row.Units, row.MinThreshold, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert inventory row: %w", err)
	}
	return nil
}

// ListByOrganization returns the organization's rows ordered by blood type.
func (s *PostgresStore) ListByOrganization(ctx context.Context, org domain.OrganizationID) ([]*models.InventoryRow, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE organization_id = $1 ORDER BY blood_type`
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx, query, uuid.UUID(org))
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []*models.InventoryRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(rs rowScanner) (*models.InventoryRow, error) {
	var (
		org uuid.UUID
		bt  string
		row models.InventoryRow
	)
	if err := rs.Scan(&org, &bt, &row.Units, &row.MinThreshold, &row.UpdatedAt); err != nil {
		return nil, err
	}
	row.OrganizationID = domain.OrganizationID(org)
	row.BloodType = domain.BloodType(bt)
	return &row, nil
}
