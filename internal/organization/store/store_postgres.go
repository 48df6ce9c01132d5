package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"bloodlink/internal/organization/models"
	"bloodlink/internal/platform/postgres"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
)

// PostgresStore persists organizations in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (id, name, kind, email, phone, city, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(org.ID), org.Name, string(org.Kind), org.Email, org.Phone, org.City, org.State, org.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.OrganizationID) (*models.Organization, error) {
	query := `SELECT id, name, kind, email, phone, city, state, created_at FROM organizations WHERE id = $1`
	var (
		orgID uuid.UUID
		kind  string
		org   models.Organization
	)
	err := tx.Querier(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(id)).Scan(
		&orgID, &org.Name, &kind, &org.Email, &org.Phone, &org.City, &org.State, &org.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find organization by id: %w", err)
	}
	org.ID = domain.OrganizationID(orgID)
	org.Kind = models.Kind(kind)
	return &org, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.Querier(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}
	return n, nil
}
