package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"bloodlink/internal/platform/postgres"
	"bloodlink/internal/seeker/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
)

// PostgresStore persists seeker submissions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO seeker_submissions (id, full_name, email, phone, blood_type, units, city, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(sub.ID),
		sub.FullName,
		sub.Email,
		sub.Phone,
		string(sub.BloodType),
		sub.Units,
		sub.City,
		sub.Note,
		sub.CreatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create seeker submission: %w", err)
	}
	return nil
}

// ListRecent returns up to limit submissions, newest first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*models.Submission, error) {
	query := `
		SELECT id, full_name, email, phone, blood_type, units, city, note, created_at
		FROM seeker_submissions
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list seeker submissions: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		var (
			id        uuid.UUID
			bloodType string
			sub       models.Submission
		)
		if err := rows.Scan(&id, &sub.FullName, &sub.Email, &sub.Phone, &bloodType, &sub.Units, &sub.City, &sub.Note, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan seeker submission: %w", err)
		}
		sub.ID = domain.SubmissionID(id)
		sub.BloodType = domain.BloodType(bloodType)
		out = append(out, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seeker submissions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.Querier(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM seeker_submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count seeker submissions: %w", err)
	}
	return n, nil
}
