package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bloodlink/internal/donor/models"
	"bloodlink/internal/platform/postgres"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
)

// PostgresStore persists donor profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed donor store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const donorColumns = `id, email, phone, full_name, gender, date_of_birth, blood_type, city, district, state, country, profile_picture, available, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, donor *models.Donor) error {
	query := `
		INSERT INTO donors (` + donorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(donor.ID),
		donor.Email,
		donor.Phone,
		donor.FullName,
		donor.Gender,
		nullDate(donor.DateOfBirth),
		string(donor.BloodType),
		donor.City,
		donor.District,
		donor.State,
		donor.Country,
		donor.ProfilePicture,
		donor.Available,
		donor.CreatedAt,
		donor.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create donor: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DonorID) (*models.Donor, error) {
	query := `SELECT ` + donorColumns + ` FROM donors WHERE id = $1`
	donor, err := scanDonor(tx.Querier(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find donor by id: %w", err)
	}
	return donor, nil
}

func (s *PostgresStore) Update(ctx context.Context, donor *models.Donor) error {
	query := `
		UPDATE donors
		SET phone = $2, full_name = $3, gender = $4, date_of_birth = $5, blood_type = $6,
			city = $7, district = $8, state = $9, country = $10, profile_picture = $11,
			available = $12, updated_at = $13
		WHERE id = $1
	`
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(donor.ID),
		donor.Phone,
		donor.FullName,
		donor.Gender,
		nullDate(donor.DateOfBirth),
		string(donor.BloodType),
		donor.City,
		donor.District,
		donor.State,
		donor.Country,
		donor.ProfilePicture,
		donor.Available,
		donor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update donor: %w", err)
	}
	return requireAffected(res, "update donor")
}

// SetAvailability rewrites only the stored availability flag.
func (s *PostgresStore) SetAvailability(ctx context.Context, id domain.DonorID, available bool, at time.Time) error {
	query := `UPDATE donors SET available = $2, updated_at = $3 WHERE id = $1`
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, query, uuid.UUID(id), available, at)
	if err != nil {
		return fmt.Errorf("set donor availability: %w", err)
	}
	return requireAffected(res, "set donor availability")
}

// Search returns donors matching filter ordered by name, then ID.
func (s *PostgresStore) Search(ctx context.Context, filter models.SearchFilter) ([]*models.Donor, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if len(filter.BloodTypes) > 0 {
		types := make([]string, len(filter.BloodTypes))
		for i, bt := range filter.BloodTypes {
			types[i] = string(bt)
		}
		where = append(where, "blood_type = ANY("+arg(pq.Array(types))+"::text[])")
	}
	if filter.City != "" {
		where = append(where, "lower(city) = lower("+arg(filter.City)+")")
	}
	if filter.State != "" {
		where = append(where, "lower(state) = lower("+arg(filter.State)+")")
	}
	if filter.AvailableOnly {
		where = append(where, "available")
	}

	query := `SELECT ` + donorColumns + ` FROM donors`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY lower(full_name), id`
	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search donors: %w", err)
	}
	defer rows.Close()

	var out []*models.Donor
	for rows.Next() {
		donor, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donor: %w", err)
		}
		out = append(out, donor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donors: %w", err)
	}
	return out, nil
}

// List returns all donors ordered by name, then ID.
func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]*models.Donor, error) {
	return s.Search(ctx, models.SearchFilter{Limit: limit, Offset: offset})
}

// ListIDs returns every donor ID. Used by the availability recompute job.
func (s *PostgresStore) ListIDs(ctx context.Context) ([]domain.DonorID, error) {
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx, `SELECT id FROM donors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list donor ids: %w", err)
	}
	defer rows.Close()

	var ids []domain.DonorID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan donor id: %w", err)
		}
		ids = append(ids, domain.DonorID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donor ids: %w", err)
	}
	return ids, nil
}

// Delete removes the donor. Donations cascade.
func (s *PostgresStore) Delete(ctx context.Context, id domain.DonorID) error {
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM donors WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("delete donor: %w", err)
	}
	return requireAffected(res, "delete donor")
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM donors`)
}

func (s *PostgresStore) CountAvailable(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM donors WHERE available`)
}

func (s *PostgresStore) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := tx.Querier(ctx, s.db).QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count donors: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonor(row rowScanner) (*models.Donor, error) {
	var (
		id        uuid.UUID
		dob       sql.NullTime
		bloodType string
		donor     models.Donor
	)
	if err := row.Scan(
		&id,
		&donor.Email,
		&donor.Phone,
		&donor.FullName,
		&donor.Gender,
		&dob,
		&bloodType,
		&donor.City,
		&donor.District,
		&donor.State,
		&donor.Country,
		&donor.ProfilePicture,
		&donor.Available,
		&donor.CreatedAt,
		&donor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	donor.ID = domain.DonorID(id)
	donor.BloodType = domain.BloodType(bloodType)
	if dob.Valid {
		d := domain.DateOf(dob.Time)
		donor.DateOfBirth = &d
	}
	return &donor, nil
}

func nullDate(d *domain.Date) sql.NullTime {
	if d == nil || d.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time(), Valid: true}
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
