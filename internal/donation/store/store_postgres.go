package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bloodlink/internal/donation/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
)

// PostgresStore persists donation records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed donation store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const donationColumns = `id, donor_id, donation_date, units, notes, vitals, verified_by, verified_at, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, record *models.DonationRecord) error {
	vitals, err := marshalVitals(record.Vitals)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(record.ID),
		uuid.UUID(record.DonorID),
		record.Date.Time(),
		record.Units,
		record.Notes,
		vitals,
		nullOrg(record.VerifiedBy),
		nullTime(record.VerifiedAt),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create donation: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DonationID) (*models.DonationRecord, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	record, err := scanDonation(tx.Querier(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find donation by id: %w", err)
	}
	return record, nil
}

// ListByDonor returns the donor's records, most recent date first.
func (s *PostgresStore) ListByDonor(ctx context.Context, donorID domain.DonorID) ([]*models.DonationRecord, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE donor_id = $1
		ORDER BY donation_date DESC, created_at DESC
	`
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx, query, uuid.UUID(donorID))
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var out []*models.DonationRecord
	for rows.Next() {
		record, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, record *models.DonationRecord) error {
	vitals, err := marshalVitals(record.Vitals)
	if err != nil {
		return err
	}
	query := `
		UPDATE donations
		SET donation_date = $2, units = $3, notes = $4, vitals = $5,
			verified_by = $6, verified_at = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(record.ID),
		record.Date.Time(),
		record.Units,
		record.Notes,
		vitals,
		nullOrg(record.VerifiedBy),
		nullTime(record.VerifiedAt),
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	return requireAffected(res, "update donation")
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.DonationID) error {
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM donations WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return fmt.Errorf("delete donation: %w", err)
	}
	return requireAffected(res, "delete donation")
}

func (s *PostgresStore) DeleteByDonor(ctx context.Context, donorID domain.DonorID) error {
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, `DELETE FROM donations WHERE donor_id = $1`, uuid.UUID(donorID))
	if err != nil {
		return fmt.Errorf("delete donations by donor: %w", err)
	}
	return nil
}

func (s *PostgresStore) TotalUnits(ctx context.Context) (float64, error) {
	var total float64
	err := tx.Querier(ctx, s.db).QueryRowContext(ctx, `SELECT COALESCE(SUM(units), 0) FROM donations`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum donation units: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDonation(row rowScanner) (*models.DonationRecord, error) {
	var (
		id, donorID uuid.UUID
		date        time.Time
		record      models.DonationRecord
		vitals      []byte
		verifiedBy  uuid.NullUUID
		verifiedAt  sql.NullTime
	)
	err := row.Scan(&id, &donorID, &date, &record.Units, &record.Notes, &vitals,
		&verifiedBy, &verifiedAt, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.ID = domain.DonationID(id)
	record.DonorID = domain.DonorID(donorID)
	record.Date = domain.DateOf(date)
	if len(vitals) > 0 {
		var v models.Vitals
		if err := json.Unmarshal(vitals, &v); err != nil {
			return nil, fmt.Errorf("unmarshal vitals: %w", err)
		}
		record.Vitals = &v
	}
	if verifiedBy.Valid {
		org := domain.OrganizationID(verifiedBy.UUID)
		record.VerifiedBy = &org
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		record.VerifiedAt = &t
	}
	return &record, nil
}

func marshalVitals(v *models.Vitals) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal vitals: %w", err)
	}
	return b, nil
}

func nullOrg(org *domain.OrganizationID) uuid.NullUUID {
	if org == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*org), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
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
