package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodlink/internal/donor/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

var donorCols = []string{"id", "email", "phone", "full_name", "gender", "date_of_birth", "blood_type",
	"city", "district", "state", "country", "profile_picture", "available", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresCreateDuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO donors`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := store.Create(context.Background(), &models.Donor{ID: domain.DonorID(uuid.New()), Email: "ana@example.com"})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByID(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM donors WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(donorCols).AddRow(
			id.String(), "ana@example.com", "9876543210", "Ana Rao", "female",
			time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC), "O+", "Pune", "Pune", "MH", "IN", "",
			true, created, created))

	donor, err := store.FindByID(context.Background(), domain.DonorID(id))
	require.NoError(t, err)
	assert.Equal(t, domain.BloodTypeOPos, donor.BloodType)
	require.NotNil(t, donor.DateOfBirth)
	assert.Equal(t, "1990-04-01", donor.DateOfBirth.String())
	assert.True(t, models.IsProfileComplete(donor))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSearchBuildsFilter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM donors WHERE blood_type = ANY\(\$1::text\[\]\) AND lower\(city\) = lower\(\$2\) AND available ORDER BY lower\(full_name\), id LIMIT \$3`).
		WithArgs(sqlmock.AnyArg(), "Pune", 20).
		WillReturnRows(sqlmock.NewRows(donorCols))

	got, err := store.Search(context.Background(), models.SearchFilter{
		BloodTypes:    []domain.BloodType{domain.BloodTypeOPos, domain.BloodTypeONeg},
		City:          "Pune",
		AvailableOnly: true,
		Limit:         20,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetAvailabilityMissingDonor(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	at := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE donors SET available = \$2, updated_at = \$3 WHERE id = \$1`).
		WithArgs(id.String(), false, at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.SetAvailability(context.Background(), domain.DonorID(id), false, at)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCountAvailable(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM donors WHERE available`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := store.CountAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
