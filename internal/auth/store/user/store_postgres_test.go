package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodlink/internal/auth/models"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

func TestPostgresCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err = store.Create(context.Background(), &models.User{
		ID:        domain.UserID(uuid.New()),
		Email:     "taken@example.com",
		Role:      domain.RoleDonor,
		CreatedAt: time.Now(),
	})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	id := uuid.New()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("donor@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "password_hash", "role", "provider", "created_at", "last_login_at"}).
			AddRow(id.String(), "donor@example.com", "donor1", "$2a$hash", "donor", "password", created, nil))

	u, err := store.FindByEmail(context.Background(), " Donor@Example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(id), u.ID)
	assert.Equal(t, domain.RoleDonor, u.Role)
	assert.Nil(t, u.LastLoginAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewPostgres(db).FindByID(context.Background(), domain.UserID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
