package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/imunetrack/internal/server/models"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/histories"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/users"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/vaccines"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func withGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestPostgresFactories(t *testing.T) {
	db := newDB(t)
	var m RepositoryManager = NewPostgresRepositoryManager()

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &vaccines.PostgresRepository{}, m.Vaccines(db))
	assert.IsType(t, &histories.PostgresRepository{}, m.Histories(db))
}

func TestRunMigrations_Success(t *testing.T) {
	db := newDB(t)
	withGoose(t, func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if got != db || dir != "." || len(opts) != 0 {
			return errors.New("unexpected call")
		}
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
}

func TestRunMigrations_Error(t *testing.T) {
	db := newDB(t)
	withGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	assert.EqualError(t, err, "apply schema: boom")
}

func TestInMemory_SharesStore(t *testing.T) {
	var m RepositoryManager = NewInMemoryRepositoryManager()
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx, nil))

	u, err := m.Users(nil).Create(ctx, &models.User{Name: "Alice", Email: "alice@x.com"})
	require.NoError(t, err)
	v, err := m.Vaccines(nil).Create(ctx, &models.Vaccine{Name: "BCG", RequiredDoses: 1})
	require.NoError(t, err)

	e, err := m.Histories(nil).Create(ctx, &models.HistoryEntry{UserID: u.ID, VaccineID: v.ID, DoseNumber: 1, Status: models.DoseStatusPending})
	require.NoError(t, err)
	assert.Equal(t, "BCG", e.VaccineName)

	got, err := m.Users(nil).GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)
}
