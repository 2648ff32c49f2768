package vaccines

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

var vaccineColumns = []string{"id", "name", "required_doses"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`^SELECT id, name, required_doses FROM vaccines ORDER BY id$`).
		WillReturnRows(sqlmock.NewRows(vaccineColumns).AddRow(1, "BCG", 1).AddRow(2, "Hepatite B", 3))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Vaccine{{ID: 1, Name: "BCG", RequiredDoses: 1}, {ID: 2, Name: "Hepatite B", RequiredDoses: 3}}, got)
}

func TestListByDoses(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`WHERE required_doses = \$1 ORDER BY id$`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(vaccineColumns).AddRow(2, "Hepatite B", 3))

	got, err := repo.ListByDoses(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Hepatite B", got[0].Name)
}

func TestList_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM vaccines`).
		WillReturnRows(sqlmock.NewRows(vaccineColumns).AddRow(1, "BCG", 1).RowError(0, errors.New("broken")))

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "db error")
}

func TestGetByName(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM vaccines WHERE name = \$1$`).
		WithArgs("BCG").
		WillReturnRows(sqlmock.NewRows(vaccineColumns).AddRow(1, "BCG", 1))

	v, err := repo.GetByName(context.Background(), "BCG")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ID)

	mock.ExpectQuery(`FROM vaccines WHERE name = \$1$`).WithArgs("Nada").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByName(context.Background(), "Nada")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`^INSERT INTO vaccines \(name, required_doses\) VALUES \(\$1, \$2\) RETURNING id$`).
		WithArgs("BCG", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	v, err := repo.Create(context.Background(), &models.Vaccine{Name: "BCG", RequiredDoses: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(10), v.ID)
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT INTO vaccines`).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Vaccine{Name: "BCG", RequiredDoses: 1})
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`^UPDATE vaccines SET name = \$1, required_doses = \$2 WHERE id = \$3$`).
		WithArgs("BCG", 2, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Update(context.Background(), &models.Vaccine{ID: 1, Name: "BCG", RequiredDoses: 2})
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE vaccines`).WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = repo.Update(context.Background(), &models.Vaccine{ID: 99, Name: "X", RequiredDoses: 1})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM vaccines WHERE id = \$1$`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 1))

	mock.ExpectExec(`DELETE FROM vaccines`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 2), common.ErrorNotFound)

	mock.ExpectExec(`DELETE FROM vaccines`).WillReturnError(&pgconn.PgError{Code: "23503"})
	assert.ErrorIs(t, repo.Delete(context.Background(), 3), common.ErrorConflict)
}

func TestInUse(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`^SELECT EXISTS \(SELECT 1 FROM dose_history WHERE vaccine_id = \$1\)$`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	used, err := repo.InUse(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, used)
}
