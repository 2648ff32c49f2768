package vaccines

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

const selectVaccine = `SELECT id, name, required_doses FROM vaccines`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Vaccine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Vaccine, 0)
	for rows.Next() {
		var v models.Vaccine
		if err := rows.Scan(&v.ID, &v.Name, &v.RequiredDoses); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Vaccine, error) {
	return r.list(ctx, selectVaccine+` ORDER BY id`)
}

func (r *PostgresRepository) ListByDoses(ctx context.Context, doses int) ([]models.Vaccine, error) {
	return r.list(ctx, selectVaccine+` WHERE required_doses = $1 ORDER BY id`, doses)
}

func (r *PostgresRepository) get(ctx context.Context, where string, arg any) (*models.Vaccine, error) {
	v := &models.Vaccine{}
	err := r.db.QueryRowContext(ctx, selectVaccine+` WHERE `+where+` = $1`, arg).
		Scan(&v.ID, &v.Name, &v.RequiredDoses)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Vaccine, error) {
	return r.get(ctx, "id", id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Vaccine, error) {
	return r.get(ctx, "name", name)
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.Vaccine) (*models.Vaccine, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO vaccines (name, required_doses) VALUES ($1, $2) RETURNING id`,
		v.Name, v.RequiredDoses).Scan(&v.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return v, nil
}

func (r *PostgresRepository) Update(ctx context.Context, v *models.Vaccine) (*models.Vaccine, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vaccines SET name = $1, required_doses = $2 WHERE id = $3`,
		v.Name, v.RequiredDoses, v.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}
	return v, nil
}

// Delete fails with an error matching common.ErrorConflict while history
// entries still reference the vaccine.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vaccines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) InUse(ctx context.Context, id int64) (bool, error) {
	var used bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM dose_history WHERE vaccine_id = $1)`, id).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return used, nil
}
