package histories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/imunetrack/internal/common"
	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/server/models"
)

const selectEntry = `SELECT h.id, h.user_id, h.vaccine_id, v.name, v.required_doses, h.dose_number, h.status,
       h.applied_on, h.scheduled_on, h.batch_lot, h.site, h.administered_by, h.notes,
       h.created_at, h.updated_at
  FROM dose_history h
  JOIN vaccines v ON v.id = h.vaccine_id`

const orderEntries = ` ORDER BY h.applied_on DESC NULLS LAST, h.created_at DESC, h.id DESC`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.HistoryEntry, error) {
	e := &models.HistoryEntry{}
	err := row.Scan(&e.ID, &e.UserID, &e.VaccineID, &e.VaccineName, &e.VaccineRequiredDoses,
		&e.DoseNumber, &e.Status, &e.AppliedOn, &e.ScheduledOn, &e.BatchLot, &e.Site,
		&e.AdministeredBy, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts e and returns the stored entry with the vaccine joined in.
func (r *PostgresRepository) Create(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error) {
	query :=
		`INSERT INTO dose_history (user_id, vaccine_id, dose_number, status, applied_on, scheduled_on,
		                           batch_lot, site, administered_by, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, e.UserID, e.VaccineID, e.DoseNumber, e.Status,
		e.AppliedOn, e.ScheduledOn, e.BatchLot, e.Site, e.AdministeredBy, e.Notes).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return r.GetForUser(ctx, id, e.UserID)
}

func (r *PostgresRepository) GetForUser(ctx context.Context, id, userID int64) (*models.HistoryEntry, error) {
	e, err := scanEntry(r.db.QueryRowContext(ctx, selectEntry+` WHERE h.id = $1 AND h.user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// buildListQuery renders the conjunctive filter as positional arguments.
func buildListQuery(userID int64, f models.HistoryFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(selectEntry)
	sb.WriteString(` WHERE h.user_id = $1`)
	args := []any{userID}

	add := func(cond string, v any) {
		args = append(args, v)
		fmt.Fprintf(&sb, " AND "+cond, len(args))
	}
	if f.Year != nil {
		add("EXTRACT(YEAR FROM h.applied_on) = $%d", *f.Year)
	}
	if f.Month != nil {
		add("EXTRACT(MONTH FROM h.applied_on) = $%d", *f.Month)
	}
	if f.VaccineID != nil {
		add("h.vaccine_id = $%d", *f.VaccineID)
	}
	if f.Status != nil {
		add("h.status = $%d", string(*f.Status))
	}

	sb.WriteString(orderEntries)
	return sb.String(), args
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64, f models.HistoryFilter) ([]models.HistoryEntry, error) {
	query, args := buildListQuery(userID, f)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.HistoryEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update writes every mutable column of e and returns the refreshed entry.
func (r *PostgresRepository) Update(ctx context.Context, e *models.HistoryEntry) (*models.HistoryEntry, error) {
	query :=
		`UPDATE dose_history
		    SET vaccine_id = $1, dose_number = $2, status = $3, applied_on = $4, scheduled_on = $5,
		        batch_lot = $6, site = $7, administered_by = $8, notes = $9, updated_at = NOW()
		  WHERE id = $10 AND user_id = $11`

	res, err := r.db.ExecContext(ctx, query, e.VaccineID, e.DoseNumber, e.Status, e.AppliedOn,
		e.ScheduledOn, e.BatchLot, e.Site, e.AdministeredBy, e.Notes, e.ID, e.UserID)
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

	return r.GetForUser(ctx, e.ID, e.UserID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dose_history WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
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
