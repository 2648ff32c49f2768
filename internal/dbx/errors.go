package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/imunetrack/internal/common"
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	pgStringTooLong    = "22001"
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
)

// ConstraintError is a storage constraint violation. It matches
// common.ErrorConflict through errors.Is.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return "constraint violation: " + e.Constraint
}

func (e *ConstraintError) Is(target error) bool { return target == common.ErrorConflict }

func (e *ConstraintError) Unwrap() error { return e.Err }

// DataError is a value rejected by the column definition (length, CHECK,
// NOT NULL). It matches common.ErrorValidation through errors.Is.
type DataError struct {
	Code string
	Err  error
}

func (e *DataError) Error() string {
	return "invalid data: SQLSTATE " + e.Code
}

func (e *DataError) Is(target error) bool { return target == common.ErrorValidation }

func (e *DataError) Unwrap() error { return e.Err }

// Classify turns unique and foreign key violations into *ConstraintError,
// column data violations into *DataError and returns every other error
// unchanged.
func Classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
		case pgStringTooLong, pgCheckViolation, pgNotNullViolation:
			return &DataError{Code: pgErr.Code, Err: err}
		}
	}
	return err
}
