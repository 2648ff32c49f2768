// Package dbx provides small database/sql helpers shared by repositories and
// services: the DBTX handle implemented by *sql.DB and *sql.Tx, transaction
// helpers, connect-with-retry and driver error classification.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the unit of work run by WithTx.
type TxFunc func(ctx context.Context, tx DBTX) error

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// Conn is what services hold instead of a concrete *sql.DB: a handle for
// single statements and a way to run a unit of work atomically.
type Conn interface {
	DB() DBTX
	WithTx(ctx context.Context, fn TxFunc) error
	PingContext(ctx context.Context) error
	Close() error
}

// SQLConn is a Conn backed by a database/sql pool.
type SQLConn struct {
	db *sql.DB
}

func NewSQLConn(db *sql.DB) *SQLConn {
	return &SQLConn{db: db}
}

func (c *SQLConn) DB() DBTX { return c.db }

// SQL exposes the pool for schema bootstrap.
func (c *SQLConn) SQL() *sql.DB { return c.db }

func (c *SQLConn) WithTx(ctx context.Context, fn TxFunc) error {
	return WithTx(ctx, c.db, nil, fn)
}

func (c *SQLConn) PingContext(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *SQLConn) Close() error { return c.db.Close() }

// NopConn is the Conn of storage backends that do not speak SQL. Repositories
// vended for it ignore the DBTX they receive, so fn gets a nil handle.
type NopConn struct{}

func (NopConn) DB() DBTX { return nil }

func (NopConn) WithTx(ctx context.Context, fn TxFunc) error { return fn(ctx, nil) }

func (NopConn) PingContext(context.Context) error { return nil }

func (NopConn) Close() error { return nil }
