// Package dbx holds the small database plumbing the repositories share:
// a handle interface satisfied by both *sql.DB and *sql.Tx, and a
// transaction wrapper. Repositories take the interface, so a service can
// run several of them against one transaction (register's user+profile
// insert is the main user).
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql the repositories touch. *sql.DB and
// *sql.Tx both satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit when fn returns nil,
// rollback when it errors or panics. A panic is rolled back and then
// rethrown unchanged.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
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

	err = fn(ctx, tx)
	return err
}
