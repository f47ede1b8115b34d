// Package ledger is the persistence layer for owners, accounts and
// transactions.
//
// Every read and write is scoped by owner: rows belonging to another owner
// behave exactly like missing rows. Account deletion reassigns the account's
// transactions inside a single database transaction; every other operation
// is a single statement unless noted.
package ledger

import (
	"context"
	"database/sql"

	"github.com/satheeshds/fintrack/db"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	conn    *sql.DB
	dialect db.Dialect
}

func NewStore(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{conn: conn, dialect: dialect}
}

// q rebinds placeholders for the store's dialect.
func (s *Store) q(query string) string {
	return db.Rebind(s.dialect, query)
}

// inTx runs fn inside a database transaction, committing when fn returns nil
// and rolling back otherwise.
func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(op+": begin", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr(op+": commit", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}
