package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/satheeshds/fintrack/db"
	"github.com/satheeshds/fintrack/models"
)

const accountSelectQuery = `SELECT id, owner, name, created_at, updated_at FROM accounts`

func scanAccount(scanner interface{ Scan(...any) error }) (models.Account, error) {
	var a models.Account
	err := scanner.Scan(&a.ID, &a.Owner, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *Store) getAccount(ctx context.Context, q querier, owner models.Owner, id int) (models.Account, error) {
	a, err := scanAccount(q.QueryRowContext(ctx, s.q(accountSelectQuery+" WHERE id = ? AND owner = ?"), id, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, notFound("account", id)
	}
	if err != nil {
		return models.Account{}, storageErr("get account", err)
	}
	return a, nil
}

func (s *Store) insertAccount(ctx context.Context, q querier, owner models.Owner, name string) (int, error) {
	var id int
	err := q.QueryRowContext(ctx, s.q("INSERT INTO accounts (owner, name) VALUES (?, ?) RETURNING id"), owner, name).Scan(&id)
	if err != nil {
		return 0, storageErr("insert account", err)
	}
	return id, nil
}

// ListAccounts returns the owner's accounts ordered by name.
func (s *Store) ListAccounts(ctx context.Context, owner models.Owner) ([]models.Account, error) {
	rows, err := s.conn.QueryContext(ctx, s.q(accountSelectQuery+" WHERE owner = ? ORDER BY name, id"), owner)
	if err != nil {
		return nil, storageErr("list accounts", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, storageErr("scan account", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list accounts", err)
	}
	return accounts, nil
}

func (s *Store) GetAccount(ctx context.Context, owner models.Owner, id int) (models.Account, error) {
	return s.getAccount(ctx, s.conn, owner, id)
}

func (s *Store) CreateAccount(ctx context.Context, owner models.Owner, in models.AccountInput) (models.Account, error) {
	id, err := s.insertAccount(ctx, s.conn, owner, strings.TrimSpace(in.Name))
	if err != nil {
		return models.Account{}, err
	}
	return s.getAccount(ctx, s.conn, owner, id)
}

func (s *Store) RenameAccount(ctx context.Context, owner models.Owner, id int, in models.AccountInput) (models.Account, error) {
	res, err := s.conn.ExecContext(ctx,
		s.q("UPDATE accounts SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner = ?"),
		strings.TrimSpace(in.Name), id, owner)
	if err != nil {
		return models.Account{}, storageErr("rename account", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Account{}, notFound("account", id)
	}
	return s.getAccount(ctx, s.conn, owner, id)
}

// countAccounts counts the owner's accounts. On PostgreSQL the rows are
// locked until the surrounding transaction ends so two concurrent deletions
// cannot both pass the last-account check.
func (s *Store) countAccounts(ctx context.Context, q querier, owner models.Owner) (int, error) {
	query := "SELECT id FROM accounts WHERE owner = ?"
	if s.dialect == db.Postgres {
		query += " FOR UPDATE"
	}
	rows, err := q.QueryContext(ctx, s.q(query), owner)
	if err != nil {
		return 0, storageErr("count accounts", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, storageErr("count accounts", err)
	}
	return n, nil
}

// DeleteAccount removes an account after moving all of its transactions to
// replacementID. Each moved transaction records originalName as the account
// it came from; a transaction that already carries an original account name
// from an earlier deletion keeps it. A blank originalName defaults to the
// deleted account's stored name.
//
// Checks, in order: self-transfer, last account, account ownership, then
// replacement ownership. The reassignment and the delete commit together or
// not at all. It returns the number of transactions moved.
func (s *Store) DeleteAccount(ctx context.Context, accountID, replacementID int, originalName string, owner models.Owner) (int64, error) {
	if accountID == replacementID {
		return 0, ErrSelfTransfer
	}

	var moved int64
	err := s.inTx(ctx, "delete account", func(tx *sql.Tx) error {
		n, err := s.countAccounts(ctx, tx, owner)
		if err != nil {
			return err
		}
		if n <= 1 {
			return ErrLastAccount
		}

		source, err := s.getAccount(ctx, tx, owner, accountID)
		if err != nil {
			return err
		}
		if _, err := s.getAccount(ctx, tx, owner, replacementID); err != nil {
			return err
		}

		name := strings.TrimSpace(originalName)
		if name == "" {
			name = source.Name
		}

		res, err := tx.ExecContext(ctx, s.q(`UPDATE transactions
			SET account_id = ?, original_account_name = COALESCE(original_account_name, ?), updated_at = CURRENT_TIMESTAMP
			WHERE account_id = ? AND owner = ?`),
			replacementID, name, accountID, owner)
		if err != nil {
			return storageErr("reassign transactions", err)
		}
		moved, _ = res.RowsAffected()

		res, err = tx.ExecContext(ctx, s.q("DELETE FROM accounts WHERE id = ? AND owner = ?"), accountID, owner)
		if err != nil {
			return storageErr("delete account", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return notFound("account", accountID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("owner", string(owner)).
		Int("account_id", accountID).
		Int("replacement_id", replacementID).
		Int64("moved", moved).
		Msg("account deleted")
	return moved, nil
}
