package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/satheeshds/fintrack/models"
)

const txnSelectQuery = `SELECT t.id, t.owner, t.account_id, t.description, t.amount, t.type,
	t.is_confirmed, t.original_account_name, t.category_id, t.payment_type_id,
	t.due_date, t.created_at, t.updated_at, t.confirmed_at,
	a.name,
	c.name,
	p.name
	FROM transactions t
	LEFT JOIN accounts a ON t.account_id = a.id
	LEFT JOIN categories c ON t.category_id = c.id
	LEFT JOIN payment_types p ON t.payment_type_id = p.id`

func scanTransaction(scanner interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	err := scanner.Scan(&t.ID, &t.Owner, &t.AccountID, &t.Description, &t.Amount, &t.Type,
		&t.IsConfirmed, &t.OriginalAccountName, &t.CategoryID, &t.PaymentTypeID,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt, &t.ConfirmedAt,
		&t.AccountName, &t.CategoryName, &t.PaymentTypeName)
	return t, err
}

// TransactionFilter narrows ListTransactions. Zero fields do not filter.
type TransactionFilter struct {
	AccountID     *int
	Type          models.TransactionType
	Confirmed     *bool
	CategoryID    *int
	PaymentTypeID *int
	From          models.Date
	To            models.Date
}

func (s *Store) getTransaction(ctx context.Context, q querier, owner models.Owner, id int) (models.Transaction, error) {
	t, err := scanTransaction(q.QueryRowContext(ctx, s.q(txnSelectQuery+" WHERE t.id = ? AND t.owner = ?"), id, owner))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, notFound("transaction", id)
	}
	if err != nil {
		return models.Transaction{}, storageErr("get transaction", err)
	}
	return t, nil
}

// ListTransactions returns the owner's transactions, latest due date first.
func (s *Store) ListTransactions(ctx context.Context, owner models.Owner, f TransactionFilter) ([]models.Transaction, error) {
	conditions := []string{"t.owner = ?"}
	args := []any{owner}

	if f.AccountID != nil {
		conditions = append(conditions, "t.account_id = ?")
		args = append(args, *f.AccountID)
	}
	if f.Type != "" {
		conditions = append(conditions, "t.type = ?")
		args = append(args, f.Type)
	}
	if f.Confirmed != nil {
		conditions = append(conditions, "t.is_confirmed = ?")
		args = append(args, *f.Confirmed)
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "t.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.PaymentTypeID != nil {
		conditions = append(conditions, "t.payment_type_id = ?")
		args = append(args, *f.PaymentTypeID)
	}
	if !f.From.IsZero() {
		conditions = append(conditions, "t.due_date >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		conditions = append(conditions, "t.due_date <= ?")
		args = append(args, f.To)
	}

	query := txnSelectQuery + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY t.due_date DESC, t.id DESC"
	rows, err := s.conn.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storageErr("scan transaction", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list transactions", err)
	}
	return txns, nil
}

func (s *Store) GetTransaction(ctx context.Context, owner models.Owner, id int) (models.Transaction, error) {
	return s.getTransaction(ctx, s.conn, owner, id)
}

// checkRefs verifies that the account, category and payment type referenced by
// in all belong to owner.
func (s *Store) checkRefs(ctx context.Context, q querier, owner models.Owner, in models.TransactionInput) error {
	if _, err := s.getAccount(ctx, q, owner, in.AccountID); err != nil {
		return err
	}
	if in.CategoryID != nil {
		if err := s.checkNamed(ctx, q, categoriesTable, owner, *in.CategoryID); err != nil {
			return err
		}
	}
	if in.PaymentTypeID != nil {
		if err := s.checkNamed(ctx, q, paymentTypesTable, owner, *in.PaymentTypeID); err != nil {
			return err
		}
	}
	return nil
}

// CreateTransaction records a new, unconfirmed transaction.
func (s *Store) CreateTransaction(ctx context.Context, owner models.Owner, in models.TransactionInput) (models.Transaction, error) {
	if err := s.checkRefs(ctx, s.conn, owner, in); err != nil {
		return models.Transaction{}, err
	}

	var id int
	err := s.conn.QueryRowContext(ctx, s.q(`INSERT INTO transactions
		(owner, account_id, description, amount, type, is_confirmed, category_id, payment_type_id, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		owner, in.AccountID, in.Description, in.Amount, in.Type, false, in.CategoryID, in.PaymentTypeID, in.DueDate).Scan(&id)
	if err != nil {
		return models.Transaction{}, storageErr("insert transaction", err)
	}
	return s.getTransaction(ctx, s.conn, owner, id)
}

// UpdateTransaction edits everything except the confirmation state.
func (s *Store) UpdateTransaction(ctx context.Context, owner models.Owner, id int, in models.TransactionInput) (models.Transaction, error) {
	if _, err := s.getTransaction(ctx, s.conn, owner, id); err != nil {
		return models.Transaction{}, err
	}
	if err := s.checkRefs(ctx, s.conn, owner, in); err != nil {
		return models.Transaction{}, err
	}

	res, err := s.conn.ExecContext(ctx, s.q(`UPDATE transactions SET account_id = ?, description = ?, amount = ?, type = ?,
		category_id = ?, payment_type_id = ?, due_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner = ?`),
		in.AccountID, in.Description, in.Amount, in.Type, in.CategoryID, in.PaymentTypeID, in.DueDate, id, owner)
	if err != nil {
		return models.Transaction{}, storageErr("update transaction", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Transaction{}, notFound("transaction", id)
	}
	return s.getTransaction(ctx, s.conn, owner, id)
}

// ConfirmTransaction marks the transaction as confirmed and stamps
// confirmed_at. Confirmation is one-way; confirming twice is rejected.
func (s *Store) ConfirmTransaction(ctx context.Context, owner models.Owner, id int) (models.Transaction, error) {
	res, err := s.conn.ExecContext(ctx, s.q(`UPDATE transactions
		SET is_confirmed = ?, confirmed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner = ? AND is_confirmed = ?`),
		true, id, owner, false)
	if err != nil {
		return models.Transaction{}, storageErr("confirm transaction", err)
	}

	t, err := s.getTransaction(ctx, s.conn, owner, id)
	if err != nil {
		return models.Transaction{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Transaction{}, ErrAlreadyConfirmed
	}
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, owner models.Owner, id int) error {
	res, err := s.conn.ExecContext(ctx, s.q("DELETE FROM transactions WHERE id = ? AND owner = ?"), id, owner)
	if err != nil {
		return storageErr("delete transaction", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("transaction", id)
	}
	return nil
}
