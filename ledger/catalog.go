package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/satheeshds/fintrack/models"
)

// namedTable describes an owner-scoped lookup table with a unique name.
type namedTable struct {
	table    string
	resource string
}

var (
	categoriesTable   = namedTable{table: "categories", resource: "category"}
	paymentTypesTable = namedTable{table: "payment_types", resource: "payment type"}
)

func (s *Store) checkNamed(ctx context.Context, q querier, t namedTable, owner models.Owner, id int) error {
	var found int
	err := q.QueryRowContext(ctx, s.q("SELECT id FROM "+t.table+" WHERE id = ? AND owner = ?"), id, owner).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(t.resource, id)
	}
	if err != nil {
		return storageErr("get "+t.resource, err)
	}
	return nil
}

// findNamed returns the id of the row called name, or 0 when there is none.
// Names compare case-insensitively.
func (s *Store) findNamed(ctx context.Context, q querier, t namedTable, owner models.Owner, name string) (int, error) {
	var id int
	err := q.QueryRowContext(ctx,
		s.q("SELECT id FROM "+t.table+" WHERE owner = ? AND LOWER(name) = LOWER(?) ORDER BY id LIMIT 1"),
		owner, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, storageErr("find "+t.resource, err)
	}
	return id, nil
}

func (s *Store) insertNamed(ctx context.Context, q querier, t namedTable, owner models.Owner, name string) (int, error) {
	var id int
	err := q.QueryRowContext(ctx, s.q("INSERT INTO "+t.table+" (owner, name) VALUES (?, ?) RETURNING id"), owner, name).Scan(&id)
	if err != nil {
		return 0, storageErr("insert "+t.resource, err)
	}
	return id, nil
}

// findOrCreateNamed resolves name to an id, creating the row if needed.
func (s *Store) findOrCreateNamed(ctx context.Context, q querier, t namedTable, owner models.Owner, name string) (int, error) {
	id, err := s.findNamed(ctx, q, t, owner, name)
	if err != nil || id != 0 {
		return id, err
	}
	return s.insertNamed(ctx, q, t, owner, name)
}

func (s *Store) createNamed(ctx context.Context, t namedTable, owner models.Owner, name string) (int, error) {
	name = strings.TrimSpace(name)
	var id int
	err := s.inTx(ctx, "create "+t.resource, func(tx *sql.Tx) error {
		existing, err := s.findNamed(ctx, tx, t, owner, name)
		if err != nil {
			return err
		}
		if existing != 0 {
			return ErrDuplicateName
		}
		id, err = s.insertNamed(ctx, tx, t, owner, name)
		return err
	})
	return id, err
}

func (s *Store) listNamed(ctx context.Context, t namedTable, owner models.Owner, scan func(scanner interface{ Scan(...any) error }) error) error {
	rows, err := s.conn.QueryContext(ctx, s.q("SELECT id, owner, name, created_at FROM "+t.table+" WHERE owner = ? ORDER BY name"), owner)
	if err != nil {
		return storageErr("list "+t.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return storageErr("scan "+t.resource, err)
		}
	}
	if err := rows.Err(); err != nil {
		return storageErr("list "+t.table, err)
	}
	return nil
}

// deleteNamed removes the row. Transactions referencing it keep existing
// with the reference cleared.
func (s *Store) deleteNamed(ctx context.Context, t namedTable, owner models.Owner, id int) error {
	res, err := s.conn.ExecContext(ctx, s.q("DELETE FROM "+t.table+" WHERE id = ? AND owner = ?"), id, owner)
	if err != nil {
		return storageErr("delete "+t.resource, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(t.resource, id)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, owner models.Owner) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.listNamed(ctx, categoriesTable, owner, func(scanner interface{ Scan(...any) error }) error {
		var c models.Category
		if err := scanner.Scan(&c.ID, &c.Owner, &c.Name, &c.CreatedAt); err != nil {
			return err
		}
		categories = append(categories, c)
		return nil
	})
	return categories, err
}

func (s *Store) CreateCategory(ctx context.Context, owner models.Owner, in models.NameInput) (models.Category, error) {
	id, err := s.createNamed(ctx, categoriesTable, owner, in.Name)
	if err != nil {
		return models.Category{}, err
	}
	var c models.Category
	err = s.conn.QueryRowContext(ctx, s.q("SELECT id, owner, name, created_at FROM categories WHERE id = ?"), id).
		Scan(&c.ID, &c.Owner, &c.Name, &c.CreatedAt)
	if err != nil {
		return models.Category{}, storageErr("get category", err)
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, owner models.Owner, id int) error {
	return s.deleteNamed(ctx, categoriesTable, owner, id)
}

func (s *Store) ListPaymentTypes(ctx context.Context, owner models.Owner) ([]models.PaymentType, error) {
	types := []models.PaymentType{}
	err := s.listNamed(ctx, paymentTypesTable, owner, func(scanner interface{ Scan(...any) error }) error {
		var p models.PaymentType
		if err := scanner.Scan(&p.ID, &p.Owner, &p.Name, &p.CreatedAt); err != nil {
			return err
		}
		types = append(types, p)
		return nil
	})
	return types, err
}

func (s *Store) CreatePaymentType(ctx context.Context, owner models.Owner, in models.NameInput) (models.PaymentType, error) {
	id, err := s.createNamed(ctx, paymentTypesTable, owner, in.Name)
	if err != nil {
		return models.PaymentType{}, err
	}
	var p models.PaymentType
	err = s.conn.QueryRowContext(ctx, s.q("SELECT id, owner, name, created_at FROM payment_types WHERE id = ?"), id).
		Scan(&p.ID, &p.Owner, &p.Name, &p.CreatedAt)
	if err != nil {
		return models.PaymentType{}, storageErr("get payment type", err)
	}
	return p, nil
}

func (s *Store) DeletePaymentType(ctx context.Context, owner models.Owner, id int) error {
	return s.deleteNamed(ctx, paymentTypesTable, owner, id)
}
