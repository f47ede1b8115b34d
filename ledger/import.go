package ledger

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/satheeshds/fintrack/models"
)

// ImportInvoice records every invoice line as an unconfirmed expense on the
// account. Category names are resolved against the owner's categories and
// created when missing. When dueDate is set it replaces each line's own date.
// The whole batch commits or none of it does.
func (s *Store) ImportInvoice(ctx context.Context, owner models.Owner, accountID int, lines []models.InvoiceLine, dueDate models.Date) (models.ImportResult, error) {
	result := models.ImportResult{TransactionIDs: []int{}}

	err := s.inTx(ctx, "import invoice", func(tx *sql.Tx) error {
		if _, err := s.getAccount(ctx, tx, owner, accountID); err != nil {
			return err
		}

		categories := map[string]int{}
		for _, line := range lines {
			var categoryID *int
			if name := strings.TrimSpace(line.Category); name != "" {
				key := strings.ToLower(name)
				id, ok := categories[key]
				if !ok {
					var err error
					id, err = s.findOrCreateNamed(ctx, tx, categoriesTable, owner, name)
					if err != nil {
						return err
					}
					categories[key] = id
				}
				categoryID = &id
			}

			due := line.Date
			if !dueDate.IsZero() {
				due = dueDate
			}

			var id int
			err := tx.QueryRowContext(ctx, s.q(`INSERT INTO transactions
				(owner, account_id, description, amount, type, is_confirmed, category_id, due_date)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
				owner, accountID, line.Description, models.RoundAmount(line.Amount), models.Expense, false, categoryID, due).Scan(&id)
			if err != nil {
				return storageErr("insert imported transaction", err)
			}
			result.TransactionIDs = append(result.TransactionIDs, id)
		}
		return nil
	})
	if err != nil {
		return models.ImportResult{}, err
	}

	result.Imported = len(result.TransactionIDs)
	log.Info().
		Str("owner", string(owner)).
		Int("account_id", accountID).
		Int("imported", result.Imported).
		Msg("invoice imported")
	return result, nil
}
