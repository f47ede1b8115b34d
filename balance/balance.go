// Package balance computes income, expense and net totals over transactions.
//
// Only confirmed transactions count toward balances. Unconfirmed entries are
// planned money movements: they are listed but never summed here, except by
// Pending which reports them separately.
package balance

import "github.com/satheeshds/fintrack/models"

// Totals is the income/expense pair of one account.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// Summary is the result of Aggregate.
type Summary struct {
	TotalIncome  float64        `json:"total_income"`
	TotalExpense float64        `json:"total_expense"`
	Balance      float64        `json:"balance"`
	PerAccount   map[int]Totals `json:"per_account"`
}

// Aggregate sums confirmed transactions per account and globally.
//
// Every account in accounts appears in PerAccount, with zero totals when it
// has no confirmed transactions. A transaction whose account is not in
// accounts still counts toward the global totals.
func Aggregate(transactions []models.Transaction, accounts []models.Account) Summary {
	s := Summary{PerAccount: make(map[int]Totals, len(accounts))}
	for _, a := range accounts {
		s.PerAccount[a.ID] = Totals{}
	}

	for _, t := range transactions {
		if !t.IsConfirmed {
			continue
		}

		var acc Totals
		known := false
		if t.AccountID != nil {
			acc, known = s.PerAccount[*t.AccountID]
		}

		switch t.Type {
		case models.Income:
			s.TotalIncome += t.Amount
			acc.Income += t.Amount
		case models.Expense:
			s.TotalExpense += t.Amount
			acc.Expense += t.Amount
		default:
			continue
		}

		if known {
			s.PerAccount[*t.AccountID] = acc
		}
	}

	for id, acc := range s.PerAccount {
		acc.Net = acc.Income - acc.Expense
		s.PerAccount[id] = acc
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}

// Pending sums the unconfirmed transactions, the mirror image of Aggregate's
// global totals.
func Pending(transactions []models.Transaction) Totals {
	var p Totals
	for _, t := range transactions {
		if t.IsConfirmed {
			continue
		}
		switch t.Type {
		case models.Income:
			p.Income += t.Amount
		case models.Expense:
			p.Expense += t.Amount
		}
	}
	p.Net = p.Income - p.Expense
	return p
}

// Overdue counts unconfirmed transactions due strictly before today.
func Overdue(transactions []models.Transaction, today models.Date) int {
	n := 0
	for _, t := range transactions {
		if !t.IsConfirmed && !t.DueDate.IsZero() && t.DueDate.Before(today) {
			n++
		}
	}
	return n
}
