package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Transaction is an income or expense entry. Only confirmed transactions count
// toward balances; unconfirmed ones are planned or pending money movements.
type Transaction struct {
	ID                  int             `json:"id"`
	Owner               Owner           `json:"owner"`
	AccountID           *int            `json:"account_id"`
	Description         string          `json:"description"`
	Amount              float64         `json:"amount"`
	Type                TransactionType `json:"type"`
	IsConfirmed         bool            `json:"is_confirmed"`
	OriginalAccountName *string         `json:"original_account_name"`
	CategoryID          *int            `json:"category_id"`
	PaymentTypeID       *int            `json:"payment_type_id"`
	DueDate             Date            `json:"due_date"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	ConfirmedAt         *time.Time      `json:"confirmed_at"`
	// Computed fields
	AccountName     *string `json:"account_name,omitempty"`
	CategoryName    *string `json:"category_name,omitempty"`
	PaymentTypeName *string `json:"payment_type_name,omitempty"`
}

// TransactionInput is used for creating/updating transactions. Confirmation
// has its own endpoint and is not editable here.
type TransactionInput struct {
	AccountID     int             `json:"account_id"`
	Description   string          `json:"description"`
	Amount        float64         `json:"amount"`
	Type          TransactionType `json:"type"`
	DueDate       Date            `json:"due_date"`
	CategoryID    *int            `json:"category_id"`
	PaymentTypeID *int            `json:"payment_type_id"`
}

// Validate checks the input and normalizes it: the description is trimmed
// and the amount rounded to cents.
func (t *TransactionInput) Validate() string {
	if t.AccountID <= 0 {
		return "account_id is required"
	}
	if t.Amount < 0 {
		return "amount must be non-negative"
	}
	switch t.Type {
	case Income, Expense:
	default:
		return "type must be one of: income, expense"
	}
	if t.DueDate.IsZero() {
		return "due_date is required"
	}
	if t.CategoryID != nil && *t.CategoryID <= 0 {
		return "category_id must be positive"
	}
	if t.PaymentTypeID != nil && *t.PaymentTypeID <= 0 {
		return "payment_type_id must be positive"
	}
	t.Description = strings.TrimSpace(t.Description)
	t.Amount = RoundAmount(t.Amount)
	return ""
}

// RoundAmount rounds to two decimal places, half away from zero.
func RoundAmount(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
