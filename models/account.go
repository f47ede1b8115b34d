package models

import (
	"strings"
	"time"
)

// Account represents a bank account, wallet or card holding transactions.
type Account struct {
	ID        int       `json:"id"`
	Owner     Owner     `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountInput is used for creating/renaming accounts.
type AccountInput struct {
	Name string `json:"name"`
}

func (a *AccountInput) Validate() string {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return "name is required"
	}
	if len(a.Name) > 100 {
		return "name must be at most 100 characters"
	}
	return ""
}

// DeleteAccountInput is the body of an account deletion. Transactions of the
// deleted account move to NewAccountID and remember OriginalAccountName.
type DeleteAccountInput struct {
	NewAccountID        int    `json:"new_account_id"`
	OriginalAccountName string `json:"original_account_name"`
}

func (d *DeleteAccountInput) Validate() string {
	if d.NewAccountID <= 0 {
		return "new_account_id is required"
	}
	return ""
}
