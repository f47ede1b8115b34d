package models

import (
	"strings"
	"time"
)

// Category groups transactions for reporting (groceries, rent, salary...).
type Category struct {
	ID        int       `json:"id"`
	Owner     Owner     `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentType records how money moved (credit card, cash, transfer...).
type PaymentType struct {
	ID        int       `json:"id"`
	Owner     Owner     `json:"owner"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NameInput is used for creating categories, payment types and groups.
type NameInput struct {
	Name string `json:"name"`
}

func (n *NameInput) Validate() string {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return "name is required"
	}
	if len(n.Name) > 100 {
		return "name must be at most 100 characters"
	}
	return ""
}
