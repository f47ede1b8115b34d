package models

// InvoiceLine is one purchase read from an invoice spreadsheet. Row is the
// 1-based spreadsheet row, kept for error messages.
type InvoiceLine struct {
	Row         int     `json:"row"`
	Date        Date    `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
}

// ImportResult reports the transactions created by an invoice import.
type ImportResult struct {
	Imported       int   `json:"imported"`
	TransactionIDs []int `json:"transaction_ids"`
}
