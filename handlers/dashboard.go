package handlers

import (
	"net/http"

	"github.com/satheeshds/fintrack/balance"
	"github.com/satheeshds/fintrack/ledger"
	"github.com/satheeshds/fintrack/models"
)

type accountBalance struct {
	models.Account
	balance.Totals
}

type dashboardData struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`

	Accounts []accountBalance `json:"accounts"`

	// Unconfirmed transactions in the same range.
	Pending balance.Totals `json:"pending"`
	Overdue int            `json:"overdue"`

	TotalTransactions int `json:"total_transactions"`
}

// GetDashboard retrieves the balance summary of the current owner
// @Summary      Get dashboard
// @Description  Confirmed income, expense and balance overall and per account, plus pending (unconfirmed) totals and the number of overdue unconfirmed transactions.
// @Tags         dashboard
// @Produce      json
// @Param        from  query     string  false  "Due on or after (YYYY-MM-DD)"
// @Param        to    query     string  false  "Due on or before (YYYY-MM-DD)"
// @Success      200   {object}  Response{data=dashboardData}
// @Failure      400   {object}  Response{error=string}
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, msg := queryDate(q, "from")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	to, msg := queryDate(q, "to")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	owner := ownerFrom(r.Context())
	accounts, err := h.store.ListAccounts(r.Context(), owner)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	txns, err := h.store.ListTransactions(r.Context(), owner, ledger.TransactionFilter{From: from, To: to})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	summary := balance.Aggregate(txns, accounts)
	d := dashboardData{
		TotalIncome:       summary.TotalIncome,
		TotalExpense:      summary.TotalExpense,
		Balance:           summary.Balance,
		Accounts:          make([]accountBalance, 0, len(accounts)),
		Pending:           balance.Pending(txns),
		Overdue:           balance.Overdue(txns, models.Today()),
		TotalTransactions: len(txns),
	}
	for _, a := range accounts {
		d.Accounts = append(d.Accounts, accountBalance{Account: a, Totals: summary.PerAccount[a.ID]})
	}
	writeJSON(w, http.StatusOK, d)
}
