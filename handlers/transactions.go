package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/satheeshds/fintrack/ledger"
	"github.com/satheeshds/fintrack/models"
)

func queryInt(q url.Values, key string) (*int, string) {
	raw := q.Get(key)
	if raw == "" {
		return nil, ""
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, key + " must be an integer"
	}
	return &v, ""
}

func queryDate(q url.Values, key string) (models.Date, string) {
	raw := q.Get(key)
	if raw == "" {
		return models.Date{}, ""
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, key + ": " + err.Error()
	}
	return d, ""
}

// parseTransactionFilter reads the list filters from the query string. It
// returns a message describing the first invalid parameter.
func parseTransactionFilter(q url.Values) (ledger.TransactionFilter, string) {
	var f ledger.TransactionFilter
	var msg string

	if f.AccountID, msg = queryInt(q, "account_id"); msg != "" {
		return f, msg
	}
	if f.CategoryID, msg = queryInt(q, "category_id"); msg != "" {
		return f, msg
	}
	if f.PaymentTypeID, msg = queryInt(q, "payment_type_id"); msg != "" {
		return f, msg
	}
	if tp := q.Get("type"); tp != "" {
		f.Type = models.TransactionType(tp)
		if f.Type != models.Income && f.Type != models.Expense {
			return f, "type must be one of: income, expense"
		}
	}
	if raw := q.Get("confirmed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, "confirmed must be true or false"
		}
		f.Confirmed = &v
	}
	if f.From, msg = queryDate(q, "from"); msg != "" {
		return f, msg
	}
	if f.To, msg = queryDate(q, "to"); msg != "" {
		return f, msg
	}
	return f, ""
}

// ListTransactions lists the owner's transactions
// @Summary      List transactions
// @Description  Get income and expense entries, latest due date first.
// @Tags         transactions
// @Produce      json
// @Param        account_id       query     int     false  "Filter by account"
// @Param        type             query     string  false  "income or expense"
// @Param        confirmed        query     bool    false  "Filter by confirmation"
// @Param        category_id      query     int     false  "Filter by category"
// @Param        payment_type_id  query     int     false  "Filter by payment type"
// @Param        from             query     string  false  "Due on or after (YYYY-MM-DD)"
// @Param        to               query     string  false  "Due on or before (YYYY-MM-DD)"
// @Success      200              {object}  Response{data=[]models.Transaction}
// @Failure      400              {object}  Response{error=string}
// @Router       /transactions [get]
// @Security     BearerAuth
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, msg := parseTransactionFilter(r.URL.Query())
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	txns, err := h.store.ListTransactions(r.Context(), ownerFrom(r.Context()), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txns)
}

// GetTransaction retrieves a single transaction by ID
// @Summary      Get transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  Response{data=models.Transaction}
// @Failure      404  {object}  Response{error=string}
// @Router       /transactions/{id} [get]
// @Security     BearerAuth
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.store.GetTransaction(r.Context(), ownerFrom(r.Context()), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTransaction creates a new transaction
// @Summary      Create transaction
// @Description  Record a planned income or expense. New transactions start unconfirmed.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        transaction  body      models.TransactionInput  true  "Transaction contents"
// @Success      201          {object}  Response{data=models.Transaction}
// @Failure      400          {object}  Response{error=string}
// @Failure      404          {object}  Response{error=string}
// @Router       /transactions [post]
// @Security     BearerAuth
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var input models.TransactionInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t, err := h.store.CreateTransaction(r.Context(), ownerFrom(r.Context()), input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTransaction updates an existing transaction
// @Summary      Update transaction
// @Description  Edit a transaction. The confirmation state is not affected.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id           path      int                      true  "Transaction ID"
// @Param        transaction  body      models.TransactionInput  true  "Updated transaction contents"
// @Success      200          {object}  Response{data=models.Transaction}
// @Failure      400          {object}  Response{error=string}
// @Failure      404          {object}  Response{error=string}
// @Router       /transactions/{id} [put]
// @Security     BearerAuth
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input models.TransactionInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t, err := h.store.UpdateTransaction(r.Context(), ownerFrom(r.Context()), id, input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ConfirmTransaction marks a transaction as confirmed
// @Summary      Confirm transaction
// @Description  Confirm that the money moved. Only confirmed transactions count toward balances. Confirmation cannot be undone.
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  Response{data=models.Transaction}
// @Failure      404  {object}  Response{error=string}
// @Failure      409  {object}  Response{error=string}
// @Router       /transactions/{id}/confirm [post]
// @Security     BearerAuth
func (h *Handler) ConfirmTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.store.ConfirmTransaction(r.Context(), ownerFrom(r.Context()), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTransaction deletes a transaction
// @Summary      Delete transaction
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /transactions/{id} [delete]
// @Security     BearerAuth
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteTransaction(r.Context(), ownerFrom(r.Context()), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
