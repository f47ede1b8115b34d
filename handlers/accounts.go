package handlers

import (
	"net/http"

	"github.com/satheeshds/fintrack/models"
)

type deleteAccountData struct {
	Message string `json:"message"`
	Moved   int64  `json:"moved"`
}

// ListAccounts lists the owner's accounts
// @Summary      List accounts
// @Description  Get the bank accounts, wallets and cards of the current owner.
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Account}
// @Router       /accounts [get]
// @Security     BearerAuth
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// GetAccount retrieves a single account by ID
// @Summary      Get account
// @Tags         accounts
// @Produce      json
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  Response{data=models.Account}
// @Failure      404  {object}  Response{error=string}
// @Router       /accounts/{id} [get]
// @Security     BearerAuth
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	a, err := h.store.GetAccount(r.Context(), ownerFrom(r.Context()), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateAccount creates a new account
// @Summary      Create account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        account  body      models.AccountInput  true  "Account contents"
// @Success      201      {object}  Response{data=models.Account}
// @Failure      400      {object}  Response{error=string}
// @Router       /accounts [post]
// @Security     BearerAuth
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var input models.AccountInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	a, err := h.store.CreateAccount(r.Context(), ownerFrom(r.Context()), input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAccount renames an existing account
// @Summary      Update account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Account ID"
// @Param        account  body      models.AccountInput true  "Updated account contents"
// @Success      200      {object}  Response{data=models.Account}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Router       /accounts/{id} [put]
// @Security     BearerAuth
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input models.AccountInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	a, err := h.store.RenameAccount(r.Context(), ownerFrom(r.Context()), id, input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAccount deletes an account after moving its transactions
// @Summary      Delete account
// @Description  Move every transaction of the account to new_account_id, recording original_account_name on each, then remove the account. The last account of an owner cannot be deleted.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Account ID"
// @Param        options  body      models.DeleteAccountInput true  "Replacement account"
// @Success      200      {object}  Response{data=deleteAccountData}
// @Failure      400      {object}  Response{error=string}
// @Failure      404      {object}  Response{error=string}
// @Failure      409      {object}  Response{error=string}
// @Router       /accounts/{id} [delete]
// @Security     BearerAuth
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input models.DeleteAccountInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	moved, err := h.store.DeleteAccount(r.Context(), id, input.NewAccountID, input.OriginalAccountName, ownerFrom(r.Context()))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteAccountData{Message: "deleted", Moved: moved})
}
