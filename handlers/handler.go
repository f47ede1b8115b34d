// Package handlers implements the JSON API.
//
// Every route except registration, login and health requires a bearer token.
// Handlers act on behalf of the owner resolved by Authenticate and never see
// rows of other owners.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satheeshds/fintrack/auth"
	"github.com/satheeshds/fintrack/ledger"
)

// Handler carries the dependencies shared by all API handlers.
type Handler struct {
	store          *ledger.Store
	issuer         *auth.Issuer
	importMaxBytes int64
}

func New(store *ledger.Store, issuer *auth.Issuer, importMaxBytes int64) *Handler {
	return &Handler{store: store, issuer: issuer, importMaxBytes: importMaxBytes}
}

// Routes registers the API on r. main mounts it under /api/v1.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/me", h.Me)

		// Accounts
		r.Get("/accounts", h.ListAccounts)
		r.Post("/accounts", h.CreateAccount)
		r.Get("/accounts/{id}", h.GetAccount)
		r.Put("/accounts/{id}", h.UpdateAccount)
		r.Delete("/accounts/{id}", h.DeleteAccount)

		// Transactions
		r.Get("/transactions", h.ListTransactions)
		r.Post("/transactions", h.CreateTransaction)
		r.Get("/transactions/{id}", h.GetTransaction)
		r.Put("/transactions/{id}", h.UpdateTransaction)
		r.Delete("/transactions/{id}", h.DeleteTransaction)
		r.Post("/transactions/{id}/confirm", h.ConfirmTransaction)

		// Categories
		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.CreateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)

		// Payment types
		r.Get("/payment-types", h.ListPaymentTypes)
		r.Post("/payment-types", h.CreatePaymentType)
		r.Delete("/payment-types/{id}", h.DeletePaymentType)

		// Groups
		r.Get("/groups", h.ListGroups)
		r.Post("/groups", h.CreateGroup)
		r.Post("/groups/{id}/members", h.AddGroupMember)

		// Imports
		r.Post("/imports/invoices", h.ImportInvoice)

		// Dashboard
		r.Get("/dashboard", h.GetDashboard)
	})
}

// Health reports whether the database is reachable
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      503  {object}  Response{error=string}
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
