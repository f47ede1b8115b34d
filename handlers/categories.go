package handlers

import (
	"net/http"

	"github.com/satheeshds/fintrack/models"
)

// ListCategories lists the owner's categories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Category}
// @Router       /categories [get]
// @Security     BearerAuth
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a category
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        category  body      models.NameInput  true  "Category name"
// @Success      201       {object}  Response{data=models.Category}
// @Failure      400       {object}  Response{error=string}
// @Failure      409       {object}  Response{error=string}
// @Router       /categories [post]
// @Security     BearerAuth
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input models.NameInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	c, err := h.store.CreateCategory(r.Context(), ownerFrom(r.Context()), input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// DeleteCategory deletes a category
// @Summary      Delete category
// @Description  Remove a category. Transactions in it become uncategorized.
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /categories/{id} [delete]
// @Security     BearerAuth
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteCategory(r.Context(), ownerFrom(r.Context()), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

// ListPaymentTypes lists the owner's payment types
// @Summary      List payment types
// @Tags         payment-types
// @Produce      json
// @Success      200  {object}  Response{data=[]models.PaymentType}
// @Router       /payment-types [get]
// @Security     BearerAuth
func (h *Handler) ListPaymentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListPaymentTypes(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// CreatePaymentType creates a payment type
// @Summary      Create payment type
// @Tags         payment-types
// @Accept       json
// @Produce      json
// @Param        payment_type  body      models.NameInput  true  "Payment type name"
// @Success      201           {object}  Response{data=models.PaymentType}
// @Failure      400           {object}  Response{error=string}
// @Failure      409           {object}  Response{error=string}
// @Router       /payment-types [post]
// @Security     BearerAuth
func (h *Handler) CreatePaymentType(w http.ResponseWriter, r *http.Request) {
	var input models.NameInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p, err := h.store.CreatePaymentType(r.Context(), ownerFrom(r.Context()), input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// DeletePaymentType deletes a payment type
// @Summary      Delete payment type
// @Tags         payment-types
// @Produce      json
// @Param        id   path      int  true  "Payment type ID"
// @Success      200  {object}  Response{data=map[string]string}
// @Failure      404  {object}  Response{error=string}
// @Router       /payment-types/{id} [delete]
// @Security     BearerAuth
func (h *Handler) DeletePaymentType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.store.DeletePaymentType(r.Context(), ownerFrom(r.Context()), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
