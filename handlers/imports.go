package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/satheeshds/fintrack/importer"
	"github.com/satheeshds/fintrack/models"
)

// ImportInvoice imports a purchase invoice spreadsheet
// @Summary      Import invoice
// @Description  Upload an XLSX or CSV invoice with date, description, amount and optional category columns. Every line becomes an unconfirmed expense on the account. Any invalid line rejects the whole file.
// @Tags         imports
// @Accept       multipart/form-data
// @Produce      json
// @Param        file        formData  file    true   "Invoice spreadsheet (.xlsx or .csv)"
// @Param        account_id  formData  int     true   "Account to charge"
// @Param        due_date    formData  string  false  "Due date for every line (YYYY-MM-DD); defaults to each line's date"
// @Success      201         {object}  Response{data=models.ImportResult}
// @Failure      400         {object}  Response{error=string}
// @Failure      404         {object}  Response{error=string}
// @Failure      413         {object}  Response{error=string}
// @Router       /imports/invoices [post]
// @Security     BearerAuth
func (h *Handler) ImportInvoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.importMaxBytes)
	if err := r.ParseMultipartForm(h.importMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	accountID, err := strconv.Atoi(r.FormValue("account_id"))
	if err != nil || accountID <= 0 {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}
	var dueDate models.Date
	if raw := r.FormValue("due_date"); raw != "" {
		if dueDate, err = models.ParseDate(raw); err != nil {
			writeError(w, http.StatusBadRequest, "due_date: "+err.Error())
			return
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	lines, err := importer.Parse(r.Context(), header.Filename, file)
	if err != nil {
		var rowErr *importer.RowError
		switch {
		case errors.As(err, &rowErr),
			errors.Is(err, importer.ErrUnsupportedFormat),
			errors.Is(err, importer.ErrNoRows):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadRequest, "could not read file: "+err.Error())
		}
		return
	}

	result, err := h.store.ImportInvoice(r.Context(), ownerFrom(r.Context()), accountID, lines, dueDate)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
