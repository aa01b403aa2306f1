package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/models"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
)

type InvoiceHandler struct {
	InvoiceService *services.InvoiceService
	PDFService     *services.PDFService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService, pdfService *services.PDFService) *InvoiceHandler {
	return &InvoiceHandler{InvoiceService: invoiceService, PDFService: pdfService}
}

func (h *InvoiceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	totals, err := h.InvoiceService.Preview(r.Context(), companyID, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, totals)
}

func (h *InvoiceHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inv, err := h.InvoiceService.CreateDraft(r.Context(), companyID, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}

	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inv, err := h.InvoiceService.UpdateDraft(r.Context(), companyID, invoiceID, &req)
	if err != nil {
		utils.Error(w, invoiceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}

	inv, err := h.InvoiceService.Get(r.Context(), companyID, invoiceID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Invoice not found")
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	invoices, err := h.InvoiceService.List(r.Context(), companyID, r.URL.Query().Get("status"))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Issue(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}

	inv, err := h.InvoiceService.Issue(r.Context(), companyID, invoiceID)
	if err != nil {
		utils.Error(w, invoiceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Void(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}
	if err := h.InvoiceService.Void(r.Context(), companyID, invoiceID); err != nil {
		utils.Error(w, invoiceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Invoice voided"})
}

func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}
	if err := h.InvoiceService.MarkPaid(r.Context(), companyID, invoiceID); err != nil {
		utils.Error(w, invoiceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Invoice marked paid"})
}

func (h *InvoiceHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}
	if err := h.InvoiceService.DeleteDraft(r.Context(), companyID, invoiceID); err != nil {
		utils.Error(w, invoiceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Draft deleted"})
}

// Import accepts a CSV upload and creates drafts for every valid group.
func (h *InvoiceHandler) Import(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	if err := r.ParseMultipartForm(12 << 20); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	created, rowErrors, err := h.InvoiceService.ImportDrafts(r.Context(), companyID, file)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"created": created,
		"errors":  rowErrors,
	})
}

// DownloadPDF streams the rendered invoice document.
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}

	data, err := h.PDFService.InvoicePDF(r.Context(), companyID, invoiceID)
	if err != nil {
		utils.Error(w, invoiceStatusCode(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", invoiceID))
	w.Write(data)
}

// ArchivePDF renders the invoice and stores it in object storage.
func (h *InvoiceHandler) ArchivePDF(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}

	key, err := h.PDFService.ArchivePDF(r.Context(), companyID, invoiceID)
	if err != nil {
		utils.Error(w, invoiceStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"storage_key": key})
}

// BulkDownloadPDFs streams a zip of rendered invoices.
func (h *InvoiceHandler) BulkDownloadPDFs(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	var req struct {
		InvoiceIDs []int `json:"invoice_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	data, err := h.PDFService.BulkPDFZip(r.Context(), companyID, req.InvoiceIDs)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=invoices.zip")
	w.Write(data)
}

// SigningKey serves the public verifying key in PEM form so external
// auditors can check invoice signatures.
func (h *InvoiceHandler) SigningKey(w http.ResponseWriter, r *http.Request) {
	pemKey, err := h.InvoiceService.SigningKeyPEM()
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/x-pem-file")
	w.Write([]byte(pemKey))
}

// VerifyChain re-validates the company's invoice hash chain.
func (h *InvoiceHandler) VerifyChain(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	if err := h.InvoiceService.VerifyChain(r.Context(), companyID); err != nil {
		utils.JSON(w, http.StatusOK, map[string]interface{}{
			"valid": false,
			"error": err.Error(),
		})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"valid": true})
}

func invoiceScope(w http.ResponseWriter, r *http.Request) (companyID, invoiceID int, ok bool) {
	companyID, hasCompany := middleware.GetCompanyIDFromContext(r.Context())
	if !hasCompany {
		utils.Error(w, http.StatusForbidden, "No company context")
		return 0, 0, false
	}
	invoiceID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice id")
		return 0, 0, false
	}
	return companyID, invoiceID, true
}

func invoiceStatusCode(err error) int {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvoiceQuotaExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrNotDraft):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
