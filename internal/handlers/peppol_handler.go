package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PeppolHandler struct {
	PeppolService *services.PeppolService
}

func NewPeppolHandler(peppolService *services.PeppolService) *PeppolHandler {
	return &PeppolHandler{PeppolService: peppolService}
}

// Send transmits an issued invoice to a receiver participant.
func (h *PeppolHandler) Send(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}

	var req struct {
		ReceiverID string `json:"receiver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txn, err := h.PeppolService.Send(r.Context(), companyID, invoiceID, req.ReceiverID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, txn)
}

// Transmissions lists delivery attempts for an invoice.
func (h *PeppolHandler) Transmissions(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}

	txns, err := h.PeppolService.Transmissions(r.Context(), companyID, invoiceID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, txns)
}

// RefreshStatus polls the provider for an in-flight transmission.
func (h *PeppolHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid transmission id")
		return
	}

	txn, err := h.PeppolService.RefreshStatus(r.Context(), companyID, id)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, txn)
}

// DownloadUBL streams the PINT-AE XML rendering of an invoice.
func (h *PeppolHandler) DownloadUBL(w http.ResponseWriter, r *http.Request) {
	companyID, invoiceID, ok := invoiceScope(w, r)
	if !ok {
		return
	}

	data, err := h.PeppolService.GenerateUBL(r.Context(), companyID, invoiceID)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.xml", invoiceID))
	w.Write(data)
}
