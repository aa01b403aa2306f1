package handlers

import (
	"fmt"
	"net/http"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"
)

type ReportHandler struct {
	ReportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{ReportService: reportService}
}

func (h *ReportHandler) InvoicesCSV(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	q := r.URL.Query()
	ex, err := h.ReportService.InvoicesCSV(r.Context(), companyID, q.Get("from"), q.Get("to"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	writeExport(w, ex)
}

func (h *ReportHandler) PayablesCSV(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	q := r.URL.Query()
	ex, err := h.ReportService.PayablesCSV(r.Context(), companyID, q.Get("from"), q.Get("to"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	writeExport(w, ex)
}

func (h *ReportHandler) FAF(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	q := r.URL.Query()
	ex, _, err := h.ReportService.FAF(r.Context(), companyID, q.Get("from"), q.Get("to"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	writeExport(w, ex)
}

func (h *ReportHandler) VATReturn(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	q := r.URL.Query()
	ret, err := h.ReportService.VATReturn(r.Context(), companyID, q.Get("from"), q.Get("to"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, ret)
}

func writeExport(w http.ResponseWriter, ex *services.Export) {
	w.Header().Set("Content-Type", ex.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", ex.Filename))
	w.Write(ex.Data)
}
