package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"involinks-backend/internal/analytics"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"
)

type AnalyticsHandler struct {
	AnalyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{AnalyticsService: analyticsService}
}

func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.AnalyticsService.Dashboard(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, dashboard)
}

// companyFilterFromQuery reads the shared dashboard filters: search,
// status, plan, min_invoices.
func companyFilterFromQuery(r *http.Request) (analytics.CompanyFilter, error) {
	q := r.URL.Query()
	filter := analytics.CompanyFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Plan:   q.Get("plan"),
	}
	if v := q.Get("min_invoices"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("min_invoices must be a number")
		}
		filter.MinInvoices = &n
	}
	return filter, nil
}

// Companies returns the dashboard company table with query-string
// filters.
func (h *AnalyticsHandler) Companies(w http.ResponseWriter, r *http.Request) {
	filter, err := companyFilterFromQuery(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.AnalyticsService.Companies(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

// CompaniesCSV streams the same table as a CSV download, honoring the
// same filters.
func (h *AnalyticsHandler) CompaniesCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := companyFilterFromQuery(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ex, err := h.AnalyticsService.CompaniesCSV(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeExport(w, ex)
}
