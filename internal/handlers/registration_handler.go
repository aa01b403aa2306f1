package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/models"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type RegistrationHandler struct {
	RegistrationService *services.RegistrationService
}

func NewRegistrationHandler(s *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{RegistrationService: s}
}

// Start is the unauthenticated entry point of the wizard.
func (h *RegistrationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LegalName string `json:"legal_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	company, progress, err := h.RegistrationService.Start(r.Context(), req.LegalName)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"company":  company,
		"progress": progress,
	})
}

func (h *RegistrationHandler) Progress(w http.ResponseWriter, r *http.Request) {
	companyID, ok := registrationCompany(w, r)
	if !ok {
		return
	}

	progress, docs, err := h.RegistrationService.Progress(r.Context(), companyID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Registration not found")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"progress":  progress,
		"documents": docs,
	})
}

func (h *RegistrationHandler) SubmitCompanyInfo(w http.ResponseWriter, r *http.Request) {
	companyID, ok := registrationCompany(w, r)
	if !ok {
		return
	}

	var req models.CompanyInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.RegistrationService.SubmitCompanyInfo(r.Context(), companyID, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Company info saved"})
}

func (h *RegistrationHandler) SubmitBusinessDetails(w http.ResponseWriter, r *http.Request) {
	companyID, ok := registrationCompany(w, r)
	if !ok {
		return
	}

	var req models.BusinessDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.RegistrationService.SubmitBusinessDetails(r.Context(), companyID, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Business details saved"})
}

// UploadDocument accepts a multipart form with a "file" part plus a
// "document_type" field.
func (h *RegistrationHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	companyID, ok := registrationCompany(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(12 << 20); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	doc, err := h.RegistrationService.UploadDocument(r.Context(), companyID,
		r.FormValue("document_type"), header.Filename, mimeType, data)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, doc)
}

func (h *RegistrationHandler) CompleteDocuments(w http.ResponseWriter, r *http.Request) {
	companyID, ok := registrationCompany(w, r)
	if !ok {
		return
	}
	if err := h.RegistrationService.CompleteDocumentsStep(r.Context(), companyID); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Documents step complete"})
}

func (h *RegistrationHandler) SelectPlan(w http.ResponseWriter, r *http.Request) {
	companyID, ok := registrationCompany(w, r)
	if !ok {
		return
	}

	var req struct {
		PlanID       string `json:"plan_id"`
		BillingCycle string `json:"billing_cycle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.RegistrationService.SelectPlan(r.Context(), companyID, req.PlanID, req.BillingCycle); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Plan selected"})
}

func (h *RegistrationHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	companyID, ok := registrationCompany(w, r)
	if !ok {
		return
	}
	if err := h.RegistrationService.Finalize(r.Context(), companyID); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Registration submitted for review"})
}

// registrationCompany resolves the company the wizard request targets.
// Before signup the company id travels in the URL; after login the
// authenticated company takes precedence.
func registrationCompany(w http.ResponseWriter, r *http.Request) (int, bool) {
	if companyID, ok := middleware.GetCompanyIDFromContext(r.Context()); ok {
		return companyID, true
	}
	id, err := strconv.Atoi(mux.Vars(r)["companyId"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid company id")
		return 0, false
	}
	return id, true
}
