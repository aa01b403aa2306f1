package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// AdminHandler exposes the super-admin company review queue.
type AdminHandler struct {
	CompanyService *services.CompanyService
}

func NewAdminHandler(companyService *services.CompanyService) *AdminHandler {
	return &AdminHandler{CompanyService: companyService}
}

func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.CompanyService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, companies)
}

func (h *AdminHandler) PendingCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.CompanyService.PendingReview(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, companies)
}

func (h *AdminHandler) ReviewDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid company id")
		return
	}

	detail, err := h.CompanyService.ReviewDetail(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Company not found")
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid company id")
		return
	}
	if err := h.CompanyService.Approve(r.Context(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Company approved"})
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid company id")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.CompanyService.Reject(r.Context(), id, req.Reason); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Company rejected"})
}

func (h *AdminHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid company id")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.CompanyService.Suspend(r.Context(), id, req.Reason); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Company suspended"})
}

func (h *AdminHandler) Reinstate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid company id")
		return
	}
	if err := h.CompanyService.Reinstate(r.Context(), id); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Company reinstated"})
}

func (h *AdminHandler) ReviewDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid document id")
		return
	}

	var req struct {
		Approved bool `json:"approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.CompanyService.ReviewDocument(r.Context(), id, req.Approved); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Document reviewed"})
}
