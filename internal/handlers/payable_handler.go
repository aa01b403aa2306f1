package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/models"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PayableHandler struct {
	PayableService *services.PayableService
}

func NewPayableHandler(payableService *services.PayableService) *PayableHandler {
	return &PayableHandler{PayableService: payableService}
}

func (h *PayableHandler) Create(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	var req models.CreatePayableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.PayableService.Create(r.Context(), companyID, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, p)
}

func (h *PayableHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	payables, err := h.PayableService.List(r.Context(), companyID, r.URL.Query().Get("status"))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, payables)
}

func (h *PayableHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payable id")
		return
	}

	p, err := h.PayableService.Get(r.Context(), companyID, id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Payable not found")
		return
	}
	utils.JSON(w, http.StatusOK, p)
}

func (h *PayableHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid payable id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.PayableService.UpdateStatus(r.Context(), companyID, id, req.Status); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Payable updated"})
}
