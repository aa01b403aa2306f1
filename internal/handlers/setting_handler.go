package handlers

import (
	"encoding/json"
	"net/http"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type SettingHandler struct {
	SettingService *services.SettingService
}

func NewSettingHandler(settingService *services.SettingService) *SettingHandler {
	return &SettingHandler{SettingService: settingService}
}

func (h *SettingHandler) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	settings, err := h.SettingService.List(r.Context(), companyID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, settings)
}

func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	setting, err := h.SettingService.Get(r.Context(), companyID, mux.Vars(r)["key"])
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Setting not found")
		return
	}
	utils.JSON(w, http.StatusOK, setting)
}

func (h *SettingHandler) Set(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.SettingService.Set(r.Context(), companyID, mux.Vars(r)["key"], req.Value); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Setting saved"})
}

func (h *SettingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	if err := h.SettingService.Delete(r.Context(), companyID, mux.Vars(r)["key"]); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Setting deleted"})
}
