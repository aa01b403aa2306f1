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

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// ListUsers returns the caller's company users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	users, err := h.UserService.ListCompanyUsers(r.Context(), companyID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, users)
}

// CreateUser adds a user to the caller's company, subject to seat limits.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	var req struct {
		models.SignupRequest
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.UserService.CreateCompanyUser(r.Context(), companyID, &req.SignupRequest, req.Role)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}

// SetActive toggles a user's active flag within the caller's company.
func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	target, err := h.UserService.GetUser(r.Context(), id)
	if err != nil || target.CompanyID == nil || *target.CompanyID != companyID {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.UserService.SetActive(r.Context(), id, req.Active); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "User updated"})
}

// RecentLogins is the super-admin login audit view.
func (h *UserHandler) RecentLogins(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	logs, err := h.UserService.RecentLogins(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}
