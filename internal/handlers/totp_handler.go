package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"
)

type TOTPHandler struct {
	TOTPService *services.TOTPService
	UserRepo    *repositories.UserRepository
}

func NewTOTPHandler(totpService *services.TOTPService, userRepo *repositories.UserRepository) *TOTPHandler {
	return &TOTPHandler{TOTPService: totpService, UserRepo: userRepo}
}

// Setup initiates 2FA enrollment, returning the secret and QR code.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.UserRepo.Get(r.Context(), userID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if user.TOTPEnabled {
		utils.Error(w, http.StatusBadRequest, "2FA is already enabled")
		return
	}

	resp, err := h.TOTPService.GenerateSetup(r.Context(), user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Verify confirms the first code and enables 2FA, returning backup codes.
func (h *TOTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	codes, err := h.TOTPService.VerifyAndEnable(r.Context(), userID, req.Code, getIPAddress(r))
	if err != nil {
		utils.Error(w, totpStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, codes)
}

func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.TOTPService.Disable(r.Context(), userID, req.Password, req.Code); err != nil {
		utils.Error(w, totpStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "2FA disabled"})
}

func (h *TOTPHandler) RegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	codes, err := h.TOTPService.RegenerateBackupCodes(r.Context(), userID, req.Password)
	if err != nil {
		utils.Error(w, totpStatusCode(err), err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, codes)
}

func (h *TOTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status, err := h.TOTPService.GetStatus(r.Context(), userID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, status)
}

// totpStatusCode maps service sentinel errors to HTTP statuses.
func totpStatusCode(err error) int {
	switch {
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrInvalidTOTPCode), errors.Is(err, services.ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNoTOTPSecret), errors.Is(err, services.ErrTOTPNotEnabled):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
