package handlers

import (
	"encoding/json"
	"net/http"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ContentHandler struct {
	ContentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{ContentService: contentService}
}

// Get is readable by any tenant; unknown keys fall back to defaults.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	content, err := h.ContentService.Get(r.Context(), key)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Content not found")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"key": key, "content": content})
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.ContentService.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, blocks)
}

// Set is a super-admin CMS edit.
func (h *ContentHandler) Set(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.ContentService.Set(r.Context(), mux.Vars(r)["key"], req.Content, userID); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Content saved"})
}

func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ContentService.Delete(r.Context(), mux.Vars(r)["key"]); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Content deleted"})
}
