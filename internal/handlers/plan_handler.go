package handlers

import (
	"net/http"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"
)

type PlanHandler struct {
	CompanyService *services.CompanyService
}

func NewPlanHandler(companyService *services.CompanyService) *PlanHandler {
	return &PlanHandler{CompanyService: companyService}
}

// ListPlans is public so the pricing page renders before signup.
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.CompanyService.ListPlans(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) CurrentSubscription(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}

	sub, err := h.CompanyService.CurrentSubscription(r.Context(), companyID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "No subscription found")
		return
	}
	utils.JSON(w, http.StatusOK, sub)
}
