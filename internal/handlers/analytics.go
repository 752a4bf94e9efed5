// internal/handlers/analytics.go
package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"maw-backend/internal/services"
	"maw-backend/pkg/utils"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetAdminReport serves GET /api/v1/admin/analytics?days=N. The days
// parameter is validated against {1,7,30,90}; anything else falls back to
// the configured default. Only a primary-scan failure produces a 500 -
// secondary metric failures degrade their own section and surface in the
// warnings array of a 200 response.
func (h *AnalyticsHandler) GetAdminReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyticsService.BuildReport(r.Context(), r.URL.Query().Get("days"))
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}
