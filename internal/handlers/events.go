// internal/handlers/events.go
package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"maw-backend/internal/middleware"
	"maw-backend/internal/models"
	"maw-backend/internal/services"
	"maw-backend/pkg/utils"
)

type EventsHandler struct {
	eventService services.EventService
}

func NewEventsHandler(eventService services.EventService) *EventsHandler {
	return &EventsHandler{
		eventService: eventService,
	}
}

// RecordEvent serves POST /api/v1/events: the write path of the usage log.
func (h *EventsHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.RecordEventRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	event, err := h.eventService.Record(r.Context(), userID, &req)
	if err != nil {
		utils.SendErrorResponse(w, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"ok":    true,
		"event": event,
	})
}
