// internal/services/event_service.go
package services

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"maw-backend/internal/models"
	"maw-backend/internal/repository"
	apperrors "maw-backend/pkg/errors"
)

// EventService records usage events into the append-only log the analytics
// pipeline scans. Events are immutable once written.
type EventService interface {
	Record(ctx context.Context, userID string, req *models.RecordEventRequest) (*models.AIUsageEvent, error)
}

type eventService struct {
	events repository.EventRepository
}

func NewEventService(events repository.EventRepository) EventService {
	return &eventService{
		events: events,
	}
}

func (s *eventService) Record(ctx context.Context, userID string, req *models.RecordEventRequest) (*models.AIUsageEvent, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, http.StatusBadRequest, err.Error())
	}

	event := &models.AIUsageEvent{
		UserID:     userID,
		Tool:       req.Tool,
		Endpoint:   req.Endpoint,
		Provider:   req.Provider,
		Model:      req.Model,
		Outcome:    req.Outcome,
		HTTPStatus: req.HTTPStatus,
		ErrorCode:  req.ErrorCode,
		ErrorMsg:   req.ErrorMsg,
		LatencyMS:  req.LatencyMS,
		CostUSD:    req.CostUSD,
	}

	if err := s.events.Create(ctx, event); err != nil {
		zap.L().Error("failed to record usage event",
			zap.String("tool", event.Tool),
			zap.Error(err))
		return nil, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to record usage event",
		)
	}

	return event, nil
}
