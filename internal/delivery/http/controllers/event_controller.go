package controllers

import (
	"log/slog"
	"net/http"

	"eventlivechat/internal/delivery/http/helpers"
	"eventlivechat/internal/domain"
)

type EventController struct {
	Logger    *slog.Logger
	EventRepo domain.EventRepository
}

func NewEventController(logger *slog.Logger, eventRepo domain.EventRepository) *EventController {
	return &EventController{
		Logger:    logger,
		EventRepo: eventRepo,
	}
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List all events
// @Description Returns every event in the catalog, oldest first.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.EventRepo.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}
