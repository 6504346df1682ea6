package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"eventlivechat/internal/delivery/http/helpers"
	"eventlivechat/internal/delivery/http/middleware"
	"eventlivechat/internal/domain"
)

type ChatController struct {
	Logger      *slog.Logger
	Authorizer  domain.Authorizer
	MessageRepo domain.MessageRepository
}

func NewChatController(logger *slog.Logger, authorizer domain.Authorizer, messageRepo domain.MessageRepository) *ChatController {
	return &ChatController{
		Logger:      logger,
		Authorizer:  authorizer,
		MessageRepo: messageRepo,
	}
}

// MessageHistoryItem is an item in the response for GET /events/{eventID}/messages.
type MessageHistoryItem struct {
	Content       string `json:"content"`
	SenderInitial string `json:"sender_initial"`
	CreatedAt     string `json:"created_at"`
}

// ListMessagesSuccessResponse is the success response envelope for GET /events/{eventID}/messages (200).
type ListMessagesSuccessResponse struct {
	Data  []MessageHistoryItem `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListMessages godoc
// @Summary Get the chat history of an event room
// @Description Returns the room's messages in creation order. The caller must present a valid access code (query parameter, Bearer session token, or cookie) belonging to a confirmed subscriber of this event.
// @Tags chat
// @Produce json
// @Param eventID path string true "Event ID"
// @Param access_code query string false "Access code"
// @Security BearerAuth
// @Success 200 {object} controllers.ListMessagesSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: access_denied"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/messages [get]
func (c *ChatController) ListMessages(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	code, _ := middleware.AccessCodeFromContext(r.Context())

	// Same predicate as the realtime path; a missing code denies uniformly.
	if _, err := c.Authorizer.Authorize(r.Context(), eventID, code); err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeAccessDenied, "access denied")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	messages, err := c.MessageRepo.ListByEventID(r.Context(), eventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	items := make([]MessageHistoryItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, MessageHistoryItem{
			Content:       m.Message.Content,
			SenderInitial: m.SenderInitial,
			CreatedAt:     m.Message.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}
