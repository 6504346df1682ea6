package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventlivechat/internal/delivery/http/helpers"
	"eventlivechat/internal/delivery/http/middleware"
	"eventlivechat/internal/domain"
)

type SubscriptionController struct {
	Logger       *slog.Logger
	Service      domain.SubscriptionService
	Confirmation domain.ConfirmationService
}

func NewSubscriptionController(logger *slog.Logger, svc domain.SubscriptionService, confirmation domain.ConfirmationService) *SubscriptionController {
	return &SubscriptionController{
		Logger:       logger,
		Service:      svc,
		Confirmation: confirmation,
	}
}

// SubscribeRequest is the request body for POST /events/{eventID}/subscriptions.
type SubscribeRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Validate implements helpers.Validator.
func (r *SubscribeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	return errs
}

// SubscribeSuccessResponse is the success response envelope for POST /events/{eventID}/subscriptions (201).
type SubscribeSuccessResponse struct {
	Data  *domain.Subscription `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Subscribe godoc
// @Summary Subscribe to an event
// @Description Registers the email for the event and sends a confirmation link. The same email keeps one access code across all of its subscriptions.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body controllers.SubscribeRequest true "Subscriber email and full name"
// @Success 201 {object} controllers.SubscribeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request | invalid_email"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_subscribed"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/subscriptions [post]
func (c *SubscriptionController) Subscribe(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}

	var req SubscribeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	sub, err := c.Service.Subscribe(r.Context(), req.Email, req.FullName, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidEmail, "invalid email format")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrAlreadySubscribed):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeAlreadySubscribed, "already subscribed to this event")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sub)
}

// ConfirmResponse is the data payload for GET /confirm/{subscriberID}/{eventID}.
type ConfirmResponse struct {
	Token   string `json:"token"`
	EventID string `json:"event_id"`
}

// ConfirmSuccessResponse is the success response envelope for GET /confirm/{subscriberID}/{eventID} (200).
type ConfirmSuccessResponse struct {
	Data  *ConfirmResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Confirm godoc
// @Summary Confirm a subscription via the emailed link
// @Description Validates the access code from the confirmation link, marks the subscriber confirmed, and returns a 7-day chat session token. The response also sets the access_code cookie.
// @Tags subscriptions
// @Produce json
// @Param subscriberID path string true "Subscriber ID"
// @Param eventID path string true "Event ID"
// @Param access_code query string true "Access code from the emailed link"
// @Success 200 {object} controllers.ConfirmSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: access_denied"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /confirm/{subscriberID}/{eventID} [get]
func (c *SubscriptionController) Confirm(w http.ResponseWriter, r *http.Request) {
	subscriberID := r.PathValue("subscriberID")
	eventID := r.PathValue("eventID")
	code := r.URL.Query().Get("access_code")

	token, err := c.Confirmation.Confirm(r.Context(), subscriberID, eventID, code)
	if err != nil {
		if errors.Is(err, domain.ErrAccessDenied) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeAccessDenied, "access denied")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCodeCookie,
		Value:    code,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	helpers.WriteJSONSuccess(w, http.StatusOK, &ConfirmResponse{Token: token, EventID: eventID})
}
