package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventlivechat/internal/delivery/http/controllers"
	"eventlivechat/internal/delivery/http/middleware"
	"eventlivechat/internal/delivery/ws"
	"eventlivechat/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	eventController *controllers.EventController,
	subscriptionController *controllers.SubscriptionController,
	chatController *controllers.ChatController,
	chatHandler *ws.Handler,
	sessionVerifier domain.SessionTokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	withAccessCode := middleware.ResolveAccessCode(sessionVerifier)

	// Events and subscriptions
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events/{eventID}/subscriptions", subscriptionController.Subscribe)
	mux.HandleFunc("GET /confirm/{subscriberID}/{eventID}", subscriptionController.Confirm)

	// Chat
	mux.HandleFunc("GET /events/{eventID}/messages", withAccessCode(chatController.ListMessages))
	mux.HandleFunc("GET /events/{eventID}/chat", chatHandler.ServeChat)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
