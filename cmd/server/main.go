package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventlivechat/config"
	"eventlivechat/internal/adapters/auth"
	"eventlivechat/internal/adapters/catalog"
	"eventlivechat/internal/adapters/email"
	"eventlivechat/internal/adapters/qrcode"
	"eventlivechat/internal/chat"
	httpdelivery "eventlivechat/internal/delivery/http"
	"eventlivechat/internal/delivery/http/controllers"
	"eventlivechat/internal/delivery/http/middleware"
	"eventlivechat/internal/delivery/ws"
	"eventlivechat/internal/repository/postgres"
	"eventlivechat/internal/services"
)

// @title Event Live Chat API
// @version 1.0
// @description Event subscriptions with email confirmation and access-code gated live chat rooms.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	subscriberRepo := postgres.NewSubscriberRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	messageRepo := postgres.NewMessageRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.MailFrom,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKey,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	sessions := auth.NewJWTSessions(cfg.SessionSecret)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), qrcode.NewGenerator(), logger)
	codeIssuer := services.NewAccessCodeIssuer(subscriberRepo)
	subscriptionService := services.NewSubscriptionService(eventRepo, subscriberRepo, subscriptionRepo, codeIssuer, emailService, cfg.BaseURL, logger)
	confirmationService := services.NewConfirmationService(subscriberRepo, sessions)
	authorizer := services.NewAuthorizeService(subscriberRepo, subscriptionRepo)
	broadcaster := chat.NewBroadcaster(authorizer, messageRepo, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.CatalogFeedURL != "" {
		catalogService := services.NewCatalogService(
			catalog.NewCSVFetcher(&http.Client{Timeout: 30 * time.Second}, cfg.CatalogFeedURL),
			eventRepo,
			logger,
		)
		go services.RunCatalogSync(ctx, catalogService, cfg.CatalogSyncInterval, logger)
	}

	mux := httpdelivery.NewRouter(
		controllers.NewEventController(logger, eventRepo),
		controllers.NewSubscriptionController(logger, subscriptionService, confirmationService),
		controllers.NewChatController(logger, authorizer, messageRepo),
		ws.NewHandler(broadcaster, cfg.AllowedOrigins, logger),
		sessions,
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "err", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
