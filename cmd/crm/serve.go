package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dinamo-digital/crm-api/internal/api"
	"github.com/dinamo-digital/crm-api/internal/api/handler"
	"github.com/dinamo-digital/crm-api/internal/api/middleware"
	"github.com/dinamo-digital/crm-api/internal/core/service"
	"github.com/dinamo-digital/crm-api/internal/infrastructure/db/mongo"
	"github.com/dinamo-digital/crm-api/internal/infrastructure/db/postgres"
	"github.com/dinamo-digital/crm-api/internal/infrastructure/db/redis"
	"github.com/dinamo-digital/crm-api/internal/infrastructure/provider/email"
	"github.com/dinamo-digital/crm-api/internal/infrastructure/provider/whatsapp"
	"github.com/dinamo-digital/crm-api/internal/infrastructure/queue"
	"github.com/dinamo-digital/crm-api/internal/infrastructure/spreadsheet"
	"github.com/dinamo-digital/crm-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log := bootstrap()
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	// --- Storage ---
	db, err := openPostgres(ctx, cfg, logger.Component("postgres"))
	if err != nil {
		return err
	}
	defer closePostgres(db, log)
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	mongoClient, mongoDB, err := openMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	redisClient, err := openRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	// --- Repositories ---
	clientRepo := postgres.NewClientRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	opportunityRepo := postgres.NewOpportunityRepository(db)
	userRepo := postgres.NewUserRepository(db)
	messageRepo := mongo.NewMessageRepository(mongoDB)
	eventRepo := mongo.NewEventRepository(mongoDB)
	batchRepo := mongo.NewBatchRepository(mongoDB)

	// --- Providers ---
	whatsappClient := whatsapp.NewClient(whatsapp.Config{
		BaseURL: cfg.WhatsApp.APIURL,
		Token:   cfg.WhatsApp.Token,
		PhoneID: cfg.WhatsApp.PhoneID,
	})
	emailClient := email.NewClient(email.Config{
		BaseURL: cfg.Email.APIURL,
		APIKey:  cfg.Email.APIKey,
		From:    cfg.Email.From,
	})

	// --- Services ---
	svcLog := logger.Component("service")
	hub := handler.NewPipelineHub(cfg.CORS.AllowedOrigins, logger.Component("ws"))
	clients := service.NewClientService(clientRepo, svcLog)
	services := api.Services{
		Auth:          service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL),
		Clients:       clients,
		Sessions:      service.NewSessionService(sessionRepo, clientRepo, svcLog),
		Opportunities: service.NewOpportunityService(opportunityRepo, clientRepo, hub, svcLog),
		Transfer:      service.NewTransferService(clients, spreadsheet.NewXLSX(), svcLog),
		WhatsApp:      service.NewWhatsAppService(whatsappClient, messageRepo, batchRepo, svcLog),
		Email:         service.NewEmailService(emailClient, batchRepo, cfg.Email.BulkDelay, svcLog),
		Contact:       service.NewContactService(emailClient, cfg.Email.ContactInbox, svcLog),
	}

	// --- Webhook pipeline ---
	events := service.NewEventService(messageRepo, eventRepo, redis.NewDedupChecker(redisClient), logger.Component("events"))
	dispatcher := queue.NewDispatcher(cfg.WebhookWorkers, events, logger.Component("dispatcher"))
	dispatcher.Start(context.Background())

	e := api.NewRouter(services, api.Options{
		JWTSecret:            cfg.JWTSecret,
		TrustIdentityHeaders: cfg.TrustIdentityHeaders,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			DefaultOrigin:  cfg.CORS.DefaultOrigin,
		},
		WebhookVerifyToken: cfg.WhatsApp.VerifyToken,
		Webhook:            dispatcher,
		Pipeline:           hub,
		Checks: []handler.DependencyCheck{
			{Name: "postgres", Ping: pingPostgres(db)},
			{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
			{Name: "redis", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		},
		Logger: logger.Component("http"),
	})

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
	runErr := runHTTP(ctx, e, ":"+cfg.Port, log)
	hub.Close()

	// No webhook can enqueue once the server is down; apply what is queued.
	dispatcher.Stop()

	log.Info().Msg("shutdown complete")
	return runErr
}

type httpServer interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// runHTTP serves until ctx ends or the server fails, then shuts it down. A
// failure to serve is returned; a requested shutdown is not an error.
func runHTTP(ctx context.Context, srv httpServer, addr string, log zerolog.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	return runErr
}
