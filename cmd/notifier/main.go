package main

import (
	"chat-notify/auth"
	"chat-notify/contract"
	"chat-notify/infrastructure/chatkit"
	"chat-notify/infrastructure/http/server"
	"chat-notify/infrastructure/push"
	"chat-notify/internal"
	"chat-notify/moderation"
	"chat-notify/observability"
	"chat-notify/repositories"
	"chat-notify/runtime"
	"chat-notify/runtime/workers"
	"chat-notify/services"
	"chat-notify/sink"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Notifier terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Deferred cleanups (journal, health server) run before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	// A missing .env file is fine, the environment may already be populated.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	credentials, err := auth.ParseCredentials(config.InstanceLocator, config.SecretKey)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Delivery journal (BadgerDB), optional
	monitoring := observability.NewMonitoringManager(logger)
	sinks := []contract.DeliverySink{monitoring}
	var deliveryRepository repositories.IDeliveryRepository

	if config.BadgerFilepath != "" {
		db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			logger.Info("Closing BadgerDB...")
			_ = db.Close()
		}()

		if logger.Enabled(ctx, slog.LevelDebug) {
			endpoint := "/inspect"
			logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
			database.StartDebugServer(db, config.DebugPort, endpoint, repositories.DeliveryMapper)
		}

		repository := repositories.NewDeliveryRepository(db, logger, config.DeliveryPageSize, config.DeliveryTTL)
		deliveryRepository = repository
		sinks = append(sinks, sink.NewJournalSink(repository, logger))
	} else {
		logger.Info("Delivery journal disabled")
	}

	// 3. Preview moderation, optional
	var sanitizer services.Sanitizer
	if config.CensoredDir != "" {
		data, err := runtime.NewCensoredLoader(os.DirFS(config.CensoredDir)).LoadAll(".")
		if err != nil {
			return exitConfig, fmt.Errorf("censored words loading failed: %w", err)
		}
		moderator, err := moderation.NewModerator(data.Words, charReplacement, logger)
		if err != nil {
			return exitConfig, err
		}
		logger.Info("Preview moderation enabled", "words", len(data.Words), "lists", data.Languages)
		sanitizer = moderator
	}

	// 4. Chat service, push provider & pipeline
	issuer := auth.NewTokenIssuer(credentials, config.AuthTokenDuration)
	chatClient := chatkit.NewClient(config.ChatAPIURL, chatkit.ServiceTokens{Issuer: issuer},
		&http.Client{Timeout: config.LookupTimeout}, logger)
	chat := chatkit.NewService(chatClient)

	provider := push.NewFCMClient(config.FCMURL, config.FCMServerKey, &http.Client{Timeout: config.DeliveryTimeout}, logger)
	fanout := workers.NewDeliveryFanout(logger, config.SinkTimeout, sinks...)
	dispatcher := workers.NewPushDispatcher(logger, provider, fanout, config.DeliveryTimeout)

	resolver := services.NewRecipientResolver(logger, chat, sanitizer, config.PreviewMaxLength)
	router := services.NewNotificationService(logger, resolver)

	sup := workers.NewSupervisor(logger, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(logger, sup, router, dispatcher, monitoring,
		config.NumberOfWorkers, config.BufferSize, config.ResolveTimeout)

	// 5. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 3)

	go func() {
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 6. gRPC health service, optional
	var healthServer *health.Server
	if config.GRPCHealthPort > 0 {
		grpcServer, hs, err := startHealthServer(config.GRPCHealthPort, logger, errChan)
		if err != nil {
			return exitRuntime, err
		}
		healthServer = hs
		defer grpcServer.GracefulStop()
	}

	// 7. HTTP server
	handler := server.NewHandler(logger, server.Dependencies{
		Webhooks:   services.NewWebhookService(logger, orchestrator, monitoring),
		Auth:       services.NewAuthService(issuer, logger),
		Chat:       services.NewChatService(logger, chat, config.DefaultDeviceToken),
		Queue:      orchestrator,
		Monitoring: monitoring,
		Deliveries: deliveryRepository,
	})
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr: address,
		Handler: server.NewRouter(logger, handler, server.RouterConfig{
			WebhookSecret:   []byte(config.WebhookSecret),
			SignatureHeader: config.SignatureHeader,
			MaxBodySize:     config.MaxBodySize,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	if healthServer != nil {
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 9. Graceful shutdown: stop accepting webhooks, then let fired pushes complete.
	logger.Info("Shutting down gracefully...")
	if healthServer != nil {
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", "error", err)
	}
	orchestrator.Stop()
	fanout.Wait()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func startHealthServer(port int, logger *slog.Logger, errChan chan<- error) (*grpc.Server, *health.Server, error) {
	address := fmt.Sprintf("0.0.0.0:%d", port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	go func() {
		logger.Info("Starting gRPC health server", "address", address)
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC health server error: %w", err)
		}
	}()
	return s, hs, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}
