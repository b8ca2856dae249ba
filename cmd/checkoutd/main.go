package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/smart-checkout/internal/application/usecase"
	"github.com/bibbank/smart-checkout/internal/domain/service"
	"github.com/bibbank/smart-checkout/internal/infrastructure/config"
	"github.com/bibbank/smart-checkout/internal/infrastructure/metrics"
	"github.com/bibbank/smart-checkout/internal/infrastructure/settlement"
	grpcpresentation "github.com/bibbank/smart-checkout/internal/presentation/grpc"
	"github.com/bibbank/smart-checkout/internal/presentation/rest"
	"github.com/bibbank/smart-checkout/pkg/observability"
)

const serviceName = "smart-checkout"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Service:     serviceName,
		Environment: cfg.Environment,
	})

	logger.Info("starting smart-checkout",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"pending_store", cfg.PendingStore,
	)

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TraceConfig{
			ServiceName:  serviceName,
			Environment:  cfg.Environment,
			OTLPEndpoint: cfg.OTLPEndpoint,
			Insecure:     true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdownTracer(context.Background()) //nolint:errcheck
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background()) //nolint:errcheck

	rules, err := loadRules(cfg)
	if err != nil {
		logger.Error("failed to load risk rules", "error", err)
		os.Exit(1)
	}
	mode, err := service.ParseStepUpMode(cfg.StepUpMode)
	if err != nil {
		logger.Error("invalid step-up mode", "error", err)
		os.Exit(1)
	}

	checks := make(map[string]rest.ReadinessCheck)

	store, pendingCount, closeStore, err := buildPendingStore(ctx, cfg, checks, logger)
	if err != nil {
		logger.Error("failed to initialize pending store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	checkoutMetrics, err := metrics.NewCheckoutMetrics(meterProvider.Meter(metrics.MeterName), pendingCount)
	if err != nil {
		logger.Error("failed to create checkout metrics", "error", err)
		os.Exit(1)
	}

	records, closeRecords, err := buildRecordRepository(ctx, cfg, checks, logger)
	if err != nil {
		logger.Error("failed to initialize audit store", "error", err)
		os.Exit(1)
	}
	defer closeRecords()

	publisher, closePublisher, err := buildPublisher(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize event publisher", "error", err)
		os.Exit(1)
	}
	defer closePublisher()

	// Wire domain services.
	narratives := service.NewNarrativeGenerator(buildNarrativeClient(cfg, logger), cfg.NarrativeTimeout, checkoutMetrics, logger)
	orchestrator := service.NewCheckoutOrchestrator(
		service.NewRiskEngine(narratives, logger),
		service.NewChallengeCoordinator(service.DefaultChallengeConfig(), nil),
		store,
		service.NewSettlementRouter(settlement.All(logger)...),
		rules,
		mode,
		logger,
	)

	// Wire use cases.
	defaults := usecase.TransactionDefaults{Currency: cfg.HomeCurrency, IPCountry: cfg.HomeCountry}
	initiateUC := usecase.NewInitiateCheckout(orchestrator, records, publisher, checkoutMetrics, defaults, logger)
	submitUC := usecase.NewSubmitChallenge(orchestrator, records, publisher, checkoutMetrics, logger)
	statusUC := usecase.NewGetNarrativeStatus(narratives, usecase.NarrativeSettings{
		Model:          cfg.OpenAIModel,
		BaseURL:        cfg.OpenAIBaseURL,
		APIKeyProvided: cfg.OpenAIAPIKey != "",
	})

	// gRPC server.
	grpcHandler := grpcpresentation.NewCheckoutServiceHandler(initiateUC, submitUC, statusUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.GRPCTLSCertFile,
		TLSKeyFile:  cfg.GRPCTLSKeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server.
	httpServer := rest.NewServer(
		cfg.HTTPAddress(),
		rest.NewCheckoutHandler(initiateUC, submitUC, statusUC, logger),
		rest.NewHealthHandler(logger, checks),
		metricsHandler,
		logger,
	)

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("smart-checkout started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"rules", len(rules.Rules),
		"step_up_mode", string(mode),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	logger.Info("shutting down smart-checkout")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("smart-checkout stopped")
}
