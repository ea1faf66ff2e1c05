package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bibbank/finboard/internal/application/usecase"
	"github.com/bibbank/finboard/internal/domain/port"
	"github.com/bibbank/finboard/internal/domain/service"
	"github.com/bibbank/finboard/internal/infrastructure/config"
	"github.com/bibbank/finboard/internal/infrastructure/dwolla"
	"github.com/bibbank/finboard/internal/infrastructure/fraudlabs"
	"github.com/bibbank/finboard/internal/infrastructure/memory"
	"github.com/bibbank/finboard/internal/infrastructure/messaging"
	"github.com/bibbank/finboard/internal/infrastructure/metrics"
	"github.com/bibbank/finboard/internal/infrastructure/plaid"
	"github.com/bibbank/finboard/internal/infrastructure/postgres"
	grpcpresentation "github.com/bibbank/finboard/internal/presentation/grpc"
	"github.com/bibbank/finboard/internal/presentation/rest"
	"github.com/bibbank/finboard/pkg/auth"
	pkgkafka "github.com/bibbank/finboard/pkg/kafka"
	"github.com/bibbank/finboard/pkg/observability"
	"github.com/bibbank/finboard/pkg/openbanking"
	pkgpostgres "github.com/bibbank/finboard/pkg/postgres"
	"github.com/bibbank/finboard/pkg/tlsutil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("finboardd exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "finboard",
	})

	logger.Info("starting finboardd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"environment", cfg.Environment,
	)

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: "finboard",
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    !cfg.IsProduction(),
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdownTracer(context.Background()) }()
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics()
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	observer, err := metrics.NewObserver(meterProvider)
	if err != nil {
		return fmt.Errorf("create evaluation observer: %w", err)
	}

	// Persistence.
	var (
		assessmentRepo port.AssessmentRepository
		bankRepo       port.BankRepository
		transferRepo   port.TransferRepository
		checks         = map[string]rest.ReadinessCheck{}
	)
	if cfg.DatabaseURL != "" {
		pool, err := pkgpostgres.NewPool(ctx, cfg.DatabaseURL, pkgpostgres.PoolOptions{MaxConns: 10})
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("connected to database")

		if cfg.DBAutoMigrate {
			if err := pkgpostgres.RunMigrations(cfg.DatabaseURL, postgres.Migrations, postgres.MigrationsDir); err != nil {
				return err
			}
			logger.Info("database migrations applied")
		}

		assessmentRepo = postgres.NewAssessmentRepository(pool)
		bankRepo = postgres.NewBankRepository(pool)
		transferRepo = postgres.NewTransferRepository(pool)
		checks["database"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		assessmentRepo = memory.NewAssessmentRepository()
		bankRepo = memory.NewBankRepository()
		transferRepo = memory.NewTransferRepository()
	}

	// Messaging.
	var publisher port.EventPublisher
	if cfg.KafkaBroker != "" {
		producer, err := pkgkafka.NewProducer(pkgkafka.Config{
			Brokers:  strings.Split(cfg.KafkaBroker, ","),
			ClientID: "finboardd",
		})
		if err != nil {
			return err
		}
		defer func() { _ = producer.Close() }()
		publisher = messaging.NewKafkaPublisher(producer, cfg.KafkaTopic, logger)
	} else {
		logger.Warn("KAFKA_BROKER not set, domain events are logged only")
		publisher = messaging.NewLogPublisher(logger)
	}

	// External providers.
	var screener port.FraudScreeningClient
	if cfg.FraudLabsConfigured() {
		screener = fraudlabs.NewClient(fraudlabs.Config{
			APIKey:              cfg.FraudLabs.APIKey,
			BaseURL:             cfg.FraudLabs.BaseURL,
			Timeout:             cfg.FraudLabs.Timeout,
			RateLimit:           cfg.FraudLabs.RateLimit,
			CacheTTL:            cfg.FraudLabs.CacheTTL,
			BreakerThreshold:    cfg.FraudLabs.BreakerThreshold,
			BreakerOpenDuration: cfg.FraudLabs.BreakerOpenDuration,
		}, logger)
	} else {
		logger.Warn("FRAUDLABS_API_KEY not set, fraud scores come from the local heuristic")
	}

	plaidCfg := openbanking.DefaultPlaidConfig()
	plaidCfg.ClientID = cfg.Plaid.ClientID
	plaidCfg.Secret = cfg.Plaid.Secret
	plaidCfg.BaseURL = cfg.Plaid.BaseURL
	plaidClient := plaid.NewClient(plaidCfg, nil, logger)
	if !cfg.PlaidConfigured() {
		logger.Warn("Plaid credentials not set, account endpoints serve demo data")
	}

	railsClient, err := dwolla.NewClient(openbanking.RailsConfig{
		Key:         cfg.Dwolla.Key,
		Secret:      cfg.Dwolla.Secret,
		Environment: cfg.Dwolla.Environment,
		BaseURL:     cfg.Dwolla.BaseURL,
	}, nil, logger)
	if err != nil {
		return err
	}
	if !cfg.DwollaConfigured() {
		logger.Warn("Dwolla credentials not set, transfers are recorded as simulated")
	}

	// Domain services.
	rnd := service.DefaultRandom()
	if cfg.RandomSeed != 0 {
		rnd = service.NewSeededRandom(cfg.RandomSeed)
	}
	evaluator := service.NewEvaluator(screener, service.NewHeuristicScorer(rnd), observer, logger)

	// Use cases.
	evaluateUC := usecase.NewEvaluateTransaction(evaluator, assessmentRepo, publisher, logger)
	getUC := usecase.NewGetAssessment(assessmentRepo)
	listUC := usecase.NewListAssessments(assessmentRepo)
	classifyUC := usecase.NewClassifyScore()

	jwtService, err := newJWTService(cfg)
	if err != nil {
		return err
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewFraudServiceHandler(evaluateUC, getUC, listUC, classifyUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger, jwtService)
	if err != nil {
		return err
	}

	// HTTP server.
	router := rest.NewRouter(rest.RouterConfig{
		Fraud: rest.NewFraudHandler(evaluateUC, getUC, listUC, classifyUC, logger),
		Banks: rest.NewBankHandler(
			usecase.NewCreateLinkToken(plaidClient),
			usecase.NewExchangePublicToken(plaidClient, bankRepo),
			usecase.NewAccountReader(plaidClient, bankRepo, transferRepo, logger),
			logger,
		),
		Transfers: rest.NewTransferHandler(
			usecase.NewCreateTransfer(railsClient, bankRepo, transferRepo, publisher, logger),
			usecase.NewGetTransfer(transferRepo),
			logger,
		),
		Health:       rest.NewHealthHandler(cfg.FraudLabsConfigured() && cfg.PlaidConfigured(), checks),
		Metrics:      metricsHandler,
		JWT:          jwtService,
		RateLimitRPS: cfg.HTTPRateLimit,
		Logger:       logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if cfg.TLSCertFile != "" {
		tlsCfg, err := tlsutil.LoadServerConfig(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			return err
		}
		httpServer.TLSConfig = tlsCfg
	}

	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress(), "tls", httpServer.TLSConfig != nil)
		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("finboardd started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"remote_screening", screener != nil,
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	logger.Info("shutting down finboardd")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	grpcServer.Stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("finboardd stopped")
	return runErr
}

func newJWTService(cfg *config.Config) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Expiration: time.Hour,
	}
	if cfg.JWTPublicKeyFile != "" {
		pem, err := auth.LoadKeyFromFile(cfg.JWTPublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = pem
	}
	return auth.NewJWTService(jwtCfg)
}
