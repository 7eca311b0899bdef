package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bosun-marine/bosun-engine/pkg/actions"
	"github.com/bosun-marine/bosun-engine/pkg/capability"
	"github.com/bosun-marine/bosun-engine/pkg/classify"
	"github.com/bosun-marine/bosun-engine/pkg/config"
	"github.com/bosun-marine/bosun-engine/pkg/database"
	"github.com/bosun-marine/bosun-engine/pkg/extract"
	"github.com/bosun-marine/bosun-engine/pkg/gazetteer"
	"github.com/bosun-marine/bosun-engine/pkg/handlers"
	"github.com/bosun-marine/bosun-engine/pkg/logging"
	"github.com/bosun-marine/bosun-engine/pkg/middleware"
	"github.com/bosun-marine/bosun-engine/pkg/search"
	"github.com/bosun-marine/bosun-engine/pkg/services"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx := context.Background()

	// Migrations run over database/sql as golang-migrate requires.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Pipeline wiring, leaves first.
	provider, err := gazetteer.NewProvider(cfg.Search.TypePrecedence, logger)
	if err != nil {
		logger.Fatal("Failed to load gazetteer", zap.Error(err))
	}

	catalog := capability.Catalog()
	if err := capability.ValidateCatalog(catalog); err != nil {
		logger.Fatal("Capability catalog invalid", zap.Error(err))
	}

	actionCatalog, err := actions.LoadCatalog()
	if err != nil {
		logger.Fatal("Failed to load action catalog", zap.Error(err))
	}

	searchService := services.NewSearchService(
		extract.NewExtractor(provider, logger),
		classify.NewClassifier(cfg.Search.DomainConfidenceThreshold, logger),
		capability.NewComposer(catalog, logger),
		search.NewExecutor(db, search.Options{
			MinResultsPerTier: cfg.Search.MinResultsPerTier,
			PerTableTimeout:   time.Duration(cfg.Search.PerTableQueryTimeoutMS) * time.Millisecond,
			PerTableLimit:     cfg.Search.PerTableLimit,
		}, logger),
		actions.NewGate(actionCatalog),
		logger,
	)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg).RegisterRoutes(mux)
	handlers.NewSearchHandler(searchService, cfg.Search.ResultLimit, logger).RegisterRoutes(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	server := &http.Server{
		Addr:    addr,
		Handler: middleware.RequestLogger(logger)(mux),
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		logger.Info("Starting bosun-engine", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
