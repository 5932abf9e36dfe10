package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senyabanana/partner-service/internal/db"
	"github.com/senyabanana/partner-service/internal/handlers"
	"github.com/senyabanana/partner-service/internal/logger"
	"github.com/senyabanana/partner-service/internal/repository"
	"github.com/senyabanana/partner-service/internal/router"
	"github.com/senyabanana/partner-service/internal/router/config"
	"github.com/senyabanana/partner-service/internal/services"
	"github.com/senyabanana/partner-service/internal/upload"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("cannot create logger:", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	runDBMigration(zapLogger, cfg.MigrationURL, db.ConnString(cfg))

	if err = upload.EnsureDir(cfg.UploadDir); err != nil {
		zapLogger.Fatal("cannot prepare upload directory", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		zapLogger.Fatal("error initializing database", zap.Error(err))
	}
	defer dbPool.Close()

	partnerRepo := repository.NewPostgresPartnerRepository(dbPool)
	offerRepo := repository.NewPostgresOfferRepository(dbPool)

	partnerService := services.NewPartnerService(partnerRepo, offerRepo)

	ingestor := upload.NewIngestor(cfg.UploadDir, handlers.PartnerFileFields...)
	partnerHandler := handlers.NewPartnerHandler(partnerService, ingestor, zapLogger, cfg.RequestTimeout, cfg.MaxUploadSize)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.InitRoutes(partnerHandler, cfg.UploadDir, zapLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("server is listening", zap.String("addr", cfg.ServerAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}

func runDBMigration(zapLogger *zap.Logger, migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		zapLogger.Fatal("cannot create a new migrate instance", zap.Error(err))
	}

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		zapLogger.Fatal("failed to run migrate up", zap.Error(err))
	}
	zapLogger.Info("db migrated successfully")
}
