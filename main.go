package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/camden-git/traveldiary/config"
	"github.com/camden-git/traveldiary/database"
	"github.com/camden-git/traveldiary/handlers"
	"github.com/camden-git/traveldiary/media"
	"github.com/camden-git/traveldiary/repository"
	"github.com/camden-git/traveldiary/services"
)

func newLogger(cfg config.Config) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func main() {
	seed := flag.Bool("seed", false, "insert placeholder entries into an empty database and exit")
	flag.Parse()

	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *seed, logger); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}

func run(ctx context.Context, cfg config.Config, seedOnly bool, logger *zap.SugaredLogger) error {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.RunMigrations(ctx, db, logger); err != nil {
		return err
	}

	store, err := media.NewStore(ctx, media.StoreOptions{
		UploadsPath: cfg.UploadsPath,
		RemoteURL:   cfg.RemoteStorageURL(),
		Folder:      cfg.StorageFolder,
	}, logger)
	if err != nil {
		return err
	}
	logger.Infow("media storage selected", "backend", store.Name(), "kind", store.Kind())

	entryService := services.NewEntryService(repository.NewEntryRepository(db), store, services.EntryServiceConfig{
		MaxFiles:       cfg.MaxFilesPerEntry,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		ExifAutofill:   cfg.ExifAutofill,
	}, logger)

	if seedOnly {
		_, err := entryService.Seed(ctx)
		return err
	}

	gate := services.NewAdminGate(cfg.AdminPassword, cfg.AdminPasswordHash)
	if !gate.Configured() {
		logger.Warnw("ADMIN_PASSWORD is not set; mutating requests will fail")
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handlers.NewRouter(handlers.RouterDeps{
			Cfg:     cfg,
			Entries: entryService,
			Gate:    gate,
			Logger:  logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Desugar()),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("server listening", "addr", server.Addr, "database", cfg.DatabasePath, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
