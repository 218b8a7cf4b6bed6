package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/file-lab/internal/config"
	"github.com/JaimeStill/file-lab/internal/files"
	"github.com/JaimeStill/file-lab/internal/storage"
	"github.com/JaimeStill/file-lab/internal/uploads"
	"github.com/JaimeStill/file-lab/migrations"
	"github.com/JaimeStill/file-lab/pkg/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

type Application struct {
	config *config.Config
	db     *sql.DB
	logger *slog.Logger
}

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Finalize(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	db, err := openDB(cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Up(db); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	app := &Application{
		config: cfg,
		db:     db,
		logger: logger,
	}

	handler, err := app.routes()
	if err != nil {
		logger.Error("failed to initialize routes", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	err = <-shutdownError
	if err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeoutDuration())
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (app *Application) uploadPipeline() (*files.Handler, error) {
	categories := uploads.NewCategorySet(
		app.config.Upload.ImageTypes,
		app.config.Upload.VideoTypes,
		app.config.Upload.DocumentTypes,
	)

	store, err := storage.New(app.config.Upload.BasePath, app.logger)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	if err := store.Init(categories.Dirs()...); err != nil {
		return nil, fmt.Errorf("prepare category directories: %w", err)
	}

	sys := files.New(app.db, store, app.logger)
	validator := uploads.NewValidator(app.config.Upload.MaxFileSizeBytes(), categories)
	orchestrator := uploads.NewOrchestrator(validator, store, sys, app.logger)

	return files.NewHandler(sys, orchestrator, app.logger, app.config.Upload.TmpDir), nil
}
