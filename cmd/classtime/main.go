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

	"go.uber.org/zap"

	"github.com/example/classtime/internal/application"
	"github.com/example/classtime/internal/config"
	httptransport "github.com/example/classtime/internal/http"
	"github.com/example/classtime/internal/logging"
	"github.com/example/classtime/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Environment)
	defer func() { _ = logger.Sync() }()

	location, err := cfg.Location()
	if err != nil {
		logger.Error("failed to resolve organization timezone", zap.Error(err))
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", zap.Error(cerr))
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", zap.Error(err))
		os.Exit(1)
	}

	scheduleRepo := sqlite.NewScheduleRepository(storage)
	lessonRepo := sqlite.NewLessonRepository(storage)
	directoryRepo := sqlite.NewDirectoryRepository(storage)

	detector := application.NewConflictDetector(scheduleRepo, lessonRepo)
	scheduleService := application.NewScheduleService(scheduleRepo, directoryRepo, detector, nil, nil, cfg.HorizonMonths, logger)
	lessonService := application.NewLessonService(lessonRepo, scheduleRepo, directoryRepo, detector, nil, nil, location, logger)
	directoryService := application.NewDirectoryService(directoryRepo, nil, nil, logger)

	router := httptransport.NewRouter(
		httptransport.NewScheduleHandler(scheduleService, lessonService, logger),
		httptransport.NewLessonHandler(lessonService, logger),
		httptransport.NewDirectoryHandler(directoryService, logger),
		logger,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", zap.Error(err))
		}
	}()

	logger.Info("classtime API listening", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", zap.Error(err))
		os.Exit(1)
	}
}
