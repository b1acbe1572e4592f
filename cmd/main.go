package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/volleyball-tournament/config"
	"github.com/Dosada05/volleyball-tournament/db"
	"github.com/Dosada05/volleyball-tournament/handlers"
	"github.com/Dosada05/volleyball-tournament/hub"
	api "github.com/Dosada05/volleyball-tournament/routes"
	"github.com/Dosada05/volleyball-tournament/scheduler"
	"github.com/Dosada05/volleyball-tournament/services"
	"github.com/Dosada05/volleyball-tournament/storage"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("store", cfg.StoreDriver),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Подключение к хранилищу
	store, closeStore, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()
	logger.Info("store initialized")

	// Инициализация WebSocket Hub
	wsHub := hub.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	var notifier services.Notifier = wsHub
	if cfg.NATSURL != "" {
		relay, err := hub.NewNATSRelay(cfg.NATSURL, cfg.NATSSubject, wsHub, logger)
		if err != nil {
			logger.Error("failed to start NATS relay", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := relay.Close(); err != nil {
				logger.Error("failed to drain NATS connection", slog.Any("error", err))
			}
		}()
		notifier = relay
		logger.Info("NATS relay started", slog.String("subject", cfg.NATSSubject))
	}

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("Cloudflare R2 is not configured, standings export disabled")
	}

	// Инициализация сервисов
	standingsService := services.NewStandingsService(store.Teams)
	teamService := services.NewTeamService(store)
	matchService := services.NewMatchService(store, nil, logger)
	resultService := services.NewResultService(store, standingsService, notifier, logger)
	adminService := services.NewAdminService(store, notifier, logger)
	exportService := services.NewExportService(standingsService, uploader, logger)
	summaryService := services.NewSummaryService(store, standingsService, matchService)
	logger.Info("Services initialized")

	if err = adminService.EnsureDefaultAdmin(ctx, cfg.DefaultAdminCode); err != nil {
		logger.Error("failed to seed default admin code", slog.Any("error", err))
		os.Exit(1)
	}

	// Планировщик экспорта таблицы
	var exportScheduler *scheduler.Scheduler
	if cfg.ExportCron != "" && uploader != nil {
		exportScheduler = scheduler.NewScheduler(exportService, logger)
		if err = exportScheduler.Start(cfg.ExportCron); err != nil {
			logger.Error("failed to start export scheduler", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Team:      handlers.NewTeamHandler(teamService),
		Match:     handlers.NewMatchHandler(matchService, resultService),
		Admin:     handlers.NewAdminHandler(adminService, exportService, cfg.JWTSecretKey, cfg.AdminTokenTTL),
		Dashboard: handlers.NewDashboardHandler(standingsService, summaryService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins, logger),
	}
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, cfg.JWTSecretKey, cfg.CORSAllowedOrigins, logger)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			exitCode = 1
		} else {
			logger.Info("server shutdown complete")
		}
	}

	// экспорт может идти в момент падения сервера, ждём его на любом пути выхода
	if exportScheduler != nil {
		stopCtx, cancelStop := context.WithTimeout(context.Background(), shutdownTimeout)
		exportScheduler.Stop(stopCtx)
		cancelStop()
	}

	// останавливаем hub до закрытия хранилища
	stop()
	logger.Info("application exited")
	if exitCode != 0 {
		closeStore()
		os.Exit(exitCode)
	}
}
