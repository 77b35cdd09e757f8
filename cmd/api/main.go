package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/noah-isme/e-surat-api/internal/handler"
	"github.com/noah-isme/e-surat-api/internal/repository"
	"github.com/noah-isme/e-surat-api/internal/router"
	"github.com/noah-isme/e-surat-api/internal/service"
	"github.com/noah-isme/e-surat-api/pkg/cache"
	"github.com/noah-isme/e-surat-api/pkg/config"
	"github.com/noah-isme/e-surat-api/pkg/database"
	"github.com/noah-isme/e-surat-api/pkg/jobs"
	"github.com/noah-isme/e-surat-api/pkg/logger"
	"github.com/noah-isme/e-surat-api/pkg/mailer"
	"github.com/noah-isme/e-surat-api/pkg/storage"
)

// @title E-Surat API
// @version 1.0.0
// @description Letter registry: incoming/outgoing correspondence, dispositions, calendar and reminders
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	letterFiles, err := storage.NewLocalStorage(cfg.Uploads.BaseDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}
	reportFiles, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare report storage", "error", err)
	}

	mailClient := mailer.NewClient(cfg.Mail)
	mailQueue := jobs.NewQueue("mail", service.NewMailDispatcher(mailClient, logr), jobs.QueueConfig{
		Workers:    2,
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	})
	mailQueue.Start(ctx)
	defer mailQueue.Stop()

	letterRepo := repository.NewLetterRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	dispositionRepo := repository.NewDispositionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	metrics := service.NewMetricsService()
	notificationSvc := service.NewNotificationService(notificationRepo, mailQueue, redisClient, logr)
	projector := service.NewCalendarProjector(calendarRepo, logr)
	letterSvc := service.NewLetterService(letterRepo, projector, dispositionRepo, letterFiles, notificationSvc, logr)
	dispositionSvc := service.NewDispositionService(dispositionRepo, letterRepo, logr)
	calendarSvc := service.NewCalendarService(calendarRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWT, logr)
	reportSvc := service.NewReportService(letterRepo, reportFiles,
		storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL), logr)

	reminderSvc := service.NewReminderService(calendarRepo, letterRepo, notificationSvc, metrics, cfg.Reminders, logr)
	reminderSvc.Start(ctx)

	engine := router.New(router.Deps{
		Config:        cfg,
		Logger:        logr,
		Metrics:       metrics,
		AuthService:   authSvc,
		Auth:          handler.NewAuthHandler(authSvc),
		Letters:       handler.NewLetterHandler(letterSvc, cfg.Uploads),
		Dispositions:  handler.NewDispositionHandler(dispositionSvc),
		Calendar:      handler.NewCalendarHandler(calendarSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Reports:       handler.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
