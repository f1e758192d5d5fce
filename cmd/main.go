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

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/RitamPal26/student-progress-site/codeforces"
	"github.com/RitamPal26/student-progress-site/config"
	"github.com/RitamPal26/student-progress-site/db"
	"github.com/RitamPal26/student-progress-site/handlers"
	"github.com/RitamPal26/student-progress-site/repositories"
	api "github.com/RitamPal26/student-progress-site/routes"
	"github.com/RitamPal26/student-progress-site/scheduler"
	"github.com/RitamPal26/student-progress-site/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Repositories
	studentRepo := repositories.NewPostgresStudentRepository(dbConn)
	contestRepo := repositories.NewPostgresContestRepository(dbConn)
	submissionRepo := repositories.NewPostgresSubmissionRepository(dbConn)
	logger.Info("repositories initialized")

	// Judge client
	judge := codeforces.NewHTTPClient(cfg.CodeforcesAPIBase)

	// Reminder channels: email is the primary, SMS optional. Either can be
	// left unconfigured.
	var emailSender, smsSender services.ReminderSender
	if cfg.EmailEnabled() {
		emailSender = services.NewEmailService(cfg)
		logger.Info("email reminders enabled", slog.String("smtp_host", cfg.SMTPHost))
	} else {
		logger.Warn("SMTP not configured, email reminders disabled")
	}
	if cfg.SMSEnabled() {
		smsSender = services.NewSMSService(cfg)
		logger.Info("sms reminders enabled")
	}
	notifier := services.NewStudentNotifier(emailSender, smsSender, logger)

	// Services
	syncService := services.NewSyncService(studentRepo, contestRepo, submissionRepo, judge, notifier, logger)
	studentService := services.NewStudentService(studentRepo, syncService)
	analyticsService := services.NewAnalyticsService(contestRepo, submissionRepo)
	logger.Info("services initialized")

	// HTTP handlers and routes
	studentHandler := handlers.NewStudentHandler(studentService)
	dataHandler := handlers.NewDataHandler(analyticsService)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.CORSOrigins, studentHandler, dataHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // create/sync endpoints wait on the judge
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		dailySync := scheduler.New(syncService, logger, cfg.SyncHour)
		if err := dailySync.Run(groupCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
