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

	"github.com/billtrack/invoice-system/internal/api"
	"github.com/billtrack/invoice-system/internal/core/service"
	"github.com/billtrack/invoice-system/internal/infrastructure/config"
	mongodb "github.com/billtrack/invoice-system/internal/infrastructure/db/mongo"
	redisdb "github.com/billtrack/invoice-system/internal/infrastructure/db/redis"
	"github.com/billtrack/invoice-system/internal/infrastructure/mail"
	"github.com/billtrack/invoice-system/internal/notification"
	"github.com/billtrack/invoice-system/internal/scheduler"
	"github.com/billtrack/invoice-system/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return fmt.Errorf("mongodb connection failed: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	userRepo := mongodb.NewUserRepository(db)
	invoiceRepo := mongodb.NewInvoiceRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := invoiceRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("invoice indexes: %w", err)
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 7*24*time.Hour)
	invoiceService := service.NewInvoiceService(invoiceRepo, userRepo, log)
	accountService := service.NewAccountService(userRepo, log)

	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	dispatcher := notification.NewDispatcher(mailer, invoiceRepo, cfg.SMTP.From, log)
	runLock := redisdb.NewRunLock(rdb)
	reminderService := service.NewReminderService(
		invoiceRepo,
		userRepo,
		dispatcher,
		runLock,
		cfg.Reminder.AdminEmail,
		cfg.Reminder.Workers,
		log,
	)

	// --- Background scheduler ---
	sched := scheduler.New(reminderService, cfg.Reminder.RunHours, log)
	sched.Start(ctx)
	defer sched.Stop()

	// --- HTTP surface ---
	e := api.NewRouter(api.Deps{
		Logger:     log,
		JWTSecret:  cfg.JWTSecret,
		CronSecret: cfg.Reminder.CronSecret,
		Mongo:      db,
		Redis:      rdb,
		Auth:       authService,
		Invoices:   invoiceService,
		Accounts:   accountService,
		Reminders:  reminderService,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
