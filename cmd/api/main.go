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

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mailista/contact-manager/api/internal/auth"
	"github.com/mailista/contact-manager/api/internal/config"
	"github.com/mailista/contact-manager/api/internal/database"
	"github.com/mailista/contact-manager/api/internal/handler"
	"github.com/mailista/contact-manager/api/internal/logging"
	middlewarepkg "github.com/mailista/contact-manager/api/internal/middleware"
	"github.com/mailista/contact-manager/api/internal/pipeline"
	"github.com/mailista/contact-manager/api/internal/repository"
	"github.com/mailista/contact-manager/api/internal/router"
	"github.com/mailista/contact-manager/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	contactsRepo := repository.NewPGXContactsRepository(pool)
	optOutRepo := repository.NewPGXOptOutRepository(pool)

	classifier := pipeline.NewClassifier(pipeline.DefaultLexicon())
	notifier := handler.NewImportNotifier(nil, cfg.NotifyBaseURL, logger)

	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo)
	contactsService := service.NewContactsService(contactsRepo)
	importService := service.NewImportService(contactsRepo, optOutRepo, classifier, notifier, logger, cfg.PhoneRegion, cfg.UpsertChunkSize)
	optOutService := service.NewOptOutService(optOutRepo)
	mergeService := service.NewMergeService(optOutRepo, classifier, cfg.MergePartSize)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Users:    handler.NewUserAdminHandler(userService),
		Contacts: handler.NewContactsHandler(contactsService),
		Imports:  handler.NewImportHandler(importService),
		OptOuts:  handler.NewOptOutHandler(optOutService),
		Merge:    handler.NewMergeHandler(mergeService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	logger.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
