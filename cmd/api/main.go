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

	"contact-relay-backend/config"
	v1 "contact-relay-backend/internal/delivery/http/v1"
	"contact-relay-backend/internal/usecase"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/logger"
	"contact-relay-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	appLog := logger.Init(logger.Options{Level: level, File: cfg.LogFile})
	appLog.Info("Starting contact relay", "port", cfg.Port, "debug", cfg.Debug)
	for _, w := range cfg.Warnings() {
		appLog.Warn(w)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		appLog.Warn("Email service not fully configured - submissions will be accepted without notification")
	} else {
		appLog.Info("Email service configured", "smtp_host", cfg.SMTPHost, "smtp_port", cfg.SMTPPort, "recipient", emailService.Recipient())
	}

	// 4. Setup UseCases
	contactValidator := usecase.NewContactValidator(validation.New())
	contactUC := usecase.NewContactUsecase(contactValidator, emailService, appLog)
	healthUC := usecase.NewHealthUsecase(emailService)

	// 5. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Config:    cfg,
		Logger:    appLog,
	})

	// 6. Start Server
	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}

	appLog.Info("Server exiting")
}
