package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"beewise-preorder-go/internal/config"
	"beewise-preorder-go/internal/db"
	"beewise-preorder-go/internal/handlers"
	"beewise-preorder-go/internal/mailer"
	"beewise-preorder-go/internal/metrics"
	"beewise-preorder-go/internal/repository"
	"beewise-preorder-go/internal/server"
	"beewise-preorder-go/internal/service"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting BeeWise Preorder Service")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	dbConn, err := db.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	transport, err := mailer.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create mail transport: %w", err)
	}
	if cfg.UseSMTP() {
		logrus.Info("Using SMTP for outgoing mail")
	} else {
		logrus.Info("Using Gmail API for outgoing mail")
	}

	repo := repository.New(dbConn)
	svc := service.New(repo, transport, m)

	h := handlers.NewHandlers(svc)
	router := server.SetupRouter(h, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	if !svc.DrainSends(10 * time.Second) {
		logrus.Warn("Timed out waiting for in-flight confirmation emails")
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
