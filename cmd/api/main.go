package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/okurimukae/dispatch/internal/application/dispatch"
	"github.com/okurimukae/dispatch/internal/config"
	"github.com/okurimukae/dispatch/internal/infrastructure/dynamo"
	"github.com/okurimukae/dispatch/internal/infrastructure/fcm"
	"github.com/okurimukae/dispatch/internal/infrastructure/postgres"
	"github.com/okurimukae/dispatch/internal/pkg/logger"
	"github.com/okurimukae/dispatch/internal/realtime"
	transporthttp "github.com/okurimukae/dispatch/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	// Config is validated before any I/O: a missing secret fails here,
	// with no partial side effects.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	account, key, err := fcm.ParseServiceAccount(cfg.FCMServiceAccount)
	if err != nil {
		zlog.Fatal("FCM service account", zap.Error(err))
	}
	gateway := fcm.NewGateway(account, key, zlog)

	db, err := postgres.NewDB(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("database", zap.Error(err))
	}
	directory := postgres.NewDirectory(db)

	// Delivery log is optional; the dispatcher runs without it.
	var deliveryRepo *dynamo.DeliveryRepo
	if cfg.DeliveryLogEnabled {
		if client, err := dynamo.NewClient(cfg); err == nil {
			dynamo.Bootstrap(context.Background(), client, cfg.DeliveriesTable, zlog)
			deliveryRepo = dynamo.NewDeliveryRepo(client, cfg.DeliveriesTable)
		} else {
			zlog.Warn("delivery log not available", zap.Error(err))
		}
	}

	hub := realtime.NewHub(zlog)

	svcDeps := dispatch.Deps{
		Directory: directory,
		Gateway:   gateway,
		Feed:      hub,
		Logger:    zlog,
	}
	if deliveryRepo != nil {
		svcDeps.DeliveryLog = deliveryRepo
	}
	svc := dispatch.NewService(svcDeps)

	deps := &transporthttp.Deps{
		Dispatcher: svc,
		Hub:        hub,
	}
	if deliveryRepo != nil {
		deps.DeliveryLog = deliveryRepo
	}

	router := transporthttp.NewRouter(cfg, deps, zlog)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("forced shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}
