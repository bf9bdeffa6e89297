package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"store-rating/internal/app"
	"store-rating/internal/core/config"
	"store-rating/internal/core/logger"
	"store-rating/internal/core/server"
	"store-rating/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))

	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate(cfg.Log.Rotate))
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if err := run(cfg, log); err != nil {
		log.Error("store-rating api exited", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.EnsureAdmin(ctx, cfg.Bootstrap); err != nil {
		return err
	}

	h := cfg.App.HTTP
	r, err := router.NewAPIEngine(log, router.Options{
		CORSOrigins:    h.CORSOrigins,
		RequestTimeout: time.Duration(h.RequestTimeoutSec) * time.Second,
		MaxBodyBytes:   h.MaxBodyBytes,
		MaxInFlight:    h.MaxInFlight,
		MaxQueueWait:   time.Duration(h.MaxQueueWaitMs) * time.Millisecond,
	}, router.Deps{
		Users:   a.Users,
		Stores:  a.Stores,
		Ratings: a.Ratings,
		Admin:   a.Admin,
		JWT:     a.JWT,
		Ready:   a.Ready,
	})
	if err != nil {
		return err
	}

	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := fmt.Sprintf("http://%s:%d", host4human, h.Port)
	log.Info("store-rating api starting",
		zap.String("env", cfg.App.Env),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		return err
	}
	log.Info("store-rating api stopped gracefully")
	return nil
}
