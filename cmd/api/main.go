package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/app"
	"github.com/Buffden/Event-Management-System-sub004/internal/config"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}
	application.Start(ctx)

	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Store.Driver),
		)
		if err := application.Serve(":" + cfg.Server.Port); err != nil {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
