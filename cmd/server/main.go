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

	webAdapter "bizadmin/internal/adapters/web"
	"bizadmin/internal/app"
	"bizadmin/internal/config"
	"bizadmin/internal/core"
	"bizadmin/internal/db"
	"bizadmin/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("database", zap.String("error", logging.SanitizeError(err)))
	}
	defer pool.Close()

	source := core.NewPostgresBOMSource(pool)
	reports := core.NewApprovedBOMService(source, cfg.Report.ChunkSize, logger)
	svc := app.NewAppService(reports, source, cfg.DefaultOrganizationID, cfg.Report.PageSize, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           webAdapter.NewHandler(svc, cfg.Server.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
	logger.Info("server stopped")
}
