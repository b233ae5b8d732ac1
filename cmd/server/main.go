package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gridironlabs/gpp-engine/internal/api"
	"github.com/gridironlabs/gpp-engine/internal/priors"
	"github.com/gridironlabs/gpp-engine/pkg/cache"
	"github.com/gridironlabs/gpp-engine/pkg/config"
	"github.com/gridironlabs/gpp-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	log := logger.WithComponent("server")

	store, err := priors.LoadDir(cfg.PriorsDir)
	if err != nil {
		log.WithError(err).Fatal("failed to load prior tables")
	}

	summaryCache, err := cache.New(cfg.RedisURL, time.Duration(cfg.CacheTTLHours)*time.Hour)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, running without simulation cache")
	}
	defer summaryCache.Close()

	server := api.NewServer(cfg, store, summaryCache)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	go func() {
		log.WithField("port", cfg.Port).Info("gpp engine listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("server stopped")
}
