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

	"repairorder/internal/api"
	"repairorder/internal/config"
	"repairorder/internal/model"
	"repairorder/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("failed to parse config")
		os.Exit(1)
	}
	logrus.SetLevel(cfg.Level())

	repo, err := model.InitRepository(&cfg)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise repository")
		os.Exit(1)
	}

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	err = model.SeedDefaults(seedCtx, repo, cfg)
	cancelSeed()
	if err != nil {
		logrus.WithError(err).Error("failed to seed defaults")
		os.Exit(1)
	}

	var archive storage.Storage
	if cfg.ExportArchiveEnabled {
		archive, err = storage.NewStorage(cfg)
		if err != nil {
			logrus.WithError(err).Error("failed to initialise export archive")
			os.Exit(1)
		}
		logrus.WithField("storage_type", cfg.StorageType).Info("export archive enabled")
	}

	handler, err := api.NewHTTPHandler(cfg, repo, archive)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise http handler")
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(handler)

	serverHost := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:         serverHost,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  180 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"host":    serverHost,
			"db_type": cfg.DBType,
		}).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	logrus.Info("server stopped")
}
