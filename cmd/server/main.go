package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/wadjakorntonsri/tinylink/pkg/adapters/geo"
	"github.com/wadjakorntonsri/tinylink/pkg/adapters/handler"
	"github.com/wadjakorntonsri/tinylink/pkg/adapters/kv"
	"github.com/wadjakorntonsri/tinylink/pkg/adapters/repository"
	"github.com/wadjakorntonsri/tinylink/pkg/config"
	"github.com/wadjakorntonsri/tinylink/pkg/core/services"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Initialize Storage
	store, err := kv.Open(cfg.KVDriver, cfg.DatabaseURL, cfg.RedisAddr)
	if err != nil {
		logger.Error("failed to open key-value store", "driver", cfg.KVDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	sink := repository.NewEventLog(store, logger)
	repo := repository.NewLinkStore(store, sink, logger)
	locator := geo.NewIPLocator(cfg.GeoEndpoint, cfg.GeoTimeout, logger)

	// Initialize Services
	linkService := services.NewLinkService(repo, sink, cfg.BaseURL)
	resolverService := services.NewResolverService(repo, sink, locator)

	// Initialize Router
	mux := handler.NewRouter(cfg, linkService, resolverService, sink, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("server starting", "port", cfg.Port, "kv_driver", cfg.KVDriver)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
