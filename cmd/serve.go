package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/moviemend/moviemend/internal/api"
	"github.com/moviemend/moviemend/internal/cache"
	"github.com/moviemend/moviemend/internal/config"
	"github.com/moviemend/moviemend/internal/connectivity"
	"github.com/moviemend/moviemend/internal/database"
	"github.com/moviemend/moviemend/internal/logger"
	"github.com/moviemend/moviemend/internal/remote/catalog"
	"github.com/moviemend/moviemend/internal/remote/store"
	"github.com/moviemend/moviemend/internal/session"
	"github.com/moviemend/moviemend/internal/shutdown"
	syncsvc "github.com/moviemend/moviemend/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the watchlist API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg := config.Get()

	logger.InitializeLoggers(cfg.GetAppLogLevel(), cfg.GetCacheLogLevel())
	log := logger.AppLogger()

	if err := database.Initialize(); err != nil {
		return err
	}

	cacheStore := cache.NewStore(database.Get(), logger.CacheLogger())

	// The process starts assuming connectivity; clients report transitions
	// through the connectivity endpoint.
	monitor := connectivity.NewMonitor(true, log)

	storeClient := store.New(store.Config{
		BaseURL: cfg.Store.BaseURL,
		APIKey:  cfg.Store.APIKey,
		Timeout: cfg.StoreTimeout(),
	})

	catalogClient := catalog.New(catalog.Config{
		BaseURL:       cfg.Catalog.BaseURL,
		APIKey:        cfg.Catalog.APIKey,
		Timeout:       cfg.CatalogTimeout(),
		RetryAttempts: cfg.Catalog.RetryAttempts,
	})

	service := syncsvc.NewService(syncsvc.Config{
		Monitor:        monitor,
		Cache:          cacheStore,
		Store:          storeClient,
		Catalog:        catalogClient,
		Sessions:       session.ContextProvider{},
		Logger:         log,
		DetailFreshTTL: cfg.DetailFreshTTL(),
		DetailMaxAge:   cfg.DetailMaxAge(),
	})
	service.Start()

	server := api.NewServer(api.Config{
		Service:     service,
		Monitor:     monitor,
		CORSOrigins: cfg.API.CORSOrigins,
	})

	handler := shutdown.New(30*time.Second, log)
	handler.Register("cache database", func(ctx context.Context) error {
		return database.Close()
	})
	handler.Register("query layer", func(ctx context.Context) error {
		service.Stop()
		return nil
	})
	handler.Register("http server", server.Stop)

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"port": cfg.API.Port,
		}).Info("Starting API server")
		serveErr <- server.Run(cfg.API.Port)
	}()

	waitErr := make(chan error, 1)
	go func() { waitErr <- handler.Wait() }()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("API server failed", err)
		}
		handler.Trigger()
		if shutdownErr := <-waitErr; err == nil {
			err = shutdownErr
		}
		return err
	case err := <-waitErr:
		log.Info("Shutdown complete")
		return err
	}
}
