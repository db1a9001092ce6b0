// Package main wires together the price service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/haiminh/metal-price-crawler/internal/api"
	"github.com/haiminh/metal-price-crawler/internal/clock"
	"github.com/haiminh/metal-price-crawler/internal/config"
	"github.com/haiminh/metal-price-crawler/internal/extractor"
	"github.com/haiminh/metal-price-crawler/internal/extractor/btmc"
	"github.com/haiminh/metal-price-crawler/internal/extractor/phuquy"
	collyfetcher "github.com/haiminh/metal-price-crawler/internal/fetcher/colly"
	"github.com/haiminh/metal-price-crawler/internal/logging"
	"github.com/haiminh/metal-price-crawler/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	fetch := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	})
	sources := []extractor.Source{
		phuquy.New(fetch, logger, phuquy.Config{
			GoldURL:   cfg.Vendors.PhuQuy.GoldURL,
			SilverURL: cfg.Vendors.PhuQuy.SilverURL,
		}),
		btmc.New(fetch, logger, btmc.Config{
			GoldURL:   cfg.Vendors.BTMC.GoldURL,
			SilverURL: cfg.Vendors.BTMC.SilverURL,
			Referer:   cfg.Vendors.BTMC.Referer,
		}),
	}

	server := api.NewServer(sources, clock.NewSystem(), logger)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("price server listening", zap.Int("port", cfg.Server.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
