package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	server "milheiro/internal/adapters/http_server"
	"milheiro/internal/adapters/observability"
	"milheiro/internal/adapters/seatsaero"
	"milheiro/internal/app"
	"milheiro/internal/domain"
	"milheiro/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	zerolog.DefaultContextLogger = &log.Logger

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// pipeline
	var fetcher domain.PageFetcher
	switch cfg.FetchMode {
	case shared.FetchModeBrowser:
		fetcher = seatsaero.NewBrowser(seatsaero.BrowserOptions{
			BaseURL:     cfg.SeatsAeroURL,
			Timeout:     cfg.HTTPTimeout,
			PageLimit:   cfg.BrowserPageLimit,
			MaxSessions: cfg.BrowserMaxSessions,
			ExecPath:    cfg.ChromePath,
			Defaults:    cfg.Scrape,
		})
	default:
		fetcher = seatsaero.New(cfg.SeatsAeroURL, cfg.HTTPTimeout, cfg.Scrape)
	}
	svc := app.NewSearchService(fetcher, seatsaero.NewTableExtractor())

	log.Info().
		Str("upstream", cfg.SeatsAeroURL).
		Str("mode", cfg.FetchMode).
		Dur("timeout", cfg.HTTPTimeout).
		Msg("scraper configured")

	// http
	srv := server.New(server.Options{RequestTimeout: cfg.RequestTimeout, CORSOrigins: cfg.CORSOrigins})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("API stopped")
}
