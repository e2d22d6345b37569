package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dyastin-0/relay/internal/forwarder"
	"github.com/Dyastin-0/relay/internal/health"
	"github.com/Dyastin-0/relay/internal/logger"
	"github.com/Dyastin-0/relay/internal/metrics"
	"github.com/Dyastin-0/relay/internal/router"
	"github.com/Dyastin-0/relay/internal/routes"
	"github.com/Dyastin-0/relay/internal/tls"
	"github.com/Dyastin-0/relay/internal/watcher"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Dyastin-0/relay/internal/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		time.Sleep(500 * time.Millisecond)
	}()

	configPath := flag.String("config", "relay.yaml", "Path to the config file")
	flag.Parse()

	// A .env file is one way to provide secret-referenced variables;
	// its absence is fine.
	godotenv.Load()

	err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	logger.Init()
	log.Info().Str("path", *configPath).Msg("config")

	table, err := routes.Resolve(config.Routes)
	if err != nil {
		log.Fatal().Err(err).Msg("routes")
	}

	config.StartTime = time.Now()

	fwd := forwarder.New(table)
	handler := router.New(fwd)

	go health.InitPinger(ctx, fwd.Table)

	if config.Misc.Watch {
		go watcher.Watch(ctx, *configPath, fwd)
	}

	if config.Misc.MetricsEnabled {
		go metrics.Start()
	}

	server := &http.Server{Addr: ":" + config.Misc.Port, Handler: handler}

	go func() {
		log.Info().Str("status", "running").Str("port", config.Misc.Port).Msg("relay")

		var err error
		if config.Misc.EnableTLS {
			err = tls.Serve(ctx, handler)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("relay")
		}
	}()

	// Handle graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}
