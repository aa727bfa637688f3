package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	club "temporal-club-tracker"
	"temporal-club-tracker/web"

	"go.temporal.io/sdk/client"
)

func main() {
	cfg, err := club.LoadConfig()
	if err != nil {
		club.NewLogger("").Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := club.NewLogger(cfg.Env)

	store := club.NewStore(cfg, logger)
	if rs, ok := store.(*club.RedisStore); ok {
		defer rs.Close()
	}

	// Create Temporal client
	var temporalClient client.Client
	clientOptions, err := club.GetClientOptions(cfg, logger)
	if err == nil {
		temporalClient, err = client.Dial(clientOptions)
	}
	if err != nil {
		logger.Warn("Unable to create Temporal client, workflow operations are disabled", "error", err)
		temporalClient = nil
	} else {
		defer temporalClient.Close()
		logger.Info("Successfully connected to Temporal server", "host", cfg.TemporalHost)
	}

	// Create web handlers with Temporal client (can be nil)
	handlers := web.NewHandlers(store, temporalClient, cfg, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting web server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
