package main

import (
	"os"

	club "temporal-club-tracker"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	cfg, err := club.LoadConfig()
	if err != nil {
		club.NewLogger("").Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := club.NewLogger(cfg.Env)

	// Create Temporal client
	clientOptions, err := club.GetClientOptions(cfg, logger)
	if err != nil {
		logger.Error("Invalid Temporal client options", "error", err)
		os.Exit(1)
	}
	c, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("Unable to create Temporal client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	store := club.NewStore(cfg, logger)
	if rs, ok := store.(*club.RedisStore); ok {
		defer rs.Close()
	}

	// Create worker
	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflow(club.ClubRefreshWorkflow)
	w.RegisterWorkflow(club.MatchWorkflow)

	// Register activities
	w.RegisterActivity(club.NewActivities(cfg, store, c))

	// Start worker
	logger.Info("Starting Temporal worker for club tracker", "taskQueue", cfg.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Unable to start worker", "error", err)
		os.Exit(1)
	}
}
