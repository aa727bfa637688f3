package main

import (
	"context"
	"os"

	club "temporal-club-tracker"

	"go.temporal.io/sdk/client"
)

func main() {
	cfg, err := club.LoadConfig()
	if err != nil {
		club.NewLogger("").Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := club.NewLogger(cfg.Env)

	clientOptions, err := club.GetClientOptions(cfg, logger)
	if err != nil {
		logger.Error("Invalid Temporal client options", "error", err)
		os.Exit(1)
	}
	c, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("Unable to create client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	// One refresh loop per club.
	req := club.RefreshRequest{WatchLookahead: cfg.WatchLookahead}
	we, started, err := club.StartRefreshWorkflow(context.Background(), c, cfg.TaskQueue, req)
	if err != nil {
		logger.Error("Unable to execute workflow", "error", err)
		os.Exit(1)
	}
	if !started {
		logger.Info("Refresh workflow is already running", "WorkflowID", club.RefreshWorkflowID)
		return
	}
	logger.Info("Started workflow", "WorkflowID", we.GetID(), "RunID", we.GetRunID())
}
