package club

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// GetClientOptions builds Temporal client options from cfg. Non-local hosts
// use TLS with an API key.
func GetClientOptions(cfg *Config, logger *slog.Logger) (client.Options, error) {
	if cfg.TemporalHost == "" {
		return client.Options{}, errors.New("TEMPORAL_HOST environment variable is not set")
	}
	if cfg.TemporalNamespace == "" {
		return client.Options{}, errors.New("TEMPORAL_NAMESPACE environment variable is not set")
	}

	if logger == nil {
		logger = slog.Default()
	}

	namespace := cfg.TemporalNamespace
	clientOptions := client.Options{
		HostPort:  cfg.TemporalHost,
		Namespace: namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	}

	clientOptions.ConnectionOptions = client.ConnectionOptions{
		TLS: &tls.Config{},
		DialOptions: []grpc.DialOption{
			grpc.WithUnaryInterceptor(
				func(ctx context.Context, method string, req any, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
					return invoker(
						metadata.AppendToOutgoingContext(ctx, "temporal-namespace", namespace),
						method,
						req,
						reply,
						cc,
						opts...,
					)
				},
			),
		},
	}

	if cfg.IsLocalTemporal() {
		clientOptions.ConnectionOptions.TLS = nil // Disable TLS for local development
		return clientOptions, nil
	}

	if cfg.TemporalAPIKey == "" {
		return client.Options{}, errors.New("TEMPORAL_API_KEY environment variable is not set")
	}
	clientOptions.Credentials = client.NewAPIKeyStaticCredentials(cfg.TemporalAPIKey)
	return clientOptions, nil
}

// StartRefreshWorkflow starts the club's single ClubRefreshWorkflow. started
// is false when the workflow is already running.
func StartRefreshWorkflow(ctx context.Context, c client.Client, taskQueue string, req RefreshRequest) (run client.WorkflowRun, started bool, err error) {
	options := client.StartWorkflowOptions{
		ID:                                       RefreshWorkflowID,
		TaskQueue:                                taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err = c.ExecuteWorkflow(ctx, options, ClubRefreshWorkflow, req)
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("unable to execute workflow: %w", err)
	}
	return run, true, nil
}
