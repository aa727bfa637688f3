package club

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
)

func TestStartRefreshWorkflow(t *testing.T) {
	req := RefreshRequest{WatchLookahead: 6 * time.Hour}

	tests := []struct {
		name        string
		run         client.WorkflowRun
		execErr     error
		wantStarted bool
		wantErr     bool
	}{
		{"started", newMockRun(), nil, true, false},
		{"already running", nil, serviceerror.NewWorkflowExecutionAlreadyStarted("exists", "", ""), false, false},
		{"unavailable", nil, serviceerror.NewUnavailable("down"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &mocks.Client{}
			c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
				return o.ID == RefreshWorkflowID && o.TaskQueue == TaskQueueName && o.WorkflowExecutionErrorWhenAlreadyStarted
			}), mock.Anything, req).Return(tt.run, tt.execErr)

			run, started, err := StartRefreshWorkflow(testContext(t), c, TaskQueueName, req)
			assert.Equal(t, tt.wantStarted, started)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, run)
			} else {
				require.NoError(t, err)
			}
			if tt.wantStarted {
				require.NotNil(t, run)
				assert.Equal(t, "run-1", run.GetRunID())
			}
			c.AssertExpectations(t)
		})
	}
}

func TestGetClientOptions(t *testing.T) {
	local := &Config{TemporalHost: "localhost:7233", TemporalNamespace: "default"}
	opts, err := GetClientOptions(local, nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:7233", opts.HostPort)
	assert.Nil(t, opts.ConnectionOptions.TLS)

	cloud := &Config{TemporalHost: "club.tmprl.cloud:7233", TemporalNamespace: "club.abcde"}
	_, err = GetClientOptions(cloud, nil)
	assert.ErrorContains(t, err, "TEMPORAL_API_KEY")

	cloud.TemporalAPIKey = "secret"
	opts, err = GetClientOptions(cloud, nil)
	require.NoError(t, err)
	assert.NotNil(t, opts.ConnectionOptions.TLS)
	assert.NotNil(t, opts.Credentials)
}
