package club

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
)

func createTestWatch(start time.Time) MatchWatch {
	return MatchWatch{
		Match: Match{
			MatchID:  "m-1",
			Home:     "FC Bizoni UH",
			Away:     "Tango Hodonín",
			DateTime: at(start),
			Venue:    "Sportovní hala UH",
		},
		NotificationTypes: []string{NotifyKickoff, NotifyScoreChange, NotifyResult},
		Channels:          []string{"logger"},
	}
}

func TestMatchWorkflow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{})

	start := testNow.Add(10 * time.Minute)
	env.SetStartTime(testNow)
	watch := createTestWatch(start)

	var a *Activities
	calls := 0
	env.OnActivity(a.GetMatch, mock.Anything, "m-1").Return(func(ctx context.Context, matchID string) (Match, error) {
		calls++
		m := watch.Match
		switch {
		case calls > 50:
			m.Score = "2:1"
		case calls > 10:
			m.Score = "1:0"
		}
		return m, nil
	})

	var sent []Notification
	env.OnActivity(a.SendNotifications, mock.Anything, mock.Anything).Return(func(ctx context.Context, batch SendNotifications) error {
		assert.Equal(t, "logger", batch.Channel)
		sent = append(sent, batch.NotificationList...)
		return nil
	})

	env.ExecuteWorkflow(MatchWorkflow, watch)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result string
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, "Final score: FC Bizoni UH 2:1 Tango Hodonín", result)

	// Polled every two minutes for three hours after kickoff.
	assert.Equal(t, 90, calls)

	require.Len(t, sent, 4)
	assert.Equal(t, "Výkop!", sent[0].Title)
	assert.Equal(t, "FC Bizoni UH vs. Tango Hodonín právě začíná, Sportovní hala UH", sent[0].Message)
	assert.Equal(t, "FC Bizoni UH 1:0 Tango Hodonín", sent[1].Message)
	assert.Equal(t, "FC Bizoni UH 2:1 Tango Hodonín", sent[2].Message)
	assert.Equal(t, "Konec zápasu", sent[3].Title)
	assert.Equal(t, "FC Bizoni UH vs. Tango Hodonín\nVýsledek: 2:1", sent[3].Message)
}

func TestMatchWorkflow_ResultOnly(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{})

	// Kicked off an hour ago.
	start := testNow.Add(-time.Hour)
	env.SetStartTime(testNow)
	watch := createTestWatch(start)
	watch.NotificationTypes = []string{NotifyResult}
	watch.Channels = []string{"logger", "slack"}

	var a *Activities
	env.OnActivity(a.GetMatch, mock.Anything, "m-1").Return(Match{Home: "FC Bizoni UH", Away: "Tango Hodonín", Score: "3:3"}, nil)

	var channels []string
	env.OnActivity(a.SendNotifications, mock.Anything, mock.Anything).Return(func(ctx context.Context, batch SendNotifications) error {
		channels = append(channels, batch.Channel)
		return nil
	})

	env.ExecuteWorkflow(MatchWorkflow, watch)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Equal(t, []string{"logger", "slack"}, channels)
}

func TestMatchWorkflow_QueryMatchInfo(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{})

	env.SetStartTime(testNow)
	watch := createTestWatch(testNow)
	watch.NotificationTypes = nil

	var a *Activities
	live := watch.Match
	live.Score = "1:1"
	env.OnActivity(a.GetMatch, mock.Anything, "m-1").Return(live, nil)

	env.RegisterDelayedCallback(func() {
		res, err := env.QueryWorkflow(MatchInfoQuery)
		require.NoError(t, err)
		var m Match
		require.NoError(t, res.Get(&m))
		assert.Equal(t, "1:1", m.Score)
	}, 30*time.Minute)

	env.ExecuteWorkflow(MatchWorkflow, watch)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
}

func TestMatchWorkflow_InvalidKickoff(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	watch := createTestWatch(testNow)
	watch.Match.DateTime = ""

	env.ExecuteWorkflow(MatchWorkflow, watch)

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "InvalidKickoff", appErr.Type())
}

func TestBuildNotifications(t *testing.T) {
	m := Match{Home: "FC Bizoni UH", Away: "Tango Hodonín", Score: "4:2"}

	assert.Equal(t, Notification{Title: "Výkop!", Message: "FC Bizoni UH vs. Tango Hodonín právě začíná"}, buildKickoffNotification(m))
	assert.Equal(t, "FC Bizoni UH 4:2 Tango Hodonín", buildScoreNotification(m).Message)

	m.Score = ""
	assert.Equal(t, "FC Bizoni UH vs. Tango Hodonín\nUkončeno", buildResultNotification(m).Message)
}
