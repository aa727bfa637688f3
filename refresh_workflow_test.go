package club

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"
)

func clubDataWithMatches(matches ...Match) ClubData {
	return ClubData{
		FetchedAt: testNow,
		ClubDetail: ClubDetail{
			Competitions: []Competition{{Name: "Divize F - skupina D", Matches: matches}},
		},
	}
}

func requireContinueAsNew(t *testing.T, env *testsuite.TestWorkflowEnvironment) {
	t.Helper()
	require.True(t, env.IsWorkflowCompleted())
	var continueErr *workflow.ContinueAsNewError
	require.True(t, errors.As(env.GetWorkflowError(), &continueErr), "expected continue as new, got %v", env.GetWorkflowError())
}

func queryRefreshState(t *testing.T, env *testsuite.TestWorkflowEnvironment) RefreshState {
	t.Helper()
	res, err := env.QueryWorkflow(RefreshStateQuery)
	require.NoError(t, err)
	var state RefreshState
	require.NoError(t, res.Get(&state))
	return state
}

func TestClubRefreshWorkflow_FastIntervalAroundMatch(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{})
	env.SetStartTime(testNow)

	data := clubDataWithMatches(Match{Home: "A", Away: "B", DateTime: at(testNow.Add(time.Hour))})

	var a *Activities
	env.OnActivity(a.FetchClubData, mock.Anything).Return(data, nil).Times(3)
	env.OnActivity(a.SaveClubData, mock.Anything, mock.Anything).Return(nil).Times(3)

	env.RegisterDelayedCallback(func() {
		state := queryRefreshState(t, env)
		assert.Equal(t, 1, state.Refreshes)
		assert.Equal(t, FastRefreshInterval, state.Interval)
		assert.Equal(t, 1, state.Competitions)
		assert.Empty(t, state.LastError)
	}, time.Minute)

	env.RegisterDelayedCallback(func() {
		assert.Equal(t, 2, queryRefreshState(t, env).Refreshes)
	}, FastRefreshInterval+time.Minute)

	env.ExecuteWorkflow(ClubRefreshWorkflow, RefreshRequest{MaxIterations: 3})

	requireContinueAsNew(t, env)
	env.AssertExpectations(t)
}

func TestClubRefreshWorkflow_SlowIntervalWithoutMatches(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{})
	env.SetStartTime(testNow)

	data := clubDataWithMatches(Match{Home: "A", Away: "B", DateTime: at(testNow.Add(3 * time.Hour))})

	var a *Activities
	env.OnActivity(a.FetchClubData, mock.Anything).Return(data, nil)
	env.OnActivity(a.SaveClubData, mock.Anything, mock.Anything).Return(nil)

	env.RegisterDelayedCallback(func() {
		assert.Equal(t, SlowRefreshInterval, queryRefreshState(t, env).Interval)
	}, time.Minute)

	// Still before the second refresh.
	env.RegisterDelayedCallback(func() {
		assert.Equal(t, 1, queryRefreshState(t, env).Refreshes)
	}, SlowRefreshInterval-time.Minute)

	env.ExecuteWorkflow(ClubRefreshWorkflow, RefreshRequest{MaxIterations: 2})

	requireContinueAsNew(t, env)
}

func TestClubRefreshWorkflow_RefreshNowSignal(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{})
	env.SetStartTime(testNow)

	var a *Activities
	env.OnActivity(a.FetchClubData, mock.Anything).Return(clubDataWithMatches(), nil)
	env.OnActivity(a.SaveClubData, mock.Anything, mock.Anything).Return(nil)

	env.RegisterDelayedCallback(func() {
		env.SignalWorkflow(RefreshNowSignal, nil)
	}, time.Minute)

	env.RegisterDelayedCallback(func() {
		assert.Equal(t, 2, queryRefreshState(t, env).Refreshes)
	}, 2*time.Minute)

	env.ExecuteWorkflow(ClubRefreshWorkflow, RefreshRequest{MaxIterations: 3})

	requireContinueAsNew(t, env)
}

func TestClubRefreshWorkflow_FetchFailureKeepsInterval(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{})
	env.SetStartTime(testNow)

	var a *Activities
	fetches := 0
	env.OnActivity(a.FetchClubData, mock.Anything).Return(func(ctx context.Context) (ClubData, error) {
		fetches++
		return ClubData{}, errors.New("status 502: bad gateway")
	})
	saves := 0
	env.OnActivity(a.SaveClubData, mock.Anything, mock.Anything).Return(func(ctx context.Context, data ClubData) error {
		saves++
		return nil
	})

	env.RegisterDelayedCallback(func() {
		state := queryRefreshState(t, env)
		assert.Equal(t, 0, state.Refreshes)
		assert.Equal(t, SlowRefreshInterval, state.Interval)
		assert.Contains(t, state.LastError, "bad gateway")
	}, time.Minute)

	env.ExecuteWorkflow(ClubRefreshWorkflow, RefreshRequest{MaxIterations: 2})

	requireContinueAsNew(t, env)
	// One attempt per iteration, no retries.
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 0, saves)
}

func TestClubRefreshWorkflow_StartsWatchersOnce(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{})
	env.SetStartTime(testNow)

	data := clubDataWithMatches(
		Match{MatchID: "m-soon", Home: "A", Away: "B", DateTime: at(testNow.Add(3 * time.Hour))},
		Match{MatchID: "m-later", Home: "C", Away: "D", DateTime: at(testNow.Add(10 * time.Hour))},
		Match{MatchID: "m-past", Home: "E", Away: "F", DateTime: at(testNow.Add(-time.Hour))},
		Match{Home: "G", Away: "H", DateTime: at(testNow.Add(time.Hour))},
	)

	var a *Activities
	env.OnActivity(a.FetchClubData, mock.Anything).Return(data, nil)
	env.OnActivity(a.SaveClubData, mock.Anything, mock.Anything).Return(nil)

	var started []string
	env.OnActivity(a.StartMatchWorkflow, mock.Anything, mock.Anything).Return(func(ctx context.Context, m Match) error {
		started = append(started, m.MatchID)
		return nil
	})

	env.ExecuteWorkflow(ClubRefreshWorkflow, RefreshRequest{MaxIterations: 3, WatchLookahead: 6 * time.Hour})

	requireContinueAsNew(t, env)
	assert.Equal(t, []string{"m-soon"}, started)
}
