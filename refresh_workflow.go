package club

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// RefreshNowSignal wakes the refresh loop before its timer fires.
	RefreshNowSignal = "refreshNow"
	// RefreshStateQuery returns the RefreshState of a running loop.
	RefreshStateQuery = "refreshState"
	// RefreshWorkflowID is the single refresh loop per club.
	RefreshWorkflowID = "club-refresh"

	DefaultMaxIterations = 500
)

// ClubRefreshWorkflow keeps the stored club data fresh. Every iteration
// fetches and saves the dataset, optionally starts match watchers, then waits
// RefreshInterval or until a refreshNow signal arrives. After MaxIterations it
// continues as new to keep the history short.
func ClubRefreshWorkflow(ctx workflow.Context, req RefreshRequest) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting Club Refresh Workflow.")

	var a *Activities

	maxIterations := req.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	state := RefreshState{Interval: SlowRefreshInterval}
	err := workflow.SetQueryHandler(ctx, RefreshStateQuery, func() (RefreshState, error) {
		return state, nil
	})
	if err != nil {
		logger.Error("Failed to set query handler", "error", err)
		return err
	}

	// A failed fetch waits for the next cycle instead of retrying.
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	refreshCh := workflow.GetSignalChannel(ctx, RefreshNowSignal)
	watched := make(map[string]bool)

	for i := 0; i < maxIterations; i++ {
		var data ClubData
		err := workflow.ExecuteActivity(ctx, a.FetchClubData).Get(ctx, &data)
		if err != nil {
			logger.Error("Failed to fetch club data", "error", err)
			state.LastError = err.Error()
		} else {
			state.LastError = ""
			if err := workflow.ExecuteActivity(ctx, a.SaveClubData, data).Get(ctx, nil); err != nil {
				logger.Error("Failed to save club data", "error", err)
				state.LastError = err.Error()
			}

			comps := data.ClubDetail.Competitions
			now := workflow.Now(ctx)
			state.Refreshes++
			state.LastFetched = data.FetchedAt
			state.Competitions = len(comps)
			state.Interval = RefreshInterval(comps, now)

			if req.WatchLookahead > 0 {
				startWatchers(ctx, comps, now, req.WatchLookahead, watched)
			}
		}

		logger.Info("Next refresh scheduled", "interval", state.Interval)

		timerCtx, cancelTimer := workflow.WithCancel(ctx)
		timer := workflow.NewTimer(timerCtx, state.Interval)
		selector := workflow.NewSelector(ctx)
		selector.AddFuture(timer, func(f workflow.Future) {
			// Timer fired, refresh again
		})
		selector.AddReceive(refreshCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			logger.Info("Refresh requested")
		})
		selector.Select(ctx)
		cancelTimer()
	}

	// Requests that arrived during the last wait are covered by the next run's first fetch.
	for refreshCh.ReceiveAsync(nil) {
	}

	logger.Info("Club Refresh Workflow continuing as new.", "refreshes", state.Refreshes)
	return workflow.NewContinueAsNewError(ctx, ClubRefreshWorkflow, req)
}

// startWatchers starts a MatchWorkflow for every match with a match_id that
// kicks off within lookahead, once per workflow run.
func startWatchers(ctx workflow.Context, comps []Competition, now time.Time, lookahead time.Duration, watched map[string]bool) {
	logger := workflow.GetLogger(ctx)
	var a *Activities

	for _, comp := range comps {
		for _, m := range comp.Matches {
			if m.MatchID == "" || watched[m.MatchID] {
				continue
			}
			start, ok := m.Start()
			if !ok || !start.After(now) || start.Sub(now) > lookahead {
				continue
			}
			err := workflow.ExecuteActivity(ctx, a.StartMatchWorkflow, m).Get(ctx, nil)
			if err != nil {
				logger.Error("Failed to start match workflow", "matchID", m.MatchID, "error", err)
				continue
			}
			watched[m.MatchID] = true
		}
	}
}
