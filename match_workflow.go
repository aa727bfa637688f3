package club

import (
	"fmt"
	"slices"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	MatchInfoQuery     = "matchInfo"
	MatchPollInterval  = 2 * time.Minute
	MatchWatchDuration = 3 * time.Hour
)

// Notification types a MatchWatch can ask for.
const (
	NotifyKickoff     = "kickoff"
	NotifyScoreChange = "score_change"
	NotifyResult      = "result"
)

// MatchWatch is the input of MatchWorkflow.
type MatchWatch struct {
	Match             Match
	NotificationTypes []string
	Channels          []string
}

// MatchWorkflow waits for kickoff, polls the score while the match is on and
// sends the requested notifications.
func MatchWorkflow(ctx workflow.Context, watch MatchWatch) (string, error) {
	logger := workflow.GetLogger(ctx)
	m := watch.Match
	logger.Info("Starting Match Workflow", "matchID", m.MatchID, "home", m.Home, "away", m.Away)

	start, ok := m.Start()
	if !ok {
		return "", temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("match %s has no kickoff time: %q", m.MatchID, m.DateTime), "InvalidKickoff", nil)
	}

	// Query handler for UI - return the match as last seen
	err := workflow.SetQueryHandler(ctx, MatchInfoQuery, func() (Match, error) {
		return m, nil
	})
	if err != nil {
		logger.Error("Failed to set query handler", "error", err)
		return "", err
	}

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	if start.After(workflow.Now(ctx)) {
		logger.Info("Waiting for kickoff", "matchID", m.MatchID, "startTime", start)
		if err := workflow.Sleep(ctx, start.Sub(workflow.Now(ctx))); err != nil {
			return "", err
		}
	}

	if slices.Contains(watch.NotificationTypes, NotifyKickoff) {
		notify(ctx, watch.Channels, buildKickoffNotification(m))
	}

	lastScore := m.Score
	for workflow.Now(ctx).Before(start.Add(MatchWatchDuration)) {
		if err := workflow.Sleep(ctx, MatchPollInterval); err != nil {
			return "", err
		}

		var a *Activities
		var update Match
		err := workflow.ExecuteActivity(ctx, a.GetMatch, m.MatchID).Get(ctx, &update)
		if err != nil {
			logger.Error("Failed to fetch match", "matchID", m.MatchID, "error", err)
			continue
		}
		m = update

		if m.Score != "" && m.Score != lastScore {
			logger.Info("Score change detected", "matchID", m.MatchID, "score", m.Score)
			if slices.Contains(watch.NotificationTypes, NotifyScoreChange) {
				notify(ctx, watch.Channels, buildScoreNotification(m))
			}
			lastScore = m.Score
		}
	}

	if slices.Contains(watch.NotificationTypes, NotifyResult) {
		notify(ctx, watch.Channels, buildResultNotification(m))
	}

	logger.Info("Match workflow completed", "matchID", m.MatchID)
	return fmt.Sprintf("Final score: %s %s %s", m.Home, orDefault(m.Score, TextNoScore), m.Away), nil
}

// notify sends n to every channel. Delivery failures are logged only.
func notify(ctx workflow.Context, channels []string, n Notification) {
	logger := workflow.GetLogger(ctx)
	var a *Activities

	for _, channel := range channels {
		batch := SendNotifications{Channel: channel, NotificationList: []Notification{n}}
		err := workflow.ExecuteActivity(ctx, a.SendNotifications, batch).Get(ctx, nil)
		if err != nil {
			logger.Error("Failed to send notification", "channel", channel, "error", err)
		}
	}
}

// Kickoff notification looks like this:
//
//	Výkop!
//	FC Bizoni UH vs. Tango Hodonín právě začíná, Sportovní hala UH
func buildKickoffNotification(m Match) Notification {
	msg := fmt.Sprintf("%s vs. %s právě začíná", m.Home, m.Away)
	if m.Venue != "" {
		msg += ", " + m.Venue
	}
	return Notification{Title: "Výkop!", Message: msg}
}

func buildScoreNotification(m Match) Notification {
	return Notification{
		Title:   "Změna skóre",
		Message: fmt.Sprintf("%s %s %s", m.Home, m.Score, m.Away),
	}
}

func buildResultNotification(m Match) Notification {
	return Notification{
		Title:   "Konec zápasu",
		Message: fmt.Sprintf("%s vs. %s\n%s", m.Home, m.Away, ResultText(m.Score)),
	}
}
