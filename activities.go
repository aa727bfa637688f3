package club

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"
)

// Activities bundles the side effects of the club workflows. Register a
// configured value with the worker; workflows refer to the methods through a
// nil *Activities.
type Activities struct {
	HTTPClient *http.Client
	BaseURL    string
	ClubID     string
	ClubType   string

	Store     ClubStore
	Temporal  client.Client
	TaskQueue string

	NotificationTypes    []string
	NotificationChannels []string
	SlackWebhookURL      string
}

// NewActivities wires activities from cfg.
func NewActivities(cfg *Config, store ClubStore, c client.Client) *Activities {
	return &Activities{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    cfg.UpstreamURL,
		ClubID:     cfg.ClubID,
		ClubType:   cfg.ClubType,
		Store:      store,
		Temporal:   c,
		TaskQueue:  cfg.TaskQueue,

		NotificationTypes:    cfg.NotificationTypes,
		NotificationChannels: cfg.NotificationChannels,
		SlackWebhookURL:      cfg.SlackWebhookURL,
	}
}

func (a *Activities) detailURL() string {
	return fmt.Sprintf("%s/club/%s/%s", strings.TrimRight(a.BaseURL, "/"), a.ClubType, a.ClubID)
}

func (a *Activities) tableURL() string {
	return a.detailURL() + "/table"
}

// FetchClubData downloads the club detail and standings and merges them into
// one document.
func (a *Activities) FetchClubData(ctx context.Context) (ClubData, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Fetching club data", "clubID", a.ClubID)

	var (
		detail ClubDetail
		table  ClubTable
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.getJSON(gctx, a.detailURL(), &detail); err != nil {
			return fmt.Errorf("detail: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := a.getJSON(gctx, a.tableURL(), &table); err != nil {
			return fmt.Errorf("table: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ClubData{}, err
	}

	Enrich(&detail, &table, a.ClubID)

	logger.Info("Fetched club data", "competitions", len(detail.Competitions))
	return ClubData{
		FetchedAt:  time.Now(),
		ClubDetail: detail,
		ClubTable:  table,
	}, nil
}

// Enrich fills facr_link from match_id and swaps our own club's logos for the
// local one.
func Enrich(detail *ClubDetail, table *ClubTable, clubID string) {
	for i := range detail.Competitions {
		for j := range detail.Competitions[i].Matches {
			m := &detail.Competitions[i].Matches[j]
			if m.MatchID != "" {
				m.FacrLink = fmt.Sprintf(FacrMatchURLFormat, m.MatchID)
			}
			if m.HomeID == clubID {
				m.HomeLogoURL = ClubLogoPath
			}
			if m.AwayID == clubID {
				m.AwayLogoURL = ClubLogoPath
			}
		}
	}
	for i := range table.Competitions {
		rows := table.Competitions[i].Table.Overall
		for j := range rows {
			if rows[j].TeamID == clubID {
				rows[j].TeamLogo = ClubLogoPath
			}
		}
	}
}

// SaveClubData persists data for the web server.
func (a *Activities) SaveClubData(ctx context.Context, data ClubData) error {
	if a.Store == nil {
		return errors.New("no club store configured")
	}
	if err := a.Store.Save(ctx, data); err != nil {
		return fmt.Errorf("save club data: %w", err)
	}
	activity.GetLogger(ctx).Info("Saved club data", "fetchedAt", data.FetchedAt)
	return nil
}

// GetMatch fetches the club detail and returns the match with matchID.
func (a *Activities) GetMatch(ctx context.Context, matchID string) (Match, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Fetching match", "matchID", matchID)

	var detail ClubDetail
	if err := a.getJSON(ctx, a.detailURL(), &detail); err != nil {
		return Match{}, fmt.Errorf("failed to fetch match: %w", err)
	}
	Enrich(&detail, &ClubTable{}, a.ClubID)

	for _, comp := range detail.Competitions {
		for _, m := range comp.Matches {
			if m.MatchID == matchID {
				return m, nil
			}
		}
	}
	return Match{}, fmt.Errorf("match not found: %s", matchID)
}

// MatchWorkflowID is the workflow ID of the watcher for matchID.
func MatchWorkflowID(matchID string) string {
	return "match-" + matchID
}

// StartMatchWorkflow starts a MatchWorkflow for m. A watcher that already ran
// or is running for the same match is left alone.
func (a *Activities) StartMatchWorkflow(ctx context.Context, m Match) error {
	logger := activity.GetLogger(ctx)
	if a.Temporal == nil {
		return errors.New("no Temporal client configured")
	}

	options := client.StartWorkflowOptions{
		ID:                    MatchWorkflowID(m.MatchID),
		TaskQueue:             a.TaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,

		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	watch := MatchWatch{
		Match:             m,
		NotificationTypes: a.NotificationTypes,
		Channels:          a.NotificationChannels,
	}
	we, err := a.Temporal.ExecuteWorkflow(ctx, options, MatchWorkflow, watch)
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		logger.Info("Match workflow already exists", "WorkflowID", options.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to execute workflow: %w", err)
	}
	logger.Info("Started match workflow", "WorkflowID", we.GetID(), "RunID", we.GetRunID())
	return nil
}

// SendNotifications delivers a batch to its channel: "logger" or "slack".
func (a *Activities) SendNotifications(ctx context.Context, batch SendNotifications) error {
	logger := activity.GetLogger(ctx)

	switch batch.Channel {
	case "logger":
		for _, n := range batch.NotificationList {
			logger.Info("Notification", "title", n.Title, "message", n.Message)
		}
		return nil
	case "slack":
		if a.SlackWebhookURL == "" {
			return errors.New("SLACK_WEBHOOK_URL is not set")
		}
		for _, n := range batch.NotificationList {
			msg := &slack.WebhookMessage{Text: fmt.Sprintf("*%s*\n%s", n.Title, n.Message)}
			if err := slack.PostWebhookCustomHTTPContext(ctx, a.SlackWebhookURL, a.httpClient(), msg); err != nil {
				return fmt.Errorf("post slack webhook: %w", err)
			}
		}
		logger.Info("Sent slack notifications", "count", len(batch.NotificationList))
		return nil
	default:
		logger.Warn("Unknown notification channel, dropping", "channel", batch.Channel)
		return nil
	}
}

func (a *Activities) httpClient() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

func (a *Activities) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
