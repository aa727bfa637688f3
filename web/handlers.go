package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	club "temporal-club-tracker"

	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
)

// MatchWatchQuery lists the running match watchers.
const MatchWatchQuery = "WorkflowId STARTS_WITH 'match-' AND ExecutionStatus = 'Running'"

type Handlers struct {
	store          club.ClubStore
	temporalClient client.Client
	policy         club.PickPolicy
	uiBaseURL      string
	logger         *slog.Logger

	now func() time.Time
}

// NewHandlers serves data from store. temporalClient may be nil, in which
// case workflow operations degrade to no-ops.
func NewHandlers(store club.ClubStore, temporalClient client.Client, cfg *club.Config, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		store:          store,
		temporalClient: temporalClient,
		policy:         cfg.Policy(),
		uiBaseURL:      workflowUIBaseURL(cfg),
		logger:         logger,
		now:            time.Now,
	}
}

// workflowUIBaseURL points at Temporal Cloud unless the host is a local dev server.
func workflowUIBaseURL(cfg *club.Config) string {
	if cfg.IsLocalTemporal() {
		return "http://localhost:8233/namespaces/" + cfg.TemporalNamespace
	}
	return "https://cloud.temporal.io/namespaces/" + cfg.TemporalNamespace
}

// MatchWorkflow represents running workflow information
type MatchWorkflow struct {
	WorkflowID  string    `json:"workflowId"`
	RunID       string    `json:"runId"`
	WorkflowURL string    `json:"workflowUrl,omitempty"`
	Status      string    `json:"status"`
	HomeTeam    string    `json:"homeTeam"`
	AwayTeam    string    `json:"awayTeam"`
	Score       string    `json:"score"`
	StartTime   time.Time `json:"startTime"`
	MatchID     string    `json:"matchId"`
}

// TableResponse is the league table widget: tabs plus the active table.
type TableResponse struct {
	Tabs      []club.Tab          `json:"tabs"`
	Standings *club.StandingsView `json:"standings,omitempty"`
}

// Routes registers every endpoint on a new mux wrapped in CORS.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/data/club.json", h.ClubJSON)
	mux.HandleFunc("/data/club.js", h.ClubJS)
	mux.HandleFunc("/api/upcoming", h.GetUpcoming)
	mux.HandleFunc("/api/table", h.GetTable)
	mux.HandleFunc("/api/matches", h.GetMatches)
	mux.HandleFunc("/api/workflows", h.GetWorkflows)
	mux.HandleFunc("/api/workflows/", h.ManageWorkflow)
	return WithCORS(mux)
}

// WithCORS adds permissive CORS headers to every response and answers
// preflight requests.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// loadData answers 503 and returns false when no data can be served.
func (h *Handlers) loadData(w http.ResponseWriter, r *http.Request) (club.ClubData, bool) {
	data, err := h.store.Load(r.Context())
	if err != nil {
		if !errors.Is(err, club.ErrNoData) {
			h.logger.Error("Failed to load club data", "error", err)
		}
		http.Error(w, club.TextLoadFailed, http.StatusServiceUnavailable)
		return club.ClubData{}, false
	}
	return data, true
}

// ClubJSON serves the stored dataset. DELETE clears it and asks the refresh
// workflow to fetch again.
func (h *Handlers) ClubJSON(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		data, ok := h.loadData(w, r)
		if !ok {
			return
		}
		writeJSON(w, data)

	case http.MethodDelete:
		if err := h.store.Delete(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("Failed to clear data: %v", err), http.StatusInternalServerError)
			return
		}

		message := "Data cleared"
		if h.temporalClient != nil {
			err := h.temporalClient.SignalWorkflow(r.Context(), club.RefreshWorkflowID, "", club.RefreshNowSignal, nil)
			if err != nil {
				h.logger.Warn("Failed to signal refresh workflow", "error", err)
			} else {
				message = "Data cleared, refresh requested"
			}
		}
		writeJSON(w, map[string]string{"message": message})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ClubJS serves the dataset as a script assigning window.FACR_DATA, for pages
// that load it with a script tag.
func (h *Handlers) ClubJS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, ok := h.loadData(w, r)
	if !ok {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode data: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte("window.FACR_DATA="))
	w.Write(payload)
	w.Write([]byte(";"))
}

// intParam reads an optional integer query parameter.
func intParam(r *http.Request, name string) (int, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, true, nil
}

// GetUpcoming returns the featured match view. Without ?index the preferred
// match is selected; any index wraps around the candidate list.
func (h *Handlers) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	index, hasIndex, err := intParam(r, "index")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, ok := h.loadData(w, r)
	if !ok {
		return
	}

	now := h.now()
	board := club.NewBoard(data, now, h.policy)
	if hasIndex {
		board = board.WithCursor(club.Cycle(index, 0, board.Len()))
	}
	writeJSON(w, board.View(now))
}

// GetTable returns the competition tabs and the table of ?comp.
func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	comp, _, err := intParam(r, "comp")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, ok := h.loadData(w, r)
	if !ok {
		return
	}

	resp := TableResponse{Tabs: club.CompetitionTabs(data.ClubTable, comp)}
	if view, ok := club.Standings(data.ClubTable, comp); ok {
		resp.Standings = &view
	}
	writeJSON(w, resp)
}

// GetMatches returns every dated match grouped by competition.
func (h *Handlers) GetMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, ok := h.loadData(w, r)
	if !ok {
		return
	}
	groups := club.AllMatches(data.ClubDetail)
	if groups == nil {
		groups = []club.CompetitionMatches{}
	}
	writeJSON(w, groups)
}

// GetWorkflows returns currently running match watchers
func (h *Handlers) GetWorkflows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	matchWorkflows := []MatchWorkflow{}

	if h.temporalClient == nil {
		writeJSON(w, matchWorkflows)
		return
	}

	listRequest := &workflowservice.ListWorkflowExecutionsRequest{
		Query: MatchWatchQuery,
	}

	resp, err := h.temporalClient.ListWorkflow(r.Context(), listRequest)
	if err != nil {
		// Log error but don't fail the request - return empty list
		h.logger.Error("Failed to list workflows", "error", err)
		writeJSON(w, matchWorkflows)
		return
	}

	for _, execution := range resp.Executions {
		workflow := MatchWorkflow{
			WorkflowID: execution.Execution.WorkflowId,
			RunID:      execution.Execution.RunId,
			Status:     execution.Status.String(),
		}
		workflow.WorkflowURL = fmt.Sprintf("%s/workflows/%s/%s", h.uiBaseURL, workflow.WorkflowID, workflow.RunID)

		if m, ok := h.queryMatchInfo(r.Context(), workflow.WorkflowID, workflow.RunID); ok {
			workflow.HomeTeam = m.Home
			workflow.AwayTeam = m.Away
			workflow.Score = m.Score
			workflow.MatchID = m.MatchID
			if start, ok := m.Start(); ok {
				workflow.StartTime = start
			}
		}

		matchWorkflows = append(matchWorkflows, workflow)
	}

	sort.Slice(matchWorkflows, func(i, j int) bool {
		return matchWorkflows[i].StartTime.Before(matchWorkflows[j].StartTime)
	})

	writeJSON(w, matchWorkflows)
}

func (h *Handlers) queryMatchInfo(ctx context.Context, workflowID, runID string) (club.Match, bool) {
	result, err := h.temporalClient.QueryWorkflow(ctx, workflowID, runID, club.MatchInfoQuery)
	if err != nil {
		h.logger.Warn("Failed to query workflow", "workflowID", workflowID, "error", err)
		return club.Match{}, false
	}
	var m club.Match
	if err := result.Get(&m); err != nil {
		h.logger.Warn("Failed to get query result", "workflowID", workflowID, "error", err)
		return club.Match{}, false
	}
	return m, true
}

// ManageWorkflow handles workflow management (cancel, etc.)
func (h *Handlers) ManageWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowID := strings.TrimPrefix(r.URL.Path, "/api/workflows/")
	if workflowID == "" {
		http.Error(w, "Workflow ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodDelete:
		if h.temporalClient == nil {
			writeJSON(w, map[string]string{
				"message": "Temporal server not connected, nothing to cancel",
			})
			return
		}

		if err := h.temporalClient.CancelWorkflow(r.Context(), workflowID, ""); err != nil {
			http.Error(w, fmt.Sprintf("Failed to cancel workflow: %v", err), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{
			"message": "Workflow cancelled successfully",
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
