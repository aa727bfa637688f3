package club

import (
	"fmt"
	"time"
)

// DefaultLogo is shown when a team has no logo URL.
const DefaultLogo = "img/logo.png"

const (
	maxCompetitionName = 60
	maxTeamName        = 24
	maxDateLine        = 40
)

// Board owns the scoreboard state: the current dataset, the candidate list
// built from it and the selection cursor. Methods return an updated copy.
type Board struct {
	data   ClubData
	policy PickPolicy
	items  []Candidate
	state  SelectionState
}

// NewBoard builds the candidate list for now and points the cursor at the
// preferred match.
func NewBoard(data ClubData, now time.Time, policy PickPolicy) Board {
	b := Board{policy: policy}
	return b.Refresh(data, now)
}

// Refresh replaces the dataset and resets the match cursor. The competition
// tab survives a refresh when it is still in range.
func (b Board) Refresh(data ClubData, now time.Time) Board {
	b.data = data
	b.items = Candidates(data.ClubDetail.Competitions, now, b.policy)
	b.state.MatchIndex = max(PreferredIndex(b.items, now), 0)
	if b.state.CompetitionIndex >= len(data.ClubTable.Competitions) {
		b.state.CompetitionIndex = 0
	}
	return b
}

func (b Board) Data() ClubData { return b.data }
func (b Board) Items() []Candidate { return b.items }
func (b Board) Len() int { return len(b.items) }
func (b Board) State() SelectionState { return b.state }
func (b Board) Policy() PickPolicy { return b.policy }

func (b Board) Next() Board {
	b.state.MatchIndex = Cycle(b.state.MatchIndex, 1, len(b.items))
	return b
}

func (b Board) Prev() Board {
	b.state.MatchIndex = Cycle(b.state.MatchIndex, -1, len(b.items))
	return b
}

// WithCursor moves the cursor to i, clamped to the candidate list.
func (b Board) WithCursor(i int) Board {
	if len(b.items) == 0 {
		b.state.MatchIndex = 0
		return b
	}
	b.state.MatchIndex = min(max(i, 0), len(b.items)-1)
	return b
}

// NextCompetition cycles the standings tab.
func (b Board) NextCompetition() Board {
	b.state.CompetitionIndex = Cycle(b.state.CompetitionIndex, 1, len(b.data.ClubTable.Competitions))
	return b
}

// WithCompetition selects the standings tab i, clamped to the table list.
func (b Board) WithCompetition(i int) Board {
	n := len(b.data.ClubTable.Competitions)
	if n == 0 {
		b.state.CompetitionIndex = 0
		return b
	}
	b.state.CompetitionIndex = min(max(i, 0), n-1)
	return b
}

// Selected returns the candidate under the cursor.
func (b Board) Selected() (Candidate, bool) {
	if len(b.items) == 0 {
		return Candidate{}, false
	}
	return b.items[min(b.state.MatchIndex, len(b.items)-1)], true
}

// MatchView is everything the featured-match widget displays.
type MatchView struct {
	Empty bool `json:"empty"`

	Competition string `json:"competition"`
	Header      string `json:"header"`
	Phase       string `json:"phase"`
	Index       int    `json:"index"`
	Count       int    `json:"count"`

	Home      string `json:"home"`
	HomeTitle string `json:"homeTitle"`
	HomeLogo  string `json:"homeLogo"`
	Away      string `json:"away"`
	AwayTitle string `json:"awayTitle"`
	AwayLogo  string `json:"awayLogo"`

	MidText    string `json:"midText"`
	StatusText string `json:"statusText"`
	HomeScore  string `json:"homeScore,omitempty"`
	AwayScore  string `json:"awayScore,omitempty"`
	Finished   bool   `json:"finished"`

	DateLine    string    `json:"dateLine"`
	TimeDisplay string    `json:"timeDisplay"`
	Link        string    `json:"link"`
	Kickoff     time.Time `json:"kickoff"`
	Counting    bool      `json:"counting"`
}

// View renders the selected candidate as of now.
func (b Board) View(now time.Time) MatchView {
	c, ok := b.Selected()
	if !ok {
		return MatchView{Empty: true, Header: TextNoMatches}
	}
	m := c.Match
	idx := min(b.state.MatchIndex, len(b.items)-1)
	status := MatchStatus(m, c.Start, now)

	v := MatchView{
		Competition: truncate(competitionName(c.Competition.Name, c.Competition.Code), maxCompetitionName),
		Phase:       status.Phase.String(),
		Index:       idx,
		Count:       len(b.items),
		Home:        truncate(m.Home, maxTeamName),
		HomeTitle:   m.Home,
		HomeLogo:    orDefault(m.HomeLogoURL, DefaultLogo),
		Away:        truncate(m.Away, maxTeamName),
		AwayTitle:   m.Away,
		AwayLogo:    orDefault(m.AwayLogoURL, DefaultLogo),
		StatusText:  status.Text,
		DateLine:    truncate(dateLine(c.Start, m.Venue), maxDateLine),
		TimeDisplay: timeDisplay(c.Start, m.TimeToken()),
		Link:        firstNonEmpty(m.FacrLink, c.Competition.MatchesLink, b.data.ClubDetail.URL, "#"),
		Kickoff:     c.Start,
		Counting:    c.Start.After(now),
	}

	switch status.Phase {
	case PhaseLive:
		v.Header = LabelLive
	case PhaseUpcoming:
		v.Header = LabelUpcoming
	case PhaseFinished:
		v.Header = LabelLast
	default:
		v.Header = fmt.Sprintf("%s (%d/%d)", LabelMatches, idx+1, len(b.items))
	}

	tick := tickView(m, c.Start, now)
	v.MidText = tick.MidText

	if status.Phase == PhaseFinished {
		if home, away, ok := ScoreParts(m.Score); ok && home != "" && away != "" {
			v.HomeScore, v.AwayScore = home, away
			v.Finished = true
		}
	}
	return v
}

// TickView is the part of MatchView refreshed by the per-second countdown.
type TickView struct {
	MidText    string `json:"midText"`
	StatusText string `json:"statusText"`
}

// Tick recomputes the countdown for the selected match. running is false once
// kickoff has passed; the caller stops ticking at that point.
func (b Board) Tick(now time.Time) (TickView, bool) {
	c, ok := b.Selected()
	if !ok {
		return TickView{}, false
	}
	return tickView(c.Match, c.Start, now), c.Start.After(now)
}

func tickView(m Match, start, now time.Time) TickView {
	diff := start.Sub(now)
	if diff > 0 {
		return TickView{
			MidText:    TextMidPrefix + " " + FormatCountdownLong(diff),
			StatusText: TextStartsIn + " " + FormatCountdown(diff),
		}
	}
	return TickView{
		MidText:    orDefault(m.Score, TextNoScore),
		StatusText: ResultText(m.Score),
	}
}

func competitionName(name, code string) string {
	return firstNonEmpty(name, code, DefaultCompetitionName)
}

func dateLine(start time.Time, venue string) string {
	s := fmt.Sprintf("%d. %d. %d", start.Day(), int(start.Month()), start.Year())
	if venue != "" {
		s += ", " + venue
	}
	return s
}

func timeDisplay(start time.Time, token string) string {
	if token == "" || token == "00:00" {
		return TextTimeTBD
	}
	return start.Format("15:04")
}

// truncate shortens s to n runes, ending with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
