package club

import (
	"sort"
	"time"
)

// Tab is one competition button above the league table.
type Tab struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// CompetitionTabs lists the table competitions, marking the active one.
func CompetitionTabs(table ClubTable, active int) []Tab {
	tabs := make([]Tab, 0, len(table.Competitions))
	for i, c := range table.Competitions {
		tabs = append(tabs, Tab{Index: i, Name: competitionName(c.Name, c.Code), Active: i == active})
	}
	return tabs
}

// StandingsView is the league table of one competition.
type StandingsView struct {
	Competition string     `json:"competition"`
	Rows        []Standing `json:"rows"`
}

// Standings returns the table of competition index, clamped to the available
// competitions. ok is false when the club has no tables at all.
func Standings(table ClubTable, index int) (StandingsView, bool) {
	if len(table.Competitions) == 0 {
		return StandingsView{}, false
	}
	comp := table.Competitions[min(max(index, 0), len(table.Competitions)-1)]

	rows := make([]Standing, len(comp.Table.Overall))
	for i, r := range comp.Table.Overall {
		r.TeamLogo = orDefault(r.TeamLogo, DefaultLogo)
		rows[i] = r
	}
	return StandingsView{Competition: competitionName(comp.Name, comp.Code), Rows: rows}, true
}

// MatchRow is one entry of the all-matches listing.
type MatchRow struct {
	Home      string    `json:"home"`
	HomeLogo  string    `json:"homeLogo"`
	Away      string    `json:"away"`
	AwayLogo  string    `json:"awayLogo"`
	HomeScore string    `json:"homeScore"`
	AwayScore string    `json:"awayScore"`
	DateVenue string    `json:"dateVenue"`
	Link      string    `json:"link"`
	Kickoff   time.Time `json:"kickoff"`
}

// CompetitionMatches groups the listing by competition.
type CompetitionMatches struct {
	Competition string     `json:"competition"`
	Matches     []MatchRow `json:"matches"`
}

const (
	maxListCompetition = 40
	maxListTeam        = 22
	maxListDateVenue   = 36
)

// AllMatches lists every dated match per competition, newest first.
// Competitions without a dated match are left out.
func AllMatches(detail ClubDetail) []CompetitionMatches {
	var out []CompetitionMatches
	for _, comp := range detail.Competitions {
		type dated struct {
			m     Match
			start time.Time
		}
		var ms []dated
		for _, m := range comp.Matches {
			if start, ok := m.Start(); ok {
				ms = append(ms, dated{m, start})
			}
		}
		if len(ms) == 0 {
			continue
		}
		sort.SliceStable(ms, func(i, j int) bool { return ms[i].start.After(ms[j].start) })

		rows := make([]MatchRow, 0, len(ms))
		for _, d := range ms {
			score := orDefault(d.m.Score, TextNoScore)
			home, away, ok := ScoreParts(score)
			if !ok {
				home, away = score, ""
			}
			dateVenue := d.m.DateTime
			if d.m.Venue != "" {
				dateVenue += ", " + d.m.Venue
			}
			rows = append(rows, MatchRow{
				Home:      truncate(d.m.Home, maxListTeam),
				HomeLogo:  orDefault(d.m.HomeLogoURL, DefaultLogo),
				Away:      truncate(d.m.Away, maxListTeam),
				AwayLogo:  orDefault(d.m.AwayLogoURL, DefaultLogo),
				HomeScore: orDefault(home, TextNoScore),
				AwayScore: orDefault(away, TextNoScore),
				DateVenue: truncate(dateVenue, maxListDateVenue),
				Link:      firstNonEmpty(d.m.ReportURL, comp.MatchesLink, detail.URL, "#"),
				Kickoff:   d.start,
			})
		}
		out = append(out, CompetitionMatches{
			Competition: truncate(competitionName(comp.Name, comp.Code), maxListCompetition),
			Matches:     rows,
		})
	}
	return out
}
