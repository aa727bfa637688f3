package scoreboard

import (
	"fmt"
	"strings"

	club "temporal-club-tracker"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#e4002b")
	muted  = lipgloss.Color("#8a8a8a")
)

type styles struct {
	Header    lipgloss.Style
	LiveBadge lipgloss.Style
	Team      lipgloss.Style
	Mid       lipgloss.Style
	Status    lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Card      lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
	Help      lipgloss.Style
}

func newStyles() styles {
	return styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(accent).
			Padding(0, 1).
			Bold(true),
		LiveBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#1f9d55")).
			Padding(0, 1).
			Bold(true),
		Team: lipgloss.NewStyle().
			Width(26).
			Align(lipgloss.Center).
			Bold(true),
		Mid: lipgloss.NewStyle().
			Width(18).
			Align(lipgloss.Center).
			Foreground(accent).
			Bold(true),
		Status: lipgloss.NewStyle().
			Italic(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Error: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(accent).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}

var defaultStyles = newStyles()

const helpText = "←/→ zápas • tab soutěž • t tabulka • a všechny zápasy • r obnovit • q konec"

func (m Model) View() string {
	s := defaultStyles

	var body string
	switch {
	case !m.loaded && m.err != nil:
		body = s.Error.Render(club.TextLoadFailed)
	case !m.loaded:
		body = s.Muted.Render("Načítání…")
	case m.mode == modeTable:
		body = m.renderTable(s)
	case m.mode == modeAll:
		body = m.renderAll(s)
	default:
		body = m.renderMatch(s)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, body, s.Help.Render(helpText))
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out + "\n"
}

func (m Model) renderMatch(s styles) string {
	v := m.board.View(m.now())
	if v.Empty {
		return s.Card.Render(s.Muted.Render(v.Header))
	}

	header := s.Header.Render(v.Header)
	if v.Phase == club.PhaseLive.String() {
		header = s.LiveBadge.Render(v.Header)
	}

	teams := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Team.Render(v.Home),
		s.Mid.Render(v.MidText),
		s.Team.Render(v.Away),
	)

	lines := []string{
		header + " " + s.Muted.Render(v.Competition),
		"",
		teams,
	}
	if v.StatusText != "" {
		lines = append(lines, s.Status.Render(v.StatusText))
	}
	lines = append(lines,
		"",
		s.Muted.Render(fmt.Sprintf("%s • %s", v.DateLine, v.TimeDisplay)),
		s.Muted.Render(v.Link),
		s.Muted.Render(fmt.Sprintf("%d/%d", v.Index+1, v.Count)),
	)
	if m.err != nil {
		lines = append(lines, s.Error.Render(fmt.Sprintf("Obnovení selhalo: %v", m.err)))
	}
	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderTable(s styles) string {
	table := m.board.Data().ClubTable
	active := m.board.State().CompetitionIndex

	var tabs []string
	for _, tab := range club.CompetitionTabs(table, active) {
		if tab.Active {
			tabs = append(tabs, s.ActiveTab.Render(tab.Name))
		} else {
			tabs = append(tabs, s.Tab.Render(tab.Name))
		}
	}

	view, ok := club.Standings(table, active)
	if !ok {
		return s.Card.Render(s.Muted.Render("Tabulka není k dispozici"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-3s %-26s %3s %3s %3s %3s %7s %4s\n", "#", "Tým", "Z", "V", "R", "P", "Skóre", "B")
	for _, r := range view.Rows {
		fmt.Fprintf(&b, "%-3s %-26s %3s %3s %3s %3s %7s %4s\n",
			r.Rank, r.Team, r.Played, r.Wins, r.Draws, r.Losses, r.Score, r.Points)
	}

	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		strings.TrimRight(b.String(), "\n"),
	))
}

func (m Model) renderAll(s styles) string {
	groups := club.AllMatches(m.board.Data().ClubDetail)
	if len(groups) == 0 {
		return s.Card.Render(s.Muted.Render(club.TextNoMatches))
	}

	var lines []string
	for _, g := range groups {
		lines = append(lines, s.Header.Render(g.Competition))
		for _, r := range g.Matches {
			lines = append(lines, fmt.Sprintf("%-22s %2s:%-2s %-22s %s",
				r.Home, r.HomeScore, r.AwayScore, r.Away, s.Muted.Render(r.DateVenue)))
		}
		lines = append(lines, "")
	}
	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
