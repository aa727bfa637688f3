package club

import (
	"fmt"
	"strings"
	"time"
)

// Display strings. The club site is Czech.
const (
	TextStartsIn   = "Začátek za"
	TextLive       = "Právě probíhá"
	TextResult     = "Výsledek:"
	TextFinished   = "Ukončeno"
	TextMidPrefix  = "Za"
	TextNoScore    = "-"
	TextTimeTBD    = "Bude upřesněno"
	TextNoMatches  = "Žádné nadcházející zápasy"
	TextLoadFailed = "Nepodařilo se načíst zápasy."

	LabelLive     = "Aktuální zápas"
	LabelUpcoming = "Nadcházející zápas"
	LabelLast     = "Poslední zápas"
	LabelMatches  = "Zápasy"

	DefaultCompetitionName = "Soutěž"
)

// Phase classifies a match relative to now.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseUpcoming
	PhaseLive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseUpcoming:
		return "upcoming"
	case PhaseLive:
		return "live"
	case PhaseFinished:
		return "finished"
	}
	return "none"
}

// Status is the derived state of a match at a given instant.
//
// Phase uses the header rules: anything within LiveWindow is live, even before
// kickoff. Text follows the status line rules, where a future kickoff always
// shows the countdown.
type Status struct {
	Phase     Phase
	Text      string
	Remaining time.Duration
}

// MatchStatus derives the status of m, kicking off at start, as seen at now.
func MatchStatus(m Match, start, now time.Time) Status {
	diff := start.Sub(now)

	var s Status
	switch {
	case absDuration(diff) <= LiveWindow:
		s.Phase = PhaseLive
	case diff > 0:
		s.Phase = PhaseUpcoming
	case -diff < ResultWindow:
		s.Phase = PhaseFinished
	}

	switch {
	case diff > 0:
		s.Remaining = diff
		s.Text = TextStartsIn + " " + FormatCountdown(diff)
	case absDuration(diff) <= LiveWindow:
		s.Text = TextLive
	case -diff < ResultWindow:
		s.Text = ResultText(m.Score)
	}
	return s
}

// ResultText is the status line once a match has been played.
func ResultText(score string) string {
	if score == "" {
		return TextFinished
	}
	return TextResult + " " + score
}

// FormatCountdown renders d as "2d 3h 15m". Days are dropped when zero and
// hours only when days are zero too. Non-positive durations render as "0m".
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	totalMin := int64(d / time.Minute)
	days := totalMin / (60 * 24)
	hours := (totalMin - days*60*24) / 60
	mins := totalMin % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", mins))
	return strings.Join(parts, " ")
}

// FormatCountdownLong renders d as "2d 03:15:09", or "03:15:09" under a day.
func FormatCountdownLong(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSec := int64(d / time.Second)
	days := totalSec / (24 * 3600)
	hours := (totalSec % (24 * 3600)) / 3600
	mins := (totalSec % 3600) / 60
	secs := totalSec % 60

	clock := fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
	if days > 0 {
		return fmt.Sprintf("%dd %s", days, clock)
	}
	return clock
}

// ScoreParts splits "4:2" into its halves. ok is false without a colon.
func ScoreParts(score string) (home, away string, ok bool) {
	home, away, ok = strings.Cut(score, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(home), strings.TrimSpace(away), true
}
