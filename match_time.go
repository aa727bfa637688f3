package club

import (
	"strings"
	"time"
)

// MatchTimeLayout is the FACR date_time format, e.g. "03.11.2024 20:00".
const MatchTimeLayout = "02.01.2006 15:04"

// ParseMatchTime reads a FACR date_time as civil time in Prague.
// It reports false for empty or malformed input; callers treat such a match as undated.
func ParseMatchTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(MatchTimeLayout, s, Prague)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Start returns the parsed kickoff time.
func (m Match) Start() (time.Time, bool) {
	return ParseMatchTime(m.DateTime)
}

// DateToken is the "DD.MM.YYYY" half of DateTime.
func (m Match) DateToken() string {
	d, _, _ := strings.Cut(strings.TrimSpace(m.DateTime), " ")
	return d
}

// TimeToken is the "HH:MM" half of DateTime, empty when absent.
func (m Match) TimeToken() string {
	_, t, _ := strings.Cut(strings.TrimSpace(m.DateTime), " ")
	return strings.TrimSpace(t)
}
