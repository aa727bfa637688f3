package club

import (
	"fmt"
	"sort"
	"time"
)

// PickPolicy decides which candidate a competition contributes to the board.
type PickPolicy int

const (
	// PreferRecentResult keeps a result visible for ResultWindow after kickoff,
	// then moves on to the next fixture.
	PreferRecentResult PickPolicy = iota
	// PreferUpcoming always shows the next fixture when there is one.
	PreferUpcoming
)

func (p PickPolicy) String() string {
	switch p {
	case PreferRecentResult:
		return "recent"
	case PreferUpcoming:
		return "upcoming"
	}
	return fmt.Sprintf("PickPolicy(%d)", int(p))
}

// ParsePickPolicy accepts the names returned by String.
func ParsePickPolicy(s string) (PickPolicy, error) {
	switch s {
	case "", "recent":
		return PreferRecentResult, nil
	case "upcoming":
		return PreferUpcoming, nil
	}
	return 0, fmt.Errorf("unknown pick policy %q", s)
}

// Candidates picks at most one match per competition and returns the picks
// ordered by kickoff. Matches that started before now-ResultWindow, or whose
// date_time does not parse, are skipped.
func Candidates(comps []Competition, now time.Time, policy PickPolicy) []Candidate {
	windowStart := now.Add(-ResultWindow)

	var picks []Candidate
	for ci, comp := range comps {
		ref := CompetitionRef{ID: comp.ID, Code: comp.Code, Name: comp.Name, MatchesLink: comp.MatchesLink}

		var inWindow []Candidate
		for _, m := range comp.Matches {
			start, ok := m.Start()
			if !ok || start.Before(windowStart) {
				continue
			}
			inWindow = append(inWindow, Candidate{CompetitionIndex: ci, Competition: ref, Match: m, Start: start})
		}
		if len(inWindow) == 0 {
			continue
		}
		sort.SliceStable(inWindow, func(i, j int) bool {
			return inWindow[i].Start.Before(inWindow[j].Start)
		})

		picks = append(picks, pick(inWindow, now, policy))
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Start.Before(picks[j].Start)
	})
	return picks
}

// pick expects sorted, non-empty candidates of a single competition.
func pick(sorted []Candidate, now time.Time, policy PickPolicy) Candidate {
	if policy == PreferRecentResult {
		for i := len(sorted) - 1; i >= 0; i-- {
			if sorted[i].Start.Before(now) {
				return sorted[i]
			}
		}
	}
	for _, c := range sorted {
		if !c.Start.Before(now) {
			return c
		}
	}
	return sorted[len(sorted)-1]
}

// PreferredIndex is the default cursor: the latest pick that kicked off within
// ResultWindow, else the first future pick, else the last. It returns -1 for an
// empty list.
func PreferredIndex(items []Candidate, now time.Time) int {
	if len(items) == 0 {
		return -1
	}

	latest := -1
	for i, it := range items {
		if it.Start.After(now) || now.Sub(it.Start) > ResultWindow {
			continue
		}
		if latest == -1 || it.Start.After(items[latest].Start) {
			latest = i
		}
	}
	if latest != -1 {
		return latest
	}

	for i, it := range items {
		if !it.Start.Before(now) {
			return i
		}
	}
	return len(items) - 1
}

// WithinMatchWindow reports whether any dated match is within LiveWindow of now.
func WithinMatchWindow(comps []Competition, now time.Time) bool {
	for _, comp := range comps {
		for _, m := range comp.Matches {
			start, ok := m.Start()
			if !ok {
				continue
			}
			if absDuration(now.Sub(start)) <= LiveWindow {
				return true
			}
		}
	}
	return false
}

// RefreshInterval is the wait before the next refetch of the club data.
func RefreshInterval(comps []Competition, now time.Time) time.Duration {
	if WithinMatchWindow(comps, now) {
		return FastRefreshInterval
	}
	return SlowRefreshInterval
}

// Cycle moves index by delta within [0, length).
func Cycle(index, delta, length int) int {
	if length <= 0 {
		return 0
	}
	i := (index + delta) % length
	if i < 0 {
		i += length
	}
	return i
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
