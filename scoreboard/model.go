package scoreboard

import (
	"context"
	"time"

	club "temporal-club-tracker"

	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeMatch mode = iota
	modeTable
	modeAll
)

const fetchTimeout = 30 * time.Second

type fetchedMsg struct {
	data club.ClubData
	err  error
}

// Both timers carry the generation they were started in; a tick from an
// older generation is dropped.
type countdownTickMsg struct{ gen int }

type refreshTickMsg struct{ gen int }

// Model is the Bubble Tea model of the terminal scoreboard.
type Model struct {
	fetcher Fetcher
	policy  club.PickPolicy
	now     func() time.Time

	board    club.Board
	loaded   bool
	fetching bool
	err      error
	mode     mode

	countdownGen int
	refreshGen   int
	interval     time.Duration

	width int
}

// NewModel returns a model whose Init starts the first fetch, so it is
// created with that fetch already in flight.
func NewModel(fetcher Fetcher, policy club.PickPolicy) Model {
	return Model{
		fetcher:  fetcher,
		policy:   policy,
		now:      time.Now,
		interval: club.SlowRefreshInterval,
		fetching: true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) fetch() tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		data, err := fetcher.FetchClub(ctx)
		return fetchedMsg{data: data, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case fetchedMsg:
		m.fetching = false
		if msg.err != nil {
			m.err = msg.err
			if !m.loaded {
				// The first load is not retried automatically; r retries.
				return m, nil
			}
			cmd := m.scheduleRefresh()
			return m, cmd
		}

		now := m.now()
		if m.loaded {
			m.board = m.board.Refresh(msg.data, now)
		} else {
			m.board = club.NewBoard(msg.data, now, m.policy)
			m.loaded = true
		}
		m.err = nil
		m.interval = club.RefreshInterval(msg.data.ClubDetail.Competitions, now)
		refresh := m.scheduleRefresh()
		countdown := m.restartCountdown()
		return m, tea.Batch(refresh, countdown)

	case refreshTickMsg:
		if msg.gen != m.refreshGen || m.fetching {
			return m, nil
		}
		m.fetching = true
		return m, m.fetch()

	case countdownTickMsg:
		if msg.gen != m.countdownGen {
			return m, nil
		}
		if _, running := m.board.Tick(m.now()); !running {
			return m, nil
		}
		return m, m.countdownTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.fetching {
			return m, nil
		}
		m.fetching = true
		return m, m.fetch()
	}

	if !m.loaded {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.board = m.board.Prev()
		cmd := m.restartCountdown()
		return m, cmd
	case "right", "l":
		m.board = m.board.Next()
		cmd := m.restartCountdown()
		return m, cmd
	case "tab":
		m.board = m.board.NextCompetition()
	case "t":
		if m.mode == modeTable {
			m.mode = modeMatch
		} else {
			m.mode = modeTable
		}
	case "a":
		if m.mode == modeAll {
			m.mode = modeMatch
		} else {
			m.mode = modeAll
		}
	}
	return m, nil
}

// scheduleRefresh replaces any pending refresh timer.
func (m *Model) scheduleRefresh() tea.Cmd {
	m.refreshGen++
	gen := m.refreshGen
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

// restartCountdown invalidates the running countdown and starts a new one
// when the selected match has not kicked off yet.
func (m *Model) restartCountdown() tea.Cmd {
	m.countdownGen++
	if _, running := m.board.Tick(m.now()); !running {
		return nil
	}
	return m.countdownTick()
}

func (m Model) countdownTick() tea.Cmd {
	gen := m.countdownGen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}
