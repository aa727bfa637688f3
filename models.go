package club

import "time"

// FACR proxy response models

// ClubData is the combined document served as /data/club.json.
type ClubData struct {
	FetchedAt  time.Time  `json:"fetched_at"`
	ClubDetail ClubDetail `json:"club_detail"`
	ClubTable  ClubTable  `json:"club_table"`
}

type ClubDetail struct {
	Name         string        `json:"name"`
	ClubID       string        `json:"club_id"`
	ClubType     string        `json:"club_type"`
	URL          string        `json:"url"`
	LogoURL      string        `json:"logo_url"`
	Address      string        `json:"address"`
	Category     string        `json:"category"`
	Competitions []Competition `json:"competitions"`
}

type Competition struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	TeamCount   string  `json:"team_count"`
	MatchesLink string  `json:"matches_link"`
	Matches     []Match `json:"matches"`
}

// Match is a single fixture. DateTime is civil time in Prague, "02.01.2006 15:04".
type Match struct {
	DateTime    string `json:"date_time"`
	Home        string `json:"home"`
	HomeID      string `json:"home_id"`
	HomeLogoURL string `json:"home_logo_url"`
	Away        string `json:"away"`
	AwayID      string `json:"away_id"`
	AwayLogoURL string `json:"away_logo_url"`
	Score       string `json:"score"`
	Venue       string `json:"venue"`
	MatchID     string `json:"match_id"`
	ReportURL   string `json:"report_url"`
	FacrLink    string `json:"facr_link"`
}

type ClubTable struct {
	Name         string             `json:"name"`
	ClubID       string             `json:"club_id"`
	ClubType     string             `json:"club_type"`
	LogoURL      string             `json:"logo_url"`
	Competitions []TableCompetition `json:"competitions"`
}

type TableCompetition struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	TeamCount   string `json:"team_count"`
	MatchesLink string `json:"matches_link"`
	Table       struct {
		Overall []Standing `json:"overall"`
	} `json:"table"`
}

// Standing is one row of a league table. The upstream sends every column as a string.
type Standing struct {
	Rank     string `json:"rank"`
	Team     string `json:"team"`
	TeamID   string `json:"team_id"`
	TeamLogo string `json:"team_logo_url"`
	Played   string `json:"played"`
	Wins     string `json:"wins"`
	Draws    string `json:"draws"`
	Losses   string `json:"losses"`
	Score    string `json:"score"`
	Points   string `json:"points"`
}

// Candidate is a match eligible for display, paired with its parsed start time
// and the competition it was picked from.
type Candidate struct {
	CompetitionIndex int
	Competition      CompetitionRef
	Match            Match
	Start            time.Time
}

// CompetitionRef carries the competition fields the views need, without the match list.
type CompetitionRef struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	MatchesLink string `json:"matches_link"`
}

// SelectionState is the scoreboard cursor.
type SelectionState struct {
	CompetitionIndex int `json:"competitionIndex"`
	MatchIndex       int `json:"matchIndex"`
}

// Notification is a single message for a notification channel
type Notification struct {
	Title   string
	Message string
}

// SendNotifications is a batch of notifications for one channel
type SendNotifications struct {
	Channel          string
	NotificationList []Notification
}

// RefreshRequest configures a ClubRefreshWorkflow run.
type RefreshRequest struct {
	// Iterations before the workflow continues as new. Zero means DefaultMaxIterations.
	MaxIterations int
	// Matches kicking off within this window get a MatchWorkflow. Zero disables watchers.
	WatchLookahead time.Duration
}

// RefreshState is returned by the refreshState query.
type RefreshState struct {
	Refreshes    int
	LastFetched  time.Time
	LastError    string
	Interval     time.Duration
	Competitions int
}
