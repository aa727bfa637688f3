package club

import (
	"time"
	_ "time/tzdata"
)

const TaskQueueName = "club-tracker-task-queue"

// Upstream FACR proxy. Club detail lives at {UpstreamURL}/club/{ClubType}/{ClubID}
// and the standings at the same path with a /table suffix.
const (
	DefaultUpstreamURL = "https://facr.tdvorak.dev"
	DefaultClubID      = "441d3783-06aa-436a-b438-359300ee0371"
	DefaultClubType    = "futsal"

	// Match detail page on fotbal.cz, keyed by match_id.
	FacrMatchURLFormat = "https://www.fotbal.cz/futsal/zapasy/futsal/%s"

	// Logo used for our own club and as a fallback for missing logos.
	ClubLogoPath = "/img/logo.png"
)

// Time windows shared by the selector, the refresh loop and the match watcher.
const (
	// Matches that started longer ago than this are no longer candidates.
	ResultWindow = 3 * 24 * time.Hour
	// A match within this distance of now counts as live.
	LiveWindow = 2 * time.Hour

	FastRefreshInterval = 2 * time.Minute
	SlowRefreshInterval = 30 * time.Minute
)

// Prague is the civil timezone of every date_time in the club data.
var Prague = mustLoadLocation("Europe/Prague")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("club: cannot load location " + name + ": " + err.Error())
	}
	return loc
}
