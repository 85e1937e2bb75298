package season

import (
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/analytics"
	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/playerstats"
	"github.com/riskibarqy/hoops-hub/internal/domain/standings"
	"github.com/riskibarqy/hoops-hub/internal/domain/teamstats"
)

// Section names an independently loaded part of a snapshot.
type Section string

const (
	SectionRoster    Section = "roster"
	SectionStats     Section = "stats"
	SectionSchedule  Section = "schedule"
	SectionAnalytics Section = "analytics"
	SectionStandings Section = "standings"
	SectionRankings  Section = "rankings"
)

var AllSections = []Section{
	SectionRoster,
	SectionStats,
	SectionSchedule,
	SectionAnalytics,
	SectionStandings,
	SectionRankings,
}

// SectionStatus records whether a section loaded. An unavailable section is
// shown as a placeholder, never as an error.
type SectionStatus struct {
	Available bool
	Reason    string
	Items     int
}

func Available(items int) SectionStatus {
	return SectionStatus{Available: true, Items: items}
}

func Unavailable(reason string) SectionStatus {
	return SectionStatus{Reason: reason}
}

// Snapshot is the full canonical view of one season. A pipeline run builds
// a new Snapshot and swaps it in; snapshots are never edited in place.
type Snapshot struct {
	Season      int
	RunID       string
	Roster      []athlete.Athlete
	PlayerStats []playerstats.PlayerStats
	TeamStats   teamstats.TeamStats
	Schedule    []game.GameRecord
	Analytics   []analytics.Row
	Standings   []standings.Entry
	Rankings    standings.Poll
	Sections    map[Section]SectionStatus
	StartedAt   time.Time
	CompletedAt time.Time
}

func (s Snapshot) Status(section Section) SectionStatus {
	if st, ok := s.Sections[section]; ok {
		return st
	}
	return Unavailable("not loaded")
}

// NextGame returns the earliest unplayed game starting after now.
func (s Snapshot) NextGame(now time.Time) (game.GameRecord, bool) {
	var (
		next  game.GameRecord
		found bool
	)
	for _, g := range s.Schedule {
		if !g.Upcoming(now) {
			continue
		}
		if !found || g.StartsAt.Before(next.StartsAt) {
			next = g
			found = true
		}
	}
	return next, found
}

// LiveGame returns the game currently in progress, if any.
func (s Snapshot) LiveGame() (game.GameRecord, bool) {
	for _, g := range s.Schedule {
		if g.InProgress() {
			return g, true
		}
	}
	return game.GameRecord{}, false
}

// PlayerStatsFor returns the stats line for an athlete id.
func (s Snapshot) PlayerStatsFor(athleteID string) (playerstats.PlayerStats, bool) {
	for _, p := range s.PlayerStats {
		if p.AthleteID == athleteID {
			return p, true
		}
	}
	return playerstats.PlayerStats{}, false
}
