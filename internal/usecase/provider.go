package usecase

import (
	"context"

	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	"github.com/riskibarqy/hoops-hub/internal/domain/standings"
	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
)

// RosterProvider exposes both upstream paths for roster and season stats.
// The Core* methods read the reference-linked API, the Site* methods the
// primary site API.
type RosterProvider interface {
	FetchCoreAthleteIDs(ctx context.Context, season int) ([]string, error)
	FetchCoreTeamStats(ctx context.Context, season int) (statvalue.Line, error)
	FetchCoreAthlete(ctx context.Context, season int, athleteID string) (athlete.Athlete, error)
	FetchCoreAthleteStats(ctx context.Context, season int, athleteID string) (ExternalPlayerLine, error)
	FetchSiteTeam(ctx context.Context, season int) (ExternalSiteTeam, error)
	FetchSiteRoster(ctx context.Context, season int) ([]athlete.Athlete, error)
	FetchSiteAthleteStats(ctx context.Context, athleteID string) (ExternalPlayerLine, error)
}

// HistoricalRosterProvider is the last-resort roster source for past seasons.
type HistoricalRosterProvider interface {
	FetchHistoricalRoster(ctx context.Context, season int) ([]athlete.Athlete, error)
}

type ScheduleProvider interface {
	FetchSchedule(ctx context.Context, season int, seasonType game.SeasonType) ([]game.GameRecord, error)
}

type StandingsProvider interface {
	FetchStandings(ctx context.Context, season int) ([]standings.Entry, error)
	FetchRankings(ctx context.Context) (standings.Poll, error)
}

type GameSummaryProvider interface {
	FetchBoxScores(ctx context.Context, gameID string) (ExternalBoxScores, error)
	FetchLiveSnapshot(ctx context.Context, gameID string) (live.Snapshot, bool, error)
}

type ExternalPlayerLine struct {
	AthleteID string
	Line      statvalue.Line
}

// ExternalSiteTeam is the site team resource: the embedded athlete list,
// the team statistics block, and any per-athlete lines it carried.
type ExternalSiteTeam struct {
	Athletes    []athlete.Athlete
	TeamStats   statvalue.Line
	PlayerLines []ExternalPlayerLine
}

// ExternalBoxScores holds both sides of a summary; either may be nil.
type ExternalBoxScores struct {
	Team     *game.BoxScore
	Opponent *game.BoxScore
}
