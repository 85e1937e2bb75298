package espn

import (
	"context"

	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	"github.com/riskibarqy/hoops-hub/internal/domain/standings"
	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
	nz "github.com/riskibarqy/hoops-hub/internal/normalize"
	"github.com/riskibarqy/hoops-hub/internal/usecase"
)

var (
	_ usecase.RosterProvider      = (*Client)(nil)
	_ usecase.ScheduleProvider    = (*Client)(nil)
	_ usecase.StandingsProvider   = (*Client)(nil)
	_ usecase.GameSummaryProvider = (*Client)(nil)
)

func (c *Client) FetchCoreAthleteIDs(ctx context.Context, season int) ([]string, error) {
	payload, err := c.CoreTeamAthletes(ctx, season)
	if err != nil {
		return nil, err
	}
	return nz.RefIDs(payload), nil
}

func (c *Client) FetchCoreTeamStats(ctx context.Context, season int) (statvalue.Line, error) {
	payload, err := c.CoreTeamStatistics(ctx, season)
	if err != nil {
		return nil, err
	}
	return nz.ExtractTeamStats(payload), nil
}

func (c *Client) FetchCoreAthlete(ctx context.Context, season int, athleteID string) (athlete.Athlete, error) {
	payload, err := c.CoreAthlete(ctx, season, athleteID)
	if err != nil {
		return athlete.Athlete{}, err
	}
	a := nz.CoreAthlete(athleteID, payload)
	a.ProfileURL = ProfileURL(a.ID)
	return a, nil
}

func (c *Client) FetchCoreAthleteStats(ctx context.Context, season int, athleteID string) (usecase.ExternalPlayerLine, error) {
	payload, err := c.CoreAthleteStatistics(ctx, season, athleteID)
	if err != nil {
		return usecase.ExternalPlayerLine{}, err
	}
	return usecase.ExternalPlayerLine{
		AthleteID: CoreStatsAthleteID(payload, athleteID),
		Line:      nz.ExtractPlayerStats(payload),
	}, nil
}

func (c *Client) FetchSiteTeam(ctx context.Context, season int) (usecase.ExternalSiteTeam, error) {
	payload, err := c.Team(ctx, season)
	if err != nil {
		return usecase.ExternalSiteTeam{}, err
	}

	out := usecase.ExternalSiteTeam{
		Athletes:  withProfiles(nz.Athletes(TeamAthletes(payload))),
		TeamStats: nz.ExtractTeamStats(payload),
	}
	for _, pl := range TeamPlayerLines(payload) {
		out.PlayerLines = append(out.PlayerLines, usecase.ExternalPlayerLine{AthleteID: pl.AthleteID, Line: pl.Line})
	}
	return out, nil
}

func (c *Client) FetchSiteRoster(ctx context.Context, season int) ([]athlete.Athlete, error) {
	payload, err := c.Roster(ctx, season)
	if err != nil {
		return nil, err
	}
	return withProfiles(nz.Athletes(nz.Dig(payload, "athletes"))), nil
}

func (c *Client) FetchSiteAthleteStats(ctx context.Context, athleteID string) (usecase.ExternalPlayerLine, error) {
	payload, err := c.Athlete(ctx, athleteID)
	if err != nil {
		return usecase.ExternalPlayerLine{}, err
	}
	pl := AthleteLine(athleteID, payload)
	return usecase.ExternalPlayerLine{AthleteID: pl.AthleteID, Line: pl.Line}, nil
}

func (c *Client) FetchSchedule(ctx context.Context, season int, seasonType game.SeasonType) ([]game.GameRecord, error) {
	payload, err := c.Schedule(ctx, season, seasonType)
	if err != nil {
		return nil, err
	}
	return ParseSchedule(payload, c.teamID, seasonType), nil
}

func (c *Client) FetchStandings(ctx context.Context, season int) ([]standings.Entry, error) {
	payload, err := c.Standings(ctx, season)
	if err != nil {
		return nil, err
	}
	return ParseStandings(payload), nil
}

func (c *Client) FetchRankings(ctx context.Context) (standings.Poll, error) {
	payload, err := c.Rankings(ctx)
	if err != nil {
		return standings.Poll{}, err
	}
	return ParseRankings(payload), nil
}

func (c *Client) FetchBoxScores(ctx context.Context, gameID string) (usecase.ExternalBoxScores, error) {
	payload, err := c.Summary(ctx, gameID)
	if err != nil {
		return usecase.ExternalBoxScores{}, err
	}
	ours, theirs := ParseSummaryBox(payload, c.teamID)
	return usecase.ExternalBoxScores{Team: ours, Opponent: theirs}, nil
}

func (c *Client) FetchLiveSnapshot(ctx context.Context, gameID string) (live.Snapshot, bool, error) {
	payload, err := c.Summary(ctx, gameID)
	if err != nil {
		return live.Snapshot{}, false, err
	}
	snap, ok := ParseLive(payload, c.teamID, c.now())
	if ok && snap.GameID == "" {
		snap.GameID = gameID
	}
	return snap, ok, nil
}

// withProfiles fills profile links for athletes carrying an upstream id.
func withProfiles(items []athlete.Athlete) []athlete.Athlete {
	for i := range items {
		if items[i].ProfileURL == "" && isNumericID(items[i].ID) {
			items[i].ProfileURL = ProfileURL(items[i].ID)
		}
	}
	return items
}

func isNumericID(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
