package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	"github.com/riskibarqy/hoops-hub/internal/domain/standings"
	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
)

var errStubUpstream = errors.New("upstream unavailable")

// stubProvider implements every provider interface from canned data. Nil
// maps or set *Err fields make the matching call fail.
type stubProvider struct {
	coreIDs       []string
	coreIDsErr    error
	coreTeam      statvalue.Line
	coreAthletes  map[string]athlete.Athlete
	coreLines     map[string]statvalue.Line
	siteTeam      ExternalSiteTeam
	siteTeamErr   error
	siteRoster    []athlete.Athlete
	siteRosterErr error
	siteLines     map[string]statvalue.Line
	historical    []athlete.Athlete
	historyErr    error

	regular    []game.GameRecord
	regularErr error
	post       []game.GameRecord
	postErr    error

	table    []standings.Entry
	tableErr error
	poll     standings.Poll
	pollErr  error

	boxes    map[string]ExternalBoxScores
	liveSnap map[string]live.Snapshot
	liveErr  error

	mu             sync.Mutex
	coreDetailHits map[string]int
	siteStatHits   atomic.Int32
	boxHits        atomic.Int32
	historyHits    atomic.Int32
	liveHits       atomic.Int32
	seasonsSeen    []int
}

func (p *stubProvider) FetchCoreAthleteIDs(_ context.Context, _ int) ([]string, error) {
	return p.coreIDs, p.coreIDsErr
}

func (p *stubProvider) FetchCoreTeamStats(_ context.Context, _ int) (statvalue.Line, error) {
	if p.coreTeam == nil {
		return nil, errStubUpstream
	}
	return p.coreTeam, nil
}

func (p *stubProvider) FetchCoreAthlete(_ context.Context, _ int, athleteID string) (athlete.Athlete, error) {
	p.mu.Lock()
	if p.coreDetailHits == nil {
		p.coreDetailHits = map[string]int{}
	}
	p.coreDetailHits[athleteID]++
	p.mu.Unlock()

	a, ok := p.coreAthletes[athleteID]
	if !ok {
		return athlete.Athlete{}, errStubUpstream
	}
	return a, nil
}

func (p *stubProvider) FetchCoreAthleteStats(_ context.Context, _ int, athleteID string) (ExternalPlayerLine, error) {
	line, ok := p.coreLines[athleteID]
	if !ok {
		return ExternalPlayerLine{}, errStubUpstream
	}
	return ExternalPlayerLine{AthleteID: athleteID, Line: line}, nil
}

func (p *stubProvider) FetchSiteTeam(_ context.Context, _ int) (ExternalSiteTeam, error) {
	return p.siteTeam, p.siteTeamErr
}

func (p *stubProvider) FetchSiteRoster(_ context.Context, _ int) ([]athlete.Athlete, error) {
	return p.siteRoster, p.siteRosterErr
}

func (p *stubProvider) FetchSiteAthleteStats(_ context.Context, athleteID string) (ExternalPlayerLine, error) {
	p.siteStatHits.Add(1)
	line, ok := p.siteLines[athleteID]
	if !ok {
		return ExternalPlayerLine{}, errStubUpstream
	}
	return ExternalPlayerLine{AthleteID: athleteID, Line: line}, nil
}

func (p *stubProvider) FetchHistoricalRoster(_ context.Context, _ int) ([]athlete.Athlete, error) {
	p.historyHits.Add(1)
	return p.historical, p.historyErr
}

func (p *stubProvider) FetchSchedule(_ context.Context, seasonYear int, seasonType game.SeasonType) ([]game.GameRecord, error) {
	p.mu.Lock()
	p.seasonsSeen = append(p.seasonsSeen, seasonYear)
	p.mu.Unlock()

	if seasonType == game.SeasonTypePost {
		return p.post, p.postErr
	}
	return p.regular, p.regularErr
}

func (p *stubProvider) FetchStandings(_ context.Context, _ int) ([]standings.Entry, error) {
	return p.table, p.tableErr
}

func (p *stubProvider) FetchRankings(_ context.Context) (standings.Poll, error) {
	return p.poll, p.pollErr
}

func (p *stubProvider) FetchBoxScores(_ context.Context, gameID string) (ExternalBoxScores, error) {
	p.boxHits.Add(1)
	box, ok := p.boxes[gameID]
	if !ok {
		return ExternalBoxScores{}, errStubUpstream
	}
	return box, nil
}

func (p *stubProvider) FetchLiveSnapshot(_ context.Context, gameID string) (live.Snapshot, bool, error) {
	p.liveHits.Add(1)
	if p.liveErr != nil {
		return live.Snapshot{}, false, p.liveErr
	}
	snap, ok := p.liveSnap[gameID]
	return snap, ok, nil
}

type fixedIDs struct{ id string }

func (f fixedIDs) NewID() (string, error) { return f.id, nil }

func completedGame(id string, day int, box bool) game.GameRecord {
	us, them := 75, 68
	g := game.GameRecord{
		ID:            id,
		StartsAt:      time.Date(2025, 11, day, 0, 0, 0, 0, time.UTC),
		SeasonType:    game.SeasonTypeRegular,
		Opponent:      game.Opponent{ID: "opp-" + id, Name: "Opponent " + id},
		Site:          game.SiteHome,
		Result:        game.ResultWin,
		TeamScore:     &us,
		OpponentScore: &them,
		Status:        game.Status{State: game.StatePost},
	}
	if box {
		b := referenceBoxes()
		g.TeamBox, g.OpponentBox = b.Team, b.Opponent
	}
	return g
}

func referenceBoxes() ExternalBoxScores {
	return ExternalBoxScores{
		Team:     &game.BoxScore{FieldGoalsAttempted: 60, FreeThrowsAttempted: 20, OffensiveRebounds: 10, Turnovers: 12, Points: 75},
		Opponent: &game.BoxScore{FieldGoalsAttempted: 58, FreeThrowsAttempted: 18, OffensiveRebounds: 9, Turnovers: 14, Points: 68},
	}
}

func ptrFloat(v float64) *float64 {
	return &v
}
