package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/season"
	"github.com/riskibarqy/hoops-hub/internal/domain/standings"
	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
	"github.com/riskibarqy/hoops-hub/internal/domain/teamstats"
	"github.com/riskibarqy/hoops-hub/internal/infrastructure/repository/memory"
	seasonmock "github.com/riskibarqy/hoops-hub/internal/mocks/domain/season"
	"github.com/riskibarqy/hoops-hub/internal/platform/cache"
)

func newSyncService(p *stubProvider, repo season.Repository, cfg SeasonSyncConfig) *SeasonSyncService {
	analyticsSvc := NewAnalyticsService(p, AnalyticsConfig{}, nil)
	return NewSeasonSyncService(p, p, p, p, analyticsSvc, repo, nil, cache.NewStore[athlete.Athlete](0), fixedIDs{id: "run-1"}, cfg, nil)
}

func TestSeasonSyncService_Sync_CorePath(t *testing.T) {
	t.Parallel()

	p := &stubProvider{
		coreIDs:  []string{"1", "2", "3"},
		coreTeam: statvalue.Line{statvalue.Points: 80.5, statvalue.Rebounds: 40, statvalue.FieldGoalPct: 0.47},
		coreAthletes: map[string]athlete.Athlete{
			"1": {ID: "1", Name: "Alpha"},
			"2": {ID: "2", Name: "Bravo"},
		},
		coreLines: map[string]statvalue.Line{
			"1": {statvalue.Points: 15},
			"3": {statvalue.Points: 4},
		},
		regular: []game.GameRecord{completedGame("g1", 5, false)},
		boxes:   map[string]ExternalBoxScores{"g1": referenceBoxes()},
		table:   []standings.Entry{{TeamID: "57", Team: "Florida"}},
		poll: standings.Poll{Name: "AP Top 25", Rows: []standings.PollRow{
			{Rank: 7, TeamID: "opp-g1", Team: "Opponent g1"},
		}},
	}
	repo := memory.NewSeasonRepository(2025)
	svc := newSyncService(p, repo, SeasonSyncConfig{CurrentSeason: 2025})

	snap, err := svc.Sync(context.Background(), 2025)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if snap.RunID != "run-1" || snap.Season != 2025 {
		t.Fatalf("unexpected snapshot identity: run=%s season=%d", snap.RunID, snap.Season)
	}
	if len(snap.Roster) != 2 {
		t.Fatalf("unexpected roster size: got=%d want=2", len(snap.Roster))
	}
	if len(snap.PlayerStats) != 2 {
		t.Fatalf("unexpected player stats size: got=%d want=2", len(snap.PlayerStats))
	}
	if snap.TeamStats.Source != teamstats.SourceDirect || *snap.TeamStats.Points != 80.5 {
		t.Fatalf("expected direct team stats, got=%+v", snap.TeamStats)
	}
	if len(snap.Analytics) != 1 || snap.Analytics[0].OffensiveRating != 104.2 {
		t.Fatalf("unexpected analytics: %+v", snap.Analytics)
	}
	if snap.Schedule[0].TeamBox == nil {
		t.Fatalf("expected schedule game enriched with box score")
	}
	if snap.Schedule[0].Opponent.Rank != 7 {
		t.Fatalf("expected opponent rank from poll, got=%d", snap.Schedule[0].Opponent.Rank)
	}
	for _, section := range season.AllSections {
		if !snap.Status(section).Available {
			t.Fatalf("expected section %s available, got=%+v", section, snap.Status(section))
		}
	}

	stored, ok, _ := repo.Get(context.Background(), 2025)
	if !ok || stored.RunID != "run-1" {
		t.Fatalf("expected snapshot stored for season 2025")
	}
}

func TestSeasonSyncService_Sync_CoreDetailsAreCached(t *testing.T) {
	t.Parallel()

	p := &stubProvider{
		coreIDs:      []string{"1"},
		coreAthletes: map[string]athlete.Athlete{"1": {ID: "1", Name: "Alpha"}},
		coreLines:    map[string]statvalue.Line{"1": {statvalue.Points: 10}},
	}
	svc := newSyncService(p, memory.NewSeasonRepository(2025), SeasonSyncConfig{})

	for range 2 {
		if _, err := svc.Sync(context.Background(), 2025); err != nil {
			t.Fatalf("sync: %v", err)
		}
	}
	if hits := p.coreDetailHits["1"]; hits != 1 {
		t.Fatalf("expected one detail fetch across runs, got=%d", hits)
	}
}

func TestSeasonSyncService_Sync_SiteFallbackSynthesizesTeamStats(t *testing.T) {
	t.Parallel()

	p := &stubProvider{
		coreIDsErr: errStubUpstream,
		siteRoster: []athlete.Athlete{
			{ID: "10", Name: "Alpha"},
			{ID: "11", Name: "Bravo", Position: "F"},
		},
		siteTeam: ExternalSiteTeam{
			Athletes:  []athlete.Athlete{{ID: "10", Name: "Alpha", Position: "G", ExperienceClass: "SR"}},
			TeamStats: statvalue.Line{statvalue.Points: 70},
		},
		siteLines: map[string]statvalue.Line{
			"10": {statvalue.Points: 12, statvalue.FieldGoalPct: 0.5, statvalue.FieldGoalAttempts: 9},
			"11": {statvalue.Points: 8, statvalue.FieldGoalPct: 0.4, statvalue.FieldGoalAttempts: 6},
		},
	}
	svc := newSyncService(p, memory.NewSeasonRepository(2025), SeasonSyncConfig{CurrentSeason: 2025})

	snap, err := svc.Sync(context.Background(), 2025)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	if len(snap.Roster) != 2 {
		t.Fatalf("unexpected roster size: got=%d want=2", len(snap.Roster))
	}
	if snap.Roster[0].Position != "G" || snap.Roster[0].ExperienceClass != "SR" {
		t.Fatalf("expected profile merged from team athletes, got=%+v", snap.Roster[0])
	}
	if snap.Roster[1].Position != "F" {
		t.Fatalf("expected existing position kept, got=%s", snap.Roster[1].Position)
	}
	if got := p.siteStatHits.Load(); got != 2 {
		t.Fatalf("expected per-athlete stats fetches, got=%d", got)
	}
	if snap.TeamStats.Source != teamstats.SourceSynthesized {
		t.Fatalf("expected synthesized team stats, got=%s", snap.TeamStats.Source)
	}
	if snap.TeamStats.Points == nil || *snap.TeamStats.Points != 20 {
		t.Fatalf("unexpected synthesized points: %v", snap.TeamStats.Points)
	}
	if snap.TeamStats.FieldGoalPct == nil || *snap.TeamStats.FieldGoalPct != 0.45 {
		t.Fatalf("unexpected synthesized fg pct: %v", snap.TeamStats.FieldGoalPct)
	}
	if p.historyHits.Load() != 0 {
		t.Fatalf("historical roster must not be used for the current season")
	}
}

func TestSeasonSyncService_Sync_SparsePastRosterUsesScrape(t *testing.T) {
	t.Parallel()

	p := &stubProvider{
		coreIDs:    nil,
		siteRoster: []athlete.Athlete{{ID: "10", Name: "Alpha"}},
		historical: []athlete.Athlete{
			{ID: "Alpha", Name: "Alpha"},
			{ID: "Bravo", Name: "Bravo"},
			{ID: "Charlie", Name: "Charlie"},
		},
	}
	svc := newSyncService(p, memory.NewSeasonRepository(2026), SeasonSyncConfig{CurrentSeason: 2026})

	snap, err := svc.Sync(context.Background(), 2019)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(snap.Roster) != 3 {
		t.Fatalf("expected scraped roster, got=%d entries", len(snap.Roster))
	}
	if got := p.siteStatHits.Load(); got != 0 {
		t.Fatalf("scraped athletes must not trigger stats fetches, got=%d", got)
	}
	if snap.Status(season.SectionStats).Available {
		t.Fatalf("expected stats section unavailable without any lines")
	}
}

func TestSeasonSyncService_Sync_StageFailuresAreIsolated(t *testing.T) {
	t.Parallel()

	p := &stubProvider{
		coreIDs:      []string{"1"},
		coreAthletes: map[string]athlete.Athlete{"1": {ID: "1", Name: "Alpha"}},
		regularErr:   errStubUpstream,
		tableErr:     errStubUpstream,
		pollErr:      errStubUpstream,
	}
	svc := newSyncService(p, memory.NewSeasonRepository(2025), SeasonSyncConfig{})

	snap, err := svc.Sync(context.Background(), 2025)
	if err != nil {
		t.Fatalf("sync must not fail on upstream errors: %v", err)
	}
	if !snap.Status(season.SectionRoster).Available {
		t.Fatalf("expected roster available")
	}
	for _, section := range []season.Section{season.SectionSchedule, season.SectionAnalytics, season.SectionStandings, season.SectionRankings} {
		st := snap.Status(section)
		if st.Available || st.Reason == "" {
			t.Fatalf("expected section %s unavailable with reason, got=%+v", section, st)
		}
	}
}

func TestSeasonSyncService_Sync_PostseasonFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	p := &stubProvider{
		regular: []game.GameRecord{completedGame("g1", 5, true)},
		postErr: errStubUpstream,
	}
	svc := newSyncService(p, memory.NewSeasonRepository(2025), SeasonSyncConfig{})

	snap, err := svc.Sync(context.Background(), 2025)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if st := snap.Status(season.SectionSchedule); !st.Available || st.Items != 1 {
		t.Fatalf("expected schedule with regular season only, got=%+v", st)
	}
	if p.boxHits.Load() != 0 {
		t.Fatalf("games with box scores must not be refetched")
	}
}

func TestSeasonSyncService_Sync_StoresUnderRequestedSeason(t *testing.T) {
	t.Parallel()

	repo := memory.NewSeasonRepository(2026)
	svc := newSyncService(&stubProvider{}, repo, SeasonSyncConfig{})

	if _, err := svc.Sync(context.Background(), 2024); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if _, ok, _ := repo.Get(context.Background(), 2026); ok {
		t.Fatalf("a run for 2024 must not write the active season")
	}
	if _, ok, _ := repo.Get(context.Background(), 2024); !ok {
		t.Fatalf("expected snapshot stored under 2024")
	}
}

func TestSeasonSyncService_Sync_InvalidSeason(t *testing.T) {
	t.Parallel()

	svc := newSyncService(&stubProvider{}, memory.NewSeasonRepository(2025), SeasonSyncConfig{})
	if _, err := svc.Sync(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSeasonSyncService_Sync_SaveErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := seasonmock.NewRepository(t)
	repo.
		On("Save", mock.Anything, mock.MatchedBy(func(s season.Snapshot) bool { return s.Season == 2025 })).
		Return(errors.New("disk full")).
		Once()

	svc := newSyncService(&stubProvider{}, repo, SeasonSyncConfig{})
	if _, err := svc.Sync(ctx, 2025); err == nil {
		t.Fatalf("expected save error")
	}
}
