package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/hoops-hub/internal/domain/analytics"
	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/playerstats"
	"github.com/riskibarqy/hoops-hub/internal/domain/season"
	"github.com/riskibarqy/hoops-hub/internal/domain/standings"
	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
	"github.com/riskibarqy/hoops-hub/internal/domain/teamstats"
	"github.com/riskibarqy/hoops-hub/internal/platform/cache"
	"github.com/riskibarqy/hoops-hub/internal/platform/id"
	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
)

const (
	defaultAthleteBatchSize      = 6
	defaultSparseRosterThreshold = 8

	rosterSourceCore    = "core"
	rosterSourceSite    = "site"
	rosterSourceScraped = "scraped"
)

type SeasonSyncConfig struct {
	// CurrentSeason separates past seasons, which may use the scraped
	// roster fallback, from the live one.
	CurrentSeason         int
	AthleteBatchSize      int
	SparseRosterThreshold int
	// StageTimeout bounds each stage of a run. Zero leaves stages bounded
	// only by the caller's context.
	StageTimeout time.Duration
}

// SeasonSyncService runs the full pipeline for one season and stores the
// resulting snapshot. Each stage fails on its own; a run never aborts
// because one upstream is down.
type SeasonSyncService struct {
	rosters   RosterProvider
	history   HistoricalRosterProvider
	schedules ScheduleProvider
	tables    StandingsProvider
	analytics *AnalyticsService
	repo      season.Repository
	mirror    SnapshotMirror
	athletes  *cache.Store[athlete.Athlete]
	ids       id.Generator
	cfg       SeasonSyncConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewSeasonSyncService(
	rosters RosterProvider,
	history HistoricalRosterProvider,
	schedules ScheduleProvider,
	tables StandingsProvider,
	analyticsService *AnalyticsService,
	repo season.Repository,
	mirror SnapshotMirror,
	athleteCache *cache.Store[athlete.Athlete],
	ids id.Generator,
	cfg SeasonSyncConfig,
	logger *logging.Logger,
) *SeasonSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if cfg.AthleteBatchSize <= 0 {
		cfg.AthleteBatchSize = defaultAthleteBatchSize
	}
	if cfg.SparseRosterThreshold <= 0 {
		cfg.SparseRosterThreshold = defaultSparseRosterThreshold
	}

	return &SeasonSyncService{
		rosters:   rosters,
		history:   history,
		schedules: schedules,
		tables:    tables,
		analytics: analyticsService,
		repo:      repo,
		mirror:    mirror,
		athletes:  athleteCache,
		ids:       ids,
		cfg:       cfg,
		logger:    logger.Named("season_sync"),
		now:       time.Now,
	}
}

type rosterResult struct {
	athletes []athlete.Athlete
	players  []playerstats.PlayerStats
	team     teamstats.TeamStats
	source   string
}

type scheduleResult struct {
	games     []game.GameRecord
	rows      []analytics.Row
	err       error
	rowsErr   error
	completed int
}

// Sync builds and saves a fresh snapshot for seasonYear. The snapshot is
// stored under seasonYear even when the active season changed mid-run, so a
// late run never overwrites another season's state.
func (s *SeasonSyncService) Sync(ctx context.Context, seasonYear int) (season.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonSyncService.Sync")
	defer span.End()

	if seasonYear <= 0 {
		return season.Snapshot{}, fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}
	if s.repo == nil || s.rosters == nil || s.schedules == nil || s.tables == nil {
		return season.Snapshot{}, fmt.Errorf("%w: season sync is not fully configured", ErrDependencyUnavailable)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate run id failed", "error", err)
	}
	logger := s.logger.With("season", seasonYear, "run_id", runID)

	snap := season.Snapshot{
		Season:    seasonYear,
		RunID:     runID,
		StartedAt: s.now().UTC(),
		Sections:  make(map[season.Section]season.SectionStatus, len(season.AllSections)),
	}
	for _, section := range season.AllSections {
		snap.Sections[section] = season.Unavailable("stage did not complete")
	}

	var (
		roster       rosterResult
		schedule     scheduleResult
		table        []standings.Entry
		tableErr     error
		poll         standings.Poll
		pollErr      error
		rosterDone   bool
		scheduleDone bool
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		stageCtx, cancel := s.stageContext(ctx)
		defer cancel()
		roster = s.loadRoster(stageCtx, seasonYear)
		rosterDone = true
	})
	wg.Go(func() {
		stageCtx, cancel := s.stageContext(ctx)
		defer cancel()
		schedule = s.loadSchedule(stageCtx, seasonYear)
		scheduleDone = true
	})
	wg.Go(func() {
		stageCtx, cancel := s.stageContext(ctx)
		defer cancel()
		table, tableErr = s.tables.FetchStandings(stageCtx, seasonYear)
	})
	wg.Go(func() {
		stageCtx, cancel := s.stageContext(ctx)
		defer cancel()
		poll, pollErr = s.tables.FetchRankings(stageCtx)
	})
	if recovered := wg.WaitAndRecover(); recovered != nil {
		logger.ErrorContext(ctx, "pipeline stage panicked", "panic", recovered.String())
	}

	if rosterDone {
		snap.Roster = roster.athletes
		snap.PlayerStats = roster.players
		snap.TeamStats = roster.team
		snap.Sections[season.SectionRoster] = countStatus(len(roster.athletes), "roster unavailable")
		if len(roster.players) > 0 || roster.team.Source == teamstats.SourceDirect {
			snap.Sections[season.SectionStats] = season.Available(len(roster.players))
		} else {
			snap.Sections[season.SectionStats] = season.Unavailable("statistics unavailable")
		}
		logger.Health(ctx, "roster", len(roster.athletes) == 0,
			"athletes", len(roster.athletes),
			"players", len(roster.players),
			"source", roster.source,
			"team_stats", string(roster.team.Source),
		)
	}

	switch {
	case !scheduleDone:
		// sections keep their not-completed status
	case schedule.err != nil:
		snap.Sections[season.SectionSchedule] = season.Unavailable("schedule unavailable")
		snap.Sections[season.SectionAnalytics] = season.Unavailable("schedule unavailable")
	default:
		snap.Schedule = schedule.games
		snap.Analytics = schedule.rows
		snap.Sections[season.SectionSchedule] = season.Available(len(schedule.games))
		if schedule.rowsErr != nil {
			snap.Sections[season.SectionAnalytics] = season.Unavailable("box scores unavailable")
		} else {
			snap.Sections[season.SectionAnalytics] = season.Available(len(schedule.rows))
		}
	}
	logger.Health(ctx, "schedule", schedule.err != nil, "games", len(schedule.games), "completed", schedule.completed, "error", schedule.err)
	logger.Health(ctx, "analytics", schedule.rowsErr != nil, "rows", len(schedule.rows), "error", schedule.rowsErr)

	if tableErr != nil {
		snap.Sections[season.SectionStandings] = season.Unavailable("standings unavailable")
	} else {
		snap.Standings = table
		snap.Sections[season.SectionStandings] = countStatus(len(table), "standings unavailable")
	}
	logger.Health(ctx, "standings", tableErr != nil || len(table) == 0, "entries", len(table), "error", tableErr)

	if pollErr != nil {
		snap.Sections[season.SectionRankings] = season.Unavailable("rankings unavailable")
	} else {
		snap.Rankings = poll
		snap.Sections[season.SectionRankings] = countStatus(len(poll.Rows), "rankings unavailable")
		snap.Schedule = applyOpponentRanks(snap.Schedule, poll)
	}
	logger.Health(ctx, "rankings", pollErr != nil, "poll", poll.Name, "rows", len(poll.Rows), "error", pollErr)

	snap.CompletedAt = s.now().UTC()
	if err := s.repo.Save(ctx, snap); err != nil {
		return season.Snapshot{}, fmt.Errorf("save season snapshot season=%d: %w", seasonYear, err)
	}
	if s.mirror != nil {
		if err := s.mirror.MirrorSeason(ctx, snap); err != nil {
			logger.WarnContext(ctx, "mirror season snapshot failed", "error", err)
		}
	}

	logger.InfoContext(ctx, "season sync completed", "duration", snap.CompletedAt.Sub(snap.StartedAt).String())
	return snap, nil
}

func (s *SeasonSyncService) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.StageTimeout)
}

func countStatus(n int, reason string) season.SectionStatus {
	if n == 0 {
		return season.Unavailable(reason)
	}
	return season.Available(n)
}

// loadSchedule fetches the regular season and postseason concurrently. A
// failed postseason fetch counts as no postseason games.
func (s *SeasonSyncService) loadSchedule(ctx context.Context, seasonYear int) scheduleResult {
	var (
		regular, post []game.GameRecord
		regularErr    error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		regular, regularErr = s.schedules.FetchSchedule(ctx, seasonYear, game.SeasonTypeRegular)
	})
	wg.Go(func() {
		var err error
		post, err = s.schedules.FetchSchedule(ctx, seasonYear, game.SeasonTypePost)
		if err != nil {
			s.logger.DebugContext(ctx, "postseason schedule unavailable", "season", seasonYear, "error", err)
			post = nil
		}
	})
	wg.Wait()

	if regularErr != nil {
		return scheduleResult{err: regularErr}
	}

	games := make([]game.GameRecord, 0, len(regular)+len(post))
	games = append(games, regular...)
	games = append(games, post...)

	out := scheduleResult{games: games}
	for _, g := range games {
		if g.Completed() {
			out.completed++
		}
	}
	if s.analytics != nil {
		res, err := s.analytics.Compute(ctx, games)
		out.games = res.Games
		out.rows = res.Rows
		out.rowsErr = err
	}
	return out
}

// applyOpponentRanks fills unranked opponents from the poll.
func applyOpponentRanks(games []game.GameRecord, poll standings.Poll) []game.GameRecord {
	if len(poll.Rows) == 0 || len(games) == 0 {
		return games
	}
	out := make([]game.GameRecord, len(games))
	copy(out, games)
	for i := range out {
		if out[i].Opponent.Rank == 0 && out[i].Opponent.ID != "" {
			out[i].Opponent.Rank = poll.RankOf(out[i].Opponent.ID)
		}
	}
	return out
}

func (s *SeasonSyncService) loadRoster(ctx context.Context, seasonYear int) rosterResult {
	if res, ok := s.loadCoreRoster(ctx, seasonYear); ok {
		return res
	}
	return s.loadSiteRoster(ctx, seasonYear)
}

type coreItem struct {
	athlete *athlete.Athlete
	line    *ExternalPlayerLine
}

// loadCoreRoster reads the reference-linked API. ok is false when the
// reference list is empty or no athlete detail could be resolved.
func (s *SeasonSyncService) loadCoreRoster(ctx context.Context, seasonYear int) (rosterResult, bool) {
	var (
		ids      []string
		idsErr   error
		teamLine statvalue.Line
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		ids, idsErr = s.rosters.FetchCoreAthleteIDs(ctx, seasonYear)
	})
	wg.Go(func() {
		line, err := s.rosters.FetchCoreTeamStats(ctx, seasonYear)
		if err != nil {
			s.logger.DebugContext(ctx, "core team statistics unavailable", "season", seasonYear, "error", err)
			return
		}
		teamLine = line
	})
	wg.Wait()

	if idsErr != nil || len(ids) == 0 {
		s.logger.DebugContext(ctx, "core roster unavailable, using site roster", "season", seasonYear, "error", idsErr)
		return rosterResult{}, false
	}

	items := inBatches(ctx, ids, s.cfg.AthleteBatchSize, func(ctx context.Context, athleteID string) coreItem {
		return s.fetchCoreItem(ctx, seasonYear, athleteID)
	})

	res := rosterResult{source: rosterSourceCore}
	lines := make([]ExternalPlayerLine, 0, len(items))
	for _, item := range items {
		if item.athlete != nil {
			res.athletes = append(res.athletes, *item.athlete)
		}
		if item.line != nil {
			lines = append(lines, *item.line)
		}
	}
	if len(res.athletes) == 0 {
		s.logger.DebugContext(ctx, "core athlete details unavailable, using site roster", "season", seasonYear, "refs", len(ids))
		return rosterResult{}, false
	}

	res.players = toPlayerStats(lines)
	res.team = teamstats.Resolve(teamstats.FromLine(teamLine), res.players)
	return res, true
}

func (s *SeasonSyncService) fetchCoreItem(ctx context.Context, seasonYear int, athleteID string) coreItem {
	var item coreItem

	var wg conc.WaitGroup
	wg.Go(func() {
		a, err := s.cachedCoreAthlete(ctx, seasonYear, athleteID)
		if err != nil {
			s.logger.DebugContext(ctx, "core athlete detail failed", "athlete_id", athleteID, "error", err)
			return
		}
		item.athlete = &a
	})
	wg.Go(func() {
		line, err := s.rosters.FetchCoreAthleteStats(ctx, seasonYear, athleteID)
		if err != nil {
			s.logger.DebugContext(ctx, "core athlete statistics failed", "athlete_id", athleteID, "error", err)
			return
		}
		item.line = &line
	})
	wg.Wait()

	return item
}

func (s *SeasonSyncService) cachedCoreAthlete(ctx context.Context, seasonYear int, athleteID string) (athlete.Athlete, error) {
	load := func(ctx context.Context) (athlete.Athlete, error) {
		return s.rosters.FetchCoreAthlete(ctx, seasonYear, athleteID)
	}
	if s.athletes == nil {
		return load(ctx)
	}
	return s.athletes.GetOrLoad(ctx, athleteCacheKey(seasonYear, athleteID), load)
}

func athleteCacheKey(seasonYear int, athleteID string) string {
	return "athlete:" + strconv.Itoa(seasonYear) + ":" + athleteID
}

// loadSiteRoster reads the primary site API. Either request failing counts
// as an empty response.
func (s *SeasonSyncService) loadSiteRoster(ctx context.Context, seasonYear int) rosterResult {
	var (
		team   ExternalSiteTeam
		roster []athlete.Athlete
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		t, err := s.rosters.FetchSiteTeam(ctx, seasonYear)
		if err != nil {
			s.logger.DebugContext(ctx, "site team unavailable", "season", seasonYear, "error", err)
			return
		}
		team = t
	})
	wg.Go(func() {
		r, err := s.rosters.FetchSiteRoster(ctx, seasonYear)
		if err != nil {
			s.logger.DebugContext(ctx, "site roster unavailable", "season", seasonYear, "error", err)
			return
		}
		roster = r
	})
	wg.Wait()

	res := rosterResult{source: rosterSourceSite}
	if len(roster) == 0 {
		roster = team.Athletes
	}
	if s.isSparsePastRoster(seasonYear, len(roster)) {
		scraped, err := s.history.FetchHistoricalRoster(ctx, seasonYear)
		switch {
		case err != nil:
			s.logger.DebugContext(ctx, "historical roster unavailable", "season", seasonYear, "error", err)
		case len(scraped) > 0:
			roster = scraped
			res.source = rosterSourceScraped
		}
	}
	res.athletes = mergeProfiles(roster, team.Athletes)

	lines := team.PlayerLines
	if len(lines) == 0 && res.source != rosterSourceScraped {
		lines = s.fetchSiteLines(ctx, res.athletes)
	}
	res.players = toPlayerStats(lines)
	res.team = teamstats.Resolve(teamstats.FromLine(team.TeamStats), res.players)
	return res
}

func (s *SeasonSyncService) isSparsePastRoster(seasonYear, size int) bool {
	return s.history != nil &&
		s.cfg.CurrentSeason > 0 &&
		seasonYear < s.cfg.CurrentSeason &&
		size < s.cfg.SparseRosterThreshold
}

func (s *SeasonSyncService) fetchSiteLines(ctx context.Context, roster []athlete.Athlete) []ExternalPlayerLine {
	ids := make([]string, 0, len(roster))
	for _, a := range roster {
		if a.ID != "" && a.ID != a.Name {
			ids = append(ids, a.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	results := inBatches(ctx, ids, s.cfg.AthleteBatchSize, func(ctx context.Context, athleteID string) *ExternalPlayerLine {
		line, err := s.rosters.FetchSiteAthleteStats(ctx, athleteID)
		if err != nil {
			s.logger.DebugContext(ctx, "site athlete statistics failed", "athlete_id", athleteID, "error", err)
			return nil
		}
		return &line
	})

	out := make([]ExternalPlayerLine, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// mergeProfiles fills missing profile fields on roster entries from the
// secondary list, matched by id then name.
func mergeProfiles(roster, secondary []athlete.Athlete) []athlete.Athlete {
	if len(roster) == 0 {
		return []athlete.Athlete{}
	}
	out := make([]athlete.Athlete, len(roster))
	copy(out, roster)
	if len(secondary) == 0 {
		return out
	}
	index := athlete.NewIndex(secondary)
	for i, a := range out {
		if other, ok := index.Lookup(a.ID, a.Name); ok {
			out[i] = a.MergeProfile(other)
		}
	}
	return out
}

func toPlayerStats(lines []ExternalPlayerLine) []playerstats.PlayerStats {
	out := make([]playerstats.PlayerStats, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.AthleteID == "" {
			continue
		}
		if _, dup := seen[line.AthleteID]; dup {
			continue
		}
		p := playerstats.FromLine(line.AthleteID, line.Line)
		if !p.HasAny() {
			continue
		}
		seen[line.AthleteID] = struct{}{}
		out = append(out, p)
	}
	return out
}
