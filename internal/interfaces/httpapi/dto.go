package httpapi

import (
	"sort"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/analytics"
	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	"github.com/riskibarqy/hoops-hub/internal/domain/playerstats"
	"github.com/riskibarqy/hoops-hub/internal/domain/season"
	"github.com/riskibarqy/hoops-hub/internal/domain/standings"
	"github.com/riskibarqy/hoops-hub/internal/domain/teamstats"
)

type healthDTO struct {
	Status          string            `json:"status"`
	FetchStrategies map[string]string `json:"fetch_strategies,omitempty"`
}

type seasonListDTO struct {
	Seasons []int `json:"seasons"`
	Active  int   `json:"active"`
}

type switchSeasonDTO struct {
	Active  int    `json:"active"`
	Refresh string `json:"refresh"`
}

type sectionStatusDTO struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Items     int    `json:"items"`
}

type athleteDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Position        string `json:"position,omitempty"`
	JerseyNumber    string `json:"jersey_number,omitempty"`
	Hometown        string `json:"hometown,omitempty"`
	HeadshotURL     string `json:"headshot_url"`
	ExperienceClass string `json:"class,omitempty"`
	ProfileURL      string `json:"profile_url,omitempty"`
}

// Stat fields are null when the upstream did not report them. Zero is a
// real value.
type playerStatsDTO struct {
	AthleteID     string   `json:"athlete_id"`
	GamesPlayed   *float64 `json:"games_played"`
	Minutes       *float64 `json:"minutes"`
	Points        *float64 `json:"points"`
	Rebounds      *float64 `json:"rebounds"`
	Assists       *float64 `json:"assists"`
	Steals        *float64 `json:"steals"`
	Blocks        *float64 `json:"blocks"`
	Turnovers     *float64 `json:"turnovers"`
	FieldGoalPct  *float64 `json:"fg_pct"`
	ThreePointPct *float64 `json:"three_pt_pct"`
	FreeThrowPct  *float64 `json:"ft_pct"`
}

type rosterAthleteDTO struct {
	athleteDTO
	Stats *playerStatsDTO `json:"stats,omitempty"`
}

type rosterDTO struct {
	Season   int                `json:"season"`
	Status   sectionStatusDTO   `json:"status"`
	Athletes []rosterAthleteDTO `json:"athletes"`
}

type teamStatsDTO struct {
	Source        string   `json:"source"`
	GamesPlayed   *float64 `json:"games_played"`
	Points        *float64 `json:"points"`
	Rebounds      *float64 `json:"rebounds"`
	Assists       *float64 `json:"assists"`
	Steals        *float64 `json:"steals"`
	Blocks        *float64 `json:"blocks"`
	Turnovers     *float64 `json:"turnovers"`
	FieldGoalPct  *float64 `json:"fg_pct"`
	ThreePointPct *float64 `json:"three_pt_pct"`
	FreeThrowPct  *float64 `json:"ft_pct"`
}

type statsDTO struct {
	Season  int              `json:"season"`
	Status  sectionStatusDTO `json:"status"`
	Team    teamStatsDTO     `json:"team"`
	Players []playerStatsDTO `json:"players"`
}

type opponentDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	Rank         int    `json:"rank,omitempty"`
}

type boxScoreDTO struct {
	FieldGoalsMade      int `json:"fgm"`
	FieldGoalsAttempted int `json:"fga"`
	ThreePointMade      int `json:"three_pm"`
	ThreePointAttempted int `json:"three_pa"`
	FreeThrowsMade      int `json:"ftm"`
	FreeThrowsAttempted int `json:"fta"`
	OffensiveRebounds   int `json:"oreb"`
	TotalRebounds       int `json:"reb"`
	Assists             int `json:"ast"`
	Turnovers           int `json:"tov"`
	Points              int `json:"pts"`
}

type gameStatusDTO struct {
	State  string `json:"state,omitempty"`
	Detail string `json:"detail,omitempty"`
	Period int    `json:"period,omitempty"`
	Clock  string `json:"clock,omitempty"`
}

type gameDTO struct {
	ID            string        `json:"id"`
	StartsAt      string        `json:"starts_at"`
	SeasonType    string        `json:"season_type"`
	Opponent      opponentDTO   `json:"opponent"`
	Site          string        `json:"site"`
	Result        string        `json:"result,omitempty"`
	TeamScore     *int          `json:"team_score"`
	OpponentScore *int          `json:"opponent_score"`
	Venue         string        `json:"venue,omitempty"`
	City          string        `json:"city,omitempty"`
	Broadcast     string        `json:"broadcast,omitempty"`
	BoxScoreURL   string        `json:"box_score_url,omitempty"`
	Status        gameStatusDTO `json:"status"`
	TeamBox       *boxScoreDTO  `json:"team_box,omitempty"`
	OpponentBox   *boxScoreDTO  `json:"opponent_box,omitempty"`
}

type scheduleDTO struct {
	Season int              `json:"season"`
	Status sectionStatusDTO `json:"status"`
	Games  []gameDTO        `json:"games"`
}

type analyticsRowDTO struct {
	GameID                 string  `json:"game_id"`
	Date                   string  `json:"date"`
	Opponent               string  `json:"opponent"`
	Site                   string  `json:"site"`
	Result                 string  `json:"result"`
	Score                  string  `json:"score"`
	BoxScoreURL            string  `json:"box_score_url,omitempty"`
	Possessions            int     `json:"possessions"`
	OffensiveRating        float64 `json:"off_rating"`
	DefensiveRating        float64 `json:"def_rating"`
	NetRating              float64 `json:"net_rating"`
	Pace                   float64 `json:"pace"`
	EffectiveFgPct         float64 `json:"efg_pct"`
	OpponentEffectiveFgPct float64 `json:"opp_efg_pct"`
	TurnoverPct            float64 `json:"tov_pct"`
	OpponentTurnoverPct    float64 `json:"opp_tov_pct"`
}

type analyticsDTO struct {
	Season int               `json:"season"`
	Status sectionStatusDTO  `json:"status"`
	Rows   []analyticsRowDTO `json:"rows"`
}

type standingEntryDTO struct {
	TeamID       string `json:"team_id"`
	Team         string `json:"team"`
	Abbreviation string `json:"abbreviation,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	ConfWins     int    `json:"conf_wins"`
	ConfLosses   int    `json:"conf_losses"`
}

type pollRowDTO struct {
	Rank   int    `json:"rank"`
	TeamID string `json:"team_id,omitempty"`
	Team   string `json:"team"`
	Record string `json:"record,omitempty"`
}

type pollDTO struct {
	Name string       `json:"name"`
	Rows []pollRowDTO `json:"rows"`
}

type standingsDTO struct {
	Season         int                `json:"season"`
	Status         sectionStatusDTO   `json:"status"`
	Conference     []standingEntryDTO `json:"conference"`
	RankingsStatus sectionStatusDTO   `json:"rankings_status"`
	Rankings       pollDTO            `json:"rankings"`
}

type seasonSnapshotDTO struct {
	Season      int                         `json:"season"`
	RunID       string                      `json:"run_id"`
	StartedAt   string                      `json:"started_at,omitempty"`
	CompletedAt string                      `json:"completed_at,omitempty"`
	Sections    map[string]sectionStatusDTO `json:"sections"`
	Roster      []athleteDTO                `json:"roster"`
	PlayerStats []playerStatsDTO            `json:"player_stats"`
	TeamStats   teamStatsDTO                `json:"team_stats"`
	Schedule    []gameDTO                   `json:"schedule"`
	Analytics   []analyticsRowDTO           `json:"analytics"`
	Standings   []standingEntryDTO          `json:"standings"`
	Rankings    pollDTO                     `json:"rankings"`
}

type leaderDTO struct {
	AthleteID string  `json:"athlete_id,omitempty"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
}

type leadersDTO struct {
	Points   []leaderDTO `json:"points"`
	Rebounds []leaderDTO `json:"rebounds"`
	Assists  []leaderDTO `json:"assists"`
}

type winProbabilityDTO struct {
	Team     float64 `json:"team"`
	Opponent float64 `json:"opponent"`
}

type liveSnapshotDTO struct {
	GameID          string            `json:"game_id"`
	Opponent        string            `json:"opponent"`
	Site            string            `json:"site"`
	TeamScore       int               `json:"team_score"`
	OpponentScore   int               `json:"opponent_score"`
	Period          int               `json:"period"`
	Clock           string            `json:"clock"`
	Detail          string            `json:"detail,omitempty"`
	State           string            `json:"state"`
	TimeFraction    float64           `json:"time_fraction"`
	WinProbability  winProbabilityDTO `json:"win_probability"`
	TeamBox         *boxScoreDTO      `json:"team_box,omitempty"`
	OpponentBox     *boxScoreDTO      `json:"opponent_box,omitempty"`
	TeamLeaders     leadersDTO        `json:"team_leaders"`
	OpponentLeaders leadersDTO        `json:"opponent_leaders"`
	UpdatedAt       string            `json:"updated_at,omitempty"`
}

type liveDTO struct {
	Live     bool             `json:"live"`
	Snapshot *liveSnapshotDTO `json:"snapshot,omitempty"`
	NextGame *gameDTO         `json:"next_game,omitempty"`
}

func sectionToDTO(st season.SectionStatus) sectionStatusDTO {
	return sectionStatusDTO{Available: st.Available, Reason: st.Reason, Items: st.Items}
}

func athleteToDTO(a athlete.Athlete) athleteDTO {
	headshot := a.HeadshotURL
	if headshot == "" {
		headshot = athlete.PlaceholderHeadshot(a.Name)
	}
	return athleteDTO{
		ID:              a.ID,
		Name:            a.Name,
		Position:        a.Position,
		JerseyNumber:    a.JerseyNumber,
		Hometown:        a.Hometown,
		HeadshotURL:     headshot,
		ExperienceClass: a.ExperienceClass,
		ProfileURL:      a.ProfileURL,
	}
}

func playerStatsToDTO(p playerstats.PlayerStats) playerStatsDTO {
	return playerStatsDTO{
		AthleteID:     p.AthleteID,
		GamesPlayed:   p.GamesPlayed,
		Minutes:       p.Minutes,
		Points:        p.Points,
		Rebounds:      p.Rebounds,
		Assists:       p.Assists,
		Steals:        p.Steals,
		Blocks:        p.Blocks,
		Turnovers:     p.Turnovers,
		FieldGoalPct:  p.FieldGoalPct,
		ThreePointPct: p.ThreePointPct,
		FreeThrowPct:  p.FreeThrowPct,
	}
}

func teamStatsToDTO(t teamstats.TeamStats) teamStatsDTO {
	return teamStatsDTO{
		Source:        string(t.Source),
		GamesPlayed:   t.GamesPlayed,
		Points:        t.Points,
		Rebounds:      t.Rebounds,
		Assists:       t.Assists,
		Steals:        t.Steals,
		Blocks:        t.Blocks,
		Turnovers:     t.Turnovers,
		FieldGoalPct:  t.FieldGoalPct,
		ThreePointPct: t.ThreePointPct,
		FreeThrowPct:  t.FreeThrowPct,
	}
}

func boxScoreToDTO(b *game.BoxScore) *boxScoreDTO {
	if b == nil {
		return nil
	}
	return &boxScoreDTO{
		FieldGoalsMade:      b.FieldGoalsMade,
		FieldGoalsAttempted: b.FieldGoalsAttempted,
		ThreePointMade:      b.ThreePointMade,
		ThreePointAttempted: b.ThreePointAttempted,
		FreeThrowsMade:      b.FreeThrowsMade,
		FreeThrowsAttempted: b.FreeThrowsAttempted,
		OffensiveRebounds:   b.OffensiveRebounds,
		TotalRebounds:       b.TotalRebounds,
		Assists:             b.Assists,
		Turnovers:           b.Turnovers,
		Points:              b.Points,
	}
}

func seasonTypeName(t game.SeasonType) string {
	if t == game.SeasonTypePost {
		return "postseason"
	}
	return "regular"
}

func gameToDTO(g game.GameRecord) gameDTO {
	return gameDTO{
		ID:         g.ID,
		StartsAt:   formatTime(g.StartsAt),
		SeasonType: seasonTypeName(g.SeasonType),
		Opponent: opponentDTO{
			ID:           g.Opponent.ID,
			Name:         g.Opponent.Name,
			Abbreviation: g.Opponent.Abbreviation,
			LogoURL:      g.Opponent.LogoURL,
			Rank:         g.Opponent.Rank,
		},
		Site:          string(g.Site),
		Result:        string(g.Result),
		TeamScore:     g.TeamScore,
		OpponentScore: g.OpponentScore,
		Venue:         g.Venue,
		City:          g.City,
		Broadcast:     g.Broadcast,
		BoxScoreURL:   g.BoxScoreURL,
		Status: gameStatusDTO{
			State:  string(g.Status.State),
			Detail: g.Status.Detail,
			Period: g.Status.Period,
			Clock:  g.Status.Clock,
		},
		TeamBox:     boxScoreToDTO(g.TeamBox),
		OpponentBox: boxScoreToDTO(g.OpponentBox),
	}
}

// gamesToDTO orders games by start time.
func gamesToDTO(games []game.GameRecord) []gameDTO {
	sorted := make([]game.GameRecord, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartsAt.Before(sorted[j].StartsAt) })

	out := make([]gameDTO, 0, len(sorted))
	for _, g := range sorted {
		out = append(out, gameToDTO(g))
	}
	return out
}

func analyticsRowsToDTO(rows []analytics.Row) []analyticsRowDTO {
	out := make([]analyticsRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, analyticsRowDTO{
			GameID:                 r.GameID,
			Date:                   formatTime(r.Date),
			Opponent:               r.Opponent,
			Site:                   string(r.Site),
			Result:                 string(r.Result),
			Score:                  r.Score,
			BoxScoreURL:            r.BoxScoreURL,
			Possessions:            r.PossessionsEstimate,
			OffensiveRating:        r.OffensiveRating,
			DefensiveRating:        r.DefensiveRating,
			NetRating:              r.NetRating(),
			Pace:                   r.Pace,
			EffectiveFgPct:         r.EffectiveFgPct,
			OpponentEffectiveFgPct: r.OpponentEffectiveFgPct,
			TurnoverPct:            r.TurnoverPct,
			OpponentTurnoverPct:    r.OpponentTurnoverPct,
		})
	}
	return out
}

func standingsToDTO(entries []standings.Entry) []standingEntryDTO {
	out := make([]standingEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, standingEntryDTO{
			TeamID:       e.TeamID,
			Team:         e.Team,
			Abbreviation: e.Abbreviation,
			LogoURL:      e.LogoURL,
			Wins:         e.Wins,
			Losses:       e.Losses,
			ConfWins:     e.ConfWins,
			ConfLosses:   e.ConfLosses,
		})
	}
	return out
}

func pollToDTO(p standings.Poll) pollDTO {
	rows := make([]pollRowDTO, 0, len(p.Rows))
	for _, r := range p.Rows {
		rows = append(rows, pollRowDTO{Rank: r.Rank, TeamID: r.TeamID, Team: r.Team, Record: r.Record})
	}
	return pollDTO{Name: p.Name, Rows: rows}
}

func snapshotToDTO(s season.Snapshot) seasonSnapshotDTO {
	sections := make(map[string]sectionStatusDTO, len(season.AllSections))
	for _, section := range season.AllSections {
		sections[string(section)] = sectionToDTO(s.Status(section))
	}

	roster := make([]athleteDTO, 0, len(s.Roster))
	for _, a := range s.Roster {
		roster = append(roster, athleteToDTO(a))
	}
	players := make([]playerStatsDTO, 0, len(s.PlayerStats))
	for _, p := range s.PlayerStats {
		players = append(players, playerStatsToDTO(p))
	}

	return seasonSnapshotDTO{
		Season:      s.Season,
		RunID:       s.RunID,
		StartedAt:   formatTime(s.StartedAt),
		CompletedAt: formatTime(s.CompletedAt),
		Sections:    sections,
		Roster:      roster,
		PlayerStats: players,
		TeamStats:   teamStatsToDTO(s.TeamStats),
		Schedule:    gamesToDTO(s.Schedule),
		Analytics:   analyticsRowsToDTO(s.Analytics),
		Standings:   standingsToDTO(s.Standings),
		Rankings:    pollToDTO(s.Rankings),
	}
}

func leadersToDTO(l live.Leaders) leadersDTO {
	conv := func(items []live.Leader) []leaderDTO {
		out := make([]leaderDTO, 0, len(items))
		for _, item := range items {
			out = append(out, leaderDTO{AthleteID: item.AthleteID, Name: item.Name, Value: item.Value})
		}
		return out
	}
	return leadersDTO{Points: conv(l.Points), Rebounds: conv(l.Rebounds), Assists: conv(l.Assists)}
}

func liveSnapshotToDTO(s live.Snapshot) liveSnapshotDTO {
	return liveSnapshotDTO{
		GameID:          s.GameID,
		Opponent:        s.Opponent,
		Site:            string(s.Site),
		TeamScore:       s.TeamScore,
		OpponentScore:   s.OpponentScore,
		Period:          s.Period,
		Clock:           s.Clock,
		Detail:          s.Detail,
		State:           string(s.State),
		TimeFraction:    s.TimeFraction,
		WinProbability:  winProbabilityDTO{Team: s.WinProb.Team, Opponent: s.WinProb.Opponent},
		TeamBox:         boxScoreToDTO(s.TeamBox),
		OpponentBox:     boxScoreToDTO(s.OpponentBox),
		TeamLeaders:     leadersToDTO(s.TeamLeaders),
		OpponentLeaders: leadersToDTO(s.OpponentLeaders),
		UpdatedAt:       formatTime(s.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
