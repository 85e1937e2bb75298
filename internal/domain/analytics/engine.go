package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
)

const (
	freeThrowPossessionFactor = 0.475
	regulationMinutes         = 40
	defaultTeamMinutes        = 200
)

// Possessions estimates one side's possessions from its box score.
func Possessions(b game.BoxScore) float64 {
	return float64(b.FieldGoalsAttempted) +
		freeThrowPossessionFactor*float64(b.FreeThrowsAttempted) -
		float64(b.OffensiveRebounds) +
		float64(b.Turnovers)
}

// EstimatePossessions averages both sides and floors the result at one.
func EstimatePossessions(ours, theirs game.BoxScore) int {
	avg := (Possessions(ours) + Possessions(theirs)) / 2
	return int(math.Round(math.Max(1, avg)))
}

// EffectiveFgPct is (FGM + 0.5*3PM) / FGA as a percentage, zero without
// attempts. A box made entirely of three-point makes would exceed 100, so the
// result is capped.
func EffectiveFgPct(b game.BoxScore) float64 {
	if b.FieldGoalsAttempted <= 0 {
		return 0
	}
	v := (float64(b.FieldGoalsMade) + 0.5*float64(b.ThreePointMade)) / float64(b.FieldGoalsAttempted)
	return percent(v)
}

// TurnoverPct is TOV / (FGA + 0.475*FTA) as a percentage, capped at 100.
func TurnoverPct(b game.BoxScore) float64 {
	denom := float64(b.FieldGoalsAttempted) + freeThrowPossessionFactor*float64(b.FreeThrowsAttempted)
	if denom <= 0 {
		return 0
	}
	return percent(float64(b.Turnovers) / denom)
}

// ComputeGameAnalytics derives efficiency metrics from both sides' counts.
// It never fails; absent counts are zero.
func ComputeGameAnalytics(ours, theirs game.BoxScore) Row {
	poss := EstimatePossessions(ours, theirs)

	minutes := ours.Minutes
	if minutes <= 0 {
		minutes = defaultTeamMinutes
	}

	return Row{
		PossessionsEstimate:    poss,
		OffensiveRating:        round1(float64(ours.Points) * 100 / float64(poss)),
		DefensiveRating:        round1(float64(theirs.Points) * 100 / float64(poss)),
		Pace:                   round1(float64(poss) * regulationMinutes / minutes),
		EffectiveFgPct:         EffectiveFgPct(ours),
		OpponentEffectiveFgPct: EffectiveFgPct(theirs),
		TurnoverPct:            TurnoverPct(ours),
		OpponentTurnoverPct:    TurnoverPct(theirs),
	}
}

// ForGame computes the row for a completed game carrying box counts. ok is
// false when the game has no box score.
func ForGame(g game.GameRecord) (Row, bool) {
	if g.TeamBox == nil || g.OpponentBox == nil {
		return Row{}, false
	}
	row := ComputeGameAnalytics(*g.TeamBox, *g.OpponentBox)
	row.GameID = g.ID
	row.Date = g.StartsAt
	row.Opponent = g.Opponent.Name
	row.Site = g.Site
	row.Result = g.Result
	row.BoxScoreURL = g.BoxScoreURL
	if g.TeamScore != nil && g.OpponentScore != nil {
		row.Score = fmt.Sprintf("%d-%d", *g.TeamScore, *g.OpponentScore)
	}
	return row, true
}

// Window returns the last n completed games in schedule order. Older games
// are not returned.
func Window(games []game.GameRecord, n int) []game.GameRecord {
	if n <= 0 {
		n = DefaultWindow
	}
	done := make([]game.GameRecord, 0, len(games))
	for _, g := range games {
		if g.Completed() {
			done = append(done, g)
		}
	}
	sort.SliceStable(done, func(i, j int) bool { return done[i].StartsAt.Before(done[j].StartsAt) })
	if len(done) > n {
		done = done[len(done)-n:]
	}
	return done
}

func percent(fraction float64) float64 {
	return round1(math.Min(100, math.Max(0, fraction*100)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
