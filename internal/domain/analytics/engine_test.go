package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
)

func TestComputeGameAnalytics_ReferenceGame(t *testing.T) {
	t.Parallel()

	ours := game.BoxScore{FieldGoalsAttempted: 60, FreeThrowsAttempted: 20, OffensiveRebounds: 10, Turnovers: 12, Points: 75}
	theirs := game.BoxScore{FieldGoalsAttempted: 58, FreeThrowsAttempted: 18, OffensiveRebounds: 9, Turnovers: 14, Points: 68}

	if got := Possessions(ours); math.Abs(got-71.5) > 1e-9 {
		t.Fatalf("unexpected our possessions: got=%v want=71.5", got)
	}
	if got := Possessions(theirs); math.Abs(got-71.55) > 1e-9 {
		t.Fatalf("unexpected their possessions: got=%v want=71.55", got)
	}

	row := ComputeGameAnalytics(ours, theirs)
	if row.PossessionsEstimate != 72 {
		t.Fatalf("unexpected possessions estimate: got=%d want=72", row.PossessionsEstimate)
	}
	if row.OffensiveRating != 104.2 {
		t.Fatalf("unexpected offensive rating: got=%v want=104.2", row.OffensiveRating)
	}
	if row.DefensiveRating != 94.4 {
		t.Fatalf("unexpected defensive rating: got=%v want=94.4", row.DefensiveRating)
	}
	if row.Pace != 14.4 {
		t.Fatalf("unexpected pace with default minutes: got=%v want=14.4", row.Pace)
	}
}

func TestComputeGameAnalytics_ZeroAttemptsYieldZeroRates(t *testing.T) {
	t.Parallel()

	row := ComputeGameAnalytics(game.BoxScore{}, game.BoxScore{})
	if row.PossessionsEstimate != 1 {
		t.Fatalf("unexpected possessions floor: got=%d want=1", row.PossessionsEstimate)
	}
	if row.EffectiveFgPct != 0 || row.TurnoverPct != 0 {
		t.Fatalf("expected zero rates without attempts, got efg=%v tov=%v", row.EffectiveFgPct, row.TurnoverPct)
	}
	if row.OffensiveRating != 0 || row.DefensiveRating != 0 {
		t.Fatalf("expected zero ratings without points")
	}
}

func TestComputeGameAnalytics_RatesStayInRangeAndRatingsMatchMargin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ours, theirs game.BoxScore
	}{
		{
			ours:   game.BoxScore{FieldGoalsMade: 28, FieldGoalsAttempted: 61, ThreePointMade: 9, ThreePointAttempted: 25, FreeThrowsMade: 15, FreeThrowsAttempted: 21, OffensiveRebounds: 12, Turnovers: 9, Points: 80, Minutes: 200},
			theirs: game.BoxScore{FieldGoalsMade: 24, FieldGoalsAttempted: 59, ThreePointMade: 6, ThreePointAttempted: 22, FreeThrowsMade: 10, FreeThrowsAttempted: 14, OffensiveRebounds: 8, Turnovers: 13, Points: 64, Minutes: 200},
		},
		{
			ours:   game.BoxScore{FieldGoalsMade: 10, FieldGoalsAttempted: 10, ThreePointMade: 10, ThreePointAttempted: 10, Turnovers: 30, Points: 30, Minutes: 225},
			theirs: game.BoxScore{FieldGoalsAttempted: 0, FreeThrowsAttempted: 0, Turnovers: 40, Points: 0},
		},
		{
			ours:   game.BoxScore{Turnovers: 5, Points: 2},
			theirs: game.BoxScore{FreeThrowsAttempted: 4, Points: 4},
		},
	}

	for i, tc := range cases {
		row := ComputeGameAnalytics(tc.ours, tc.theirs)
		for name, v := range map[string]float64{
			"efg": row.EffectiveFgPct, "opp_efg": row.OpponentEffectiveFgPct,
			"tov": row.TurnoverPct, "opp_tov": row.OpponentTurnoverPct,
		} {
			if v < 0 || v > 100 {
				t.Fatalf("case %d: %s out of range: %v", i, name, v)
			}
		}

		want := float64(tc.ours.Points-tc.theirs.Points) * 100 / float64(row.PossessionsEstimate)
		if got := row.OffensiveRating - row.DefensiveRating; math.Abs(got-want) > 0.11 {
			t.Fatalf("case %d: rating identity broken: got=%v want≈%v", i, got, want)
		}
	}
}

func TestForGame_RequiresBoxScores(t *testing.T) {
	t.Parallel()

	if _, ok := ForGame(game.GameRecord{ID: "1", Result: game.ResultWin}); ok {
		t.Fatalf("expected no row without box score")
	}

	us, them := 75, 68
	row, ok := ForGame(game.GameRecord{
		ID:            "401",
		Result:        game.ResultWin,
		Opponent:      game.Opponent{Name: "Auburn"},
		TeamScore:     &us,
		OpponentScore: &them,
		TeamBox:       &game.BoxScore{FieldGoalsAttempted: 60, Points: 75},
		OpponentBox:   &game.BoxScore{FieldGoalsAttempted: 58, Points: 68},
	})
	if !ok {
		t.Fatalf("expected row")
	}
	if row.Score != "75-68" || row.Opponent != "Auburn" || row.GameID != "401" {
		t.Fatalf("unexpected row metadata: %+v", row)
	}
}

func TestWindow_KeepsMostRecentCompletedGames(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	games := make([]game.GameRecord, 0, 14)
	for i := 0; i < 14; i++ {
		g := game.GameRecord{ID: string(rune('a' + i)), StartsAt: base.AddDate(0, 0, i*3)}
		if i < 12 {
			g.Result = game.ResultWin
		}
		games = append(games, g)
	}

	got := Window(games, 10)
	if len(got) != 10 {
		t.Fatalf("unexpected window size: got=%d want=10", len(got))
	}
	if got[0].ID != "c" || got[9].ID != "l" {
		t.Fatalf("unexpected window bounds: first=%s last=%s", got[0].ID, got[9].ID)
	}
}
