package playerstats

import "github.com/riskibarqy/hoops-hub/internal/domain/statvalue"

// PlayerStats is one athlete's season line. Nil fields are unknown.
// Percentages are fractions in [0,1].
type PlayerStats struct {
	AthleteID   string
	GamesPlayed *float64

	Minutes   *float64
	Points    *float64
	Rebounds  *float64
	Assists   *float64
	Steals    *float64
	Blocks    *float64
	Turnovers *float64

	FieldGoalPct  *float64
	ThreePointPct *float64
	FreeThrowPct  *float64

	// Per-game attempts, used to tell "no attempts" apart from "unknown".
	FieldGoalAttempts  *float64
	ThreePointAttempts *float64
	FreeThrowAttempts  *float64
}

// FromLine builds a PlayerStats from extracted metrics. Percentages outside
// [0,1] become absent.
func FromLine(athleteID string, line statvalue.Line) PlayerStats {
	return PlayerStats{
		AthleteID:          athleteID,
		GamesPlayed:        nonNegative(line.Ptr(statvalue.GamesPlayed)),
		Minutes:            nonNegative(line.Ptr(statvalue.Minutes)),
		Points:             nonNegative(line.Ptr(statvalue.Points)),
		Rebounds:           nonNegative(line.Ptr(statvalue.Rebounds)),
		Assists:            nonNegative(line.Ptr(statvalue.Assists)),
		Steals:             nonNegative(line.Ptr(statvalue.Steals)),
		Blocks:             nonNegative(line.Ptr(statvalue.Blocks)),
		Turnovers:          nonNegative(line.Ptr(statvalue.Turnovers)),
		FieldGoalPct:       Fraction(line.Ptr(statvalue.FieldGoalPct)),
		ThreePointPct:      Fraction(line.Ptr(statvalue.ThreePointPct)),
		FreeThrowPct:       Fraction(line.Ptr(statvalue.FreeThrowPct)),
		FieldGoalAttempts:  nonNegative(line.Ptr(statvalue.FieldGoalAttempts)),
		ThreePointAttempts: nonNegative(line.Ptr(statvalue.ThreePointAttempts)),
		FreeThrowAttempts:  nonNegative(line.Ptr(statvalue.FreeThrowAttempts)),
	}
}

// HasAny reports whether at least one metric is known.
func (p PlayerStats) HasAny() bool {
	for _, v := range []*float64{
		p.GamesPlayed, p.Minutes, p.Points, p.Rebounds, p.Assists, p.Steals,
		p.Blocks, p.Turnovers, p.FieldGoalPct, p.ThreePointPct, p.FreeThrowPct,
	} {
		if v != nil {
			return true
		}
	}
	return false
}

// Fraction keeps v only when it lies in [0,1].
func Fraction(v *float64) *float64 {
	if v == nil || *v < 0 || *v > 1 {
		return nil
	}
	out := *v
	return &out
}

func nonNegative(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	out := *v
	return &out
}
