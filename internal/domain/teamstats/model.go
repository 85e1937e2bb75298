package teamstats

import (
	"github.com/riskibarqy/hoops-hub/internal/domain/playerstats"
	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
)

type Source string

const (
	SourceDirect      Source = "direct"
	SourceSynthesized Source = "synthesized"
)

// MinDirectMetrics is the fewest recognized metrics a direct team block must
// carry before it is trusted over a synthesized one.
const MinDirectMetrics = 2

// TeamStats is the team's season line. Nil fields are unknown and
// percentages are fractions in [0,1].
type TeamStats struct {
	Source Source

	GamesPlayed *float64
	Points      *float64
	Rebounds    *float64
	Assists     *float64
	Steals      *float64
	Blocks      *float64
	Turnovers   *float64

	FieldGoalPct  *float64
	ThreePointPct *float64
	FreeThrowPct  *float64
}

func FromLine(line statvalue.Line) TeamStats {
	return TeamStats{
		Source:        SourceDirect,
		GamesPlayed:   line.Ptr(statvalue.GamesPlayed),
		Points:        line.Ptr(statvalue.Points),
		Rebounds:      line.Ptr(statvalue.Rebounds),
		Assists:       line.Ptr(statvalue.Assists),
		Steals:        line.Ptr(statvalue.Steals),
		Blocks:        line.Ptr(statvalue.Blocks),
		Turnovers:     line.Ptr(statvalue.Turnovers),
		FieldGoalPct:  playerstats.Fraction(line.Ptr(statvalue.FieldGoalPct)),
		ThreePointPct: playerstats.Fraction(line.Ptr(statvalue.ThreePointPct)),
		FreeThrowPct:  playerstats.Fraction(line.Ptr(statvalue.FreeThrowPct)),
	}
}

// MetricCount reports how many fields are known.
func (t TeamStats) MetricCount() int {
	n := 0
	for _, v := range []*float64{
		t.GamesPlayed, t.Points, t.Rebounds, t.Assists, t.Steals, t.Blocks,
		t.Turnovers, t.FieldGoalPct, t.ThreePointPct, t.FreeThrowPct,
	} {
		if v != nil {
			n++
		}
	}
	return n
}

// Resolve returns direct when it carries enough metrics, otherwise a line
// synthesized from players.
func Resolve(direct TeamStats, players []playerstats.PlayerStats) TeamStats {
	if direct.MetricCount() >= MinDirectMetrics {
		return direct
	}
	return Synthesize(players)
}
