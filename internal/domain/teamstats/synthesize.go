package teamstats

import "github.com/riskibarqy/hoops-hub/internal/domain/playerstats"

// Synthesize builds team totals from player lines. Per-game counting stats
// are summed across players, which treats each player's rate as an additive
// team contribution. This is an approximation: shared possessions mean the
// sum is not an exact team per-game figure.
//
// Percentages are the plain mean over players with a known value. Players
// known to average zero attempts are left out. With no contributing players
// the percentage is absent.
func Synthesize(players []playerstats.PlayerStats) TeamStats {
	var points, rebounds, assists, steals, blocks, turnovers float64
	var fg, three, ft mean
	var games float64

	for _, p := range players {
		points += deref(p.Points)
		rebounds += deref(p.Rebounds)
		assists += deref(p.Assists)
		steals += deref(p.Steals)
		blocks += deref(p.Blocks)
		turnovers += deref(p.Turnovers)
		if p.GamesPlayed != nil && *p.GamesPlayed > games {
			games = *p.GamesPlayed
		}

		fg.add(p.FieldGoalPct, p.FieldGoalAttempts)
		three.add(p.ThreePointPct, p.ThreePointAttempts)
		ft.add(p.FreeThrowPct, p.FreeThrowAttempts)
	}

	out := TeamStats{
		Source:        SourceSynthesized,
		Points:        ptr(points),
		Rebounds:      ptr(rebounds),
		Assists:       ptr(assists),
		Steals:        ptr(steals),
		Blocks:        ptr(blocks),
		Turnovers:     ptr(turnovers),
		FieldGoalPct:  fg.value(),
		ThreePointPct: three.value(),
		FreeThrowPct:  ft.value(),
	}
	if games > 0 {
		out.GamesPlayed = ptr(games)
	}
	return out
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(pct, attempts *float64) {
	if pct == nil {
		return
	}
	if attempts != nil && *attempts <= 0 {
		return
	}
	m.sum += *pct
	m.n++
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	return ptr(m.sum / float64(m.n))
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func ptr(v float64) *float64 {
	return &v
}
