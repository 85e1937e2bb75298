package live

import (
	"sort"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
)

const leadersPerCategory = 3

type Leader struct {
	AthleteID string
	Name      string
	Value     float64
}

type Leaders struct {
	Points   []Leader
	Rebounds []Leader
	Assists  []Leader
}

// Snapshot is the state of an in-progress game at one poll. It is rebuilt
// on every tick and discarded when the game ends.
type Snapshot struct {
	GameID        string
	Opponent      string
	Site          game.Site
	TeamScore     int
	OpponentScore int
	Period        int
	Clock         string
	Detail        string
	State         game.State

	TimeFraction float64
	WinProb      Probability

	TeamBox         *game.BoxScore
	OpponentBox     *game.BoxScore
	TeamLeaders     Leaders
	OpponentLeaders Leaders

	UpdatedAt time.Time
}

// Estimate fills the time fraction and win probability from score and clock.
func (s Snapshot) Estimate() Snapshot {
	s.TimeFraction = TimeFraction(s.Period, s.Clock)
	s.WinProb = EstimateWinProbability(AdjustedMargin(s.TeamScore, s.OpponentScore, s.Site), s.TimeFraction)
	return s
}

// TopLeaders keeps the three highest values, ties broken by name.
func TopLeaders(items []Leader) []Leader {
	out := make([]Leader, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > leadersPerCategory {
		out = out[:leadersPerCategory]
	}
	return out
}
