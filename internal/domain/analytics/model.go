package analytics

import (
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
)

// DefaultWindow is how many of the most recent completed games are analyzed.
const DefaultWindow = 10

// Row is derived from one completed game's box score. It is recomputed on
// every pass and never stored on its own.
type Row struct {
	GameID      string
	Date        time.Time
	Opponent    string
	Site        game.Site
	Result      game.Result
	Score       string
	BoxScoreURL string

	PossessionsEstimate int
	OffensiveRating     float64
	DefensiveRating     float64
	Pace                float64

	EffectiveFgPct         float64
	OpponentEffectiveFgPct float64
	TurnoverPct            float64
	OpponentTurnoverPct    float64
}

func (r Row) NetRating() float64 {
	return round1(r.OffensiveRating - r.DefensiveRating)
}
