package live

import (
	"math"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
)

// HomeCourtPoints is added to the margin when the team plays at home.
const HomeCourtPoints = 1.5

const (
	marginWeight = 0.12
	lateWeight   = 2.2
	marginScale  = 6.0
)

// Probability is a complementary pair; Team + Opponent is always 1.
type Probability struct {
	Team     float64
	Opponent float64
}

// EstimateWinProbability is a heuristic, not a fitted model. The linear
// score 0.12*m + 2.2*t*(m/6) grows with the margin and with the share of the
// game already played, then goes through a logistic curve.
func EstimateWinProbability(margin, timeFraction float64) Probability {
	if math.IsNaN(margin) {
		margin = 0
	}
	if math.IsNaN(timeFraction) {
		timeFraction = 0
	}
	t := math.Min(1, math.Max(0, timeFraction))
	z := marginWeight*margin + lateWeight*t*(margin/marginScale)

	p := 1 / (1 + math.Exp(-z))
	return Probability{Team: p, Opponent: 1 - p}
}

// AdjustedMargin is the score margin from the team's side plus home court.
func AdjustedMargin(teamScore, opponentScore int, site game.Site) float64 {
	m := float64(teamScore - opponentScore)
	if site == game.SiteHome {
		m += HomeCourtPoints
	}
	return m
}
