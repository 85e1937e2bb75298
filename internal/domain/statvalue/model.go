package statvalue

// Metric names a canonical per-game or percentage statistic, independent of
// which upstream reported it.
type Metric string

const (
	GamesPlayed        Metric = "gamesPlayed"
	Minutes            Metric = "minutes"
	Points             Metric = "points"
	Rebounds           Metric = "rebounds"
	Assists            Metric = "assists"
	Steals             Metric = "steals"
	Blocks             Metric = "blocks"
	Turnovers          Metric = "turnovers"
	FieldGoalPct       Metric = "fieldGoalPct"
	ThreePointPct      Metric = "threePointPct"
	FreeThrowPct       Metric = "freeThrowPct"
	FieldGoalAttempts  Metric = "fieldGoalAttempts"
	ThreePointAttempts Metric = "threePointAttempts"
	FreeThrowAttempts  Metric = "freeThrowAttempts"
)

var percentages = map[Metric]struct{}{
	FieldGoalPct:  {},
	ThreePointPct: {},
	FreeThrowPct:  {},
}

func (m Metric) IsPercentage() bool {
	_, ok := percentages[m]
	return ok
}

// Line holds the metrics found for one player or team. A metric that is not
// present is unknown, which is different from zero.
type Line map[Metric]float64

func (l Line) Get(m Metric) (float64, bool) {
	if l == nil {
		return 0, false
	}
	v, ok := l[m]
	return v, ok
}

// Ptr returns the metric as a pointer, nil when unknown.
func (l Line) Ptr(m Metric) *float64 {
	v, ok := l.Get(m)
	if !ok {
		return nil
	}
	return &v
}
