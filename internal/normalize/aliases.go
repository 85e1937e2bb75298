package normalize

import (
	"strings"
	"unicode"

	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
)

// metricAliases lists the stat names each upstream uses for a metric. Site
// endpoints say "pointsPerGame", core endpoints say "avgPoints", and
// abbreviations show up when only a short name is present.
var metricAliases = map[statvalue.Metric][]string{
	statvalue.GamesPlayed:        {"gamesPlayed", "GP"},
	statvalue.Minutes:            {"avgMinutes", "minutesPerGame", "MPG"},
	statvalue.Points:             {"avgPoints", "pointsPerGame", "PPG"},
	statvalue.Rebounds:           {"avgRebounds", "reboundsPerGame", "RPG"},
	statvalue.Assists:            {"avgAssists", "assistsPerGame", "APG"},
	statvalue.Steals:             {"avgSteals", "stealsPerGame", "SPG"},
	statvalue.Blocks:             {"avgBlocks", "blocksPerGame", "BPG"},
	statvalue.Turnovers:          {"avgTurnovers", "turnoversPerGame", "TOPG"},
	statvalue.FieldGoalPct:       {"fieldGoalPct", "FG%", "FGPCT"},
	statvalue.ThreePointPct:      {"threePointFieldGoalPct", "threePointPct", "3P%", "3PTPCT", "3PPCT"},
	statvalue.FreeThrowPct:       {"freeThrowPct", "FT%", "FTPCT"},
	statvalue.FieldGoalAttempts:  {"avgFieldGoalsAttempted", "fieldGoalsAttemptedPerGame"},
	statvalue.ThreePointAttempts: {"avgThreePointFieldGoalsAttempted", "threePointFieldGoalsAttemptedPerGame"},
	statvalue.FreeThrowAttempts:  {"avgFreeThrowsAttempted", "freeThrowsAttemptedPerGame"},
}

var aliasIndex = buildAliasIndex(metricAliases)

func buildAliasIndex(src map[statvalue.Metric][]string) map[string]statvalue.Metric {
	out := make(map[string]statvalue.Metric, len(src)*3)
	for metric, aliases := range src {
		for _, alias := range aliases {
			out[AliasKey(alias)] = metric
		}
	}
	return out
}

// AliasKey folds a stat name for lookup: upper case with all whitespace removed.
func AliasKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// MetricFor resolves a stat name to its canonical metric.
func MetricFor(name string) (statvalue.Metric, bool) {
	key := AliasKey(name)
	if key == "" {
		return "", false
	}
	m, ok := aliasIndex[key]
	return m, ok
}
