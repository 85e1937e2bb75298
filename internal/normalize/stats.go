package normalize

import (
	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
)

// Key paths where a category list may sit, in probe order.
var (
	teamCategoryPaths = [][]string{
		{"team", "statistics", "splits", "categories"},
		{"team", "team", "statistics", "splits", "categories"},
		{"statistics", "splits", "categories"},
		{"splits", "categories"},
	}
	playerCategoryPaths = [][]string{
		{"statistics", "splits", "categories"},
		{"athlete", "statistics", "splits", "categories"},
		{"splits", "categories"},
	}
)

// statNameKeys are the fields tried, in order, to name a stat entry.
var statNameKeys = []string{"name", "displayName", "shortDisplayName", "abbreviation"}

// ExtractTeamStats pulls recognized team metrics out of a statistics
// payload from either API. Unrecognized and non-numeric stats are left out.
func ExtractTeamStats(raw any) statvalue.Line {
	return ExtractLine(firstCategories(raw, teamCategoryPaths))
}

// ExtractPlayerStats is ExtractTeamStats for a single athlete's payload.
func ExtractPlayerStats(raw any) statvalue.Line {
	return ExtractLine(firstCategories(raw, playerCategoryPaths))
}

// ExtractLine reads metrics from a category list. The first occurrence of a
// metric wins. Percentages reported in points (47.5) become fractions; a
// percentage still outside [0,1] after that is left absent.
func ExtractLine(categories []any) statvalue.Line {
	line := make(statvalue.Line)
	for _, category := range categories {
		for _, entry := range DigSlice(category, "stats") {
			metric, ok := entryMetric(entry)
			if !ok {
				continue
			}
			if _, seen := line[metric]; seen {
				continue
			}
			value, ok := Number(Dig(entry, "value"))
			if !ok {
				continue
			}
			if metric.IsPercentage() {
				if value > 1 && value <= 100 {
					value /= 100
				}
				if value < 0 || value > 1 {
					continue
				}
			}
			line[metric] = value
		}
	}
	return line
}

func entryMetric(entry any) (statvalue.Metric, bool) {
	for _, key := range statNameKeys {
		if m, ok := MetricFor(String(entry, key)); ok {
			return m, true
		}
	}
	return "", false
}

func firstCategories(raw any, paths [][]string) []any {
	for _, path := range paths {
		if cats := DigSlice(raw, path...); len(cats) > 0 {
			return cats
		}
	}
	return nil
}
