package espn

import (
	"github.com/riskibarqy/hoops-hub/internal/domain/statvalue"
	nz "github.com/riskibarqy/hoops-hub/internal/normalize"
)

// PlayerLine pairs an athlete id with the stat line embedded in a site
// payload.
type PlayerLine struct {
	AthleteID string
	Name      string
	Line      statvalue.Line
}

// TeamAthletes returns the athlete list embedded in a site team payload.
func TeamAthletes(payload any) []any {
	if items := nz.DigSlice(payload, "team", "athletes"); len(items) > 0 {
		return items
	}
	return nz.DigSlice(payload, "team", "team", "athletes")
}

// TeamPlayerLines reads per-athlete stat lines embedded in the site team
// payload. Athletes without any recognized metric are skipped.
func TeamPlayerLines(payload any) []PlayerLine {
	athletes := TeamAthletes(payload)
	out := make([]PlayerLine, 0, len(athletes))
	for _, a := range athletes {
		id := nz.String(a, "id")
		if id == "" {
			continue
		}
		line := nz.ExtractPlayerStats(a)
		if len(line) == 0 {
			continue
		}
		out = append(out, PlayerLine{
			AthleteID: id,
			Name:      nz.String(a, "displayName", "fullName", "name"),
			Line:      line,
		})
	}
	return out
}

// AthleteLine reads a stat line from a site athlete payload.
func AthleteLine(athleteID string, payload any) PlayerLine {
	line := nz.ExtractPlayerStats(payload)
	return PlayerLine{
		AthleteID: athleteID,
		Name:      nz.StringAt(payload, "athlete", "displayName"),
		Line:      line,
	}
}

// CoreStatsAthleteID resolves the athlete a core statistics document belongs
// to, falling back to the id it was requested with.
func CoreStatsAthleteID(payload any, requested string) string {
	if id := nz.LastPathSegment(nz.StringAt(payload, "athlete", "$ref")); id != "" {
		return id
	}
	return requested
}
