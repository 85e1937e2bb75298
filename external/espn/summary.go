package espn

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/domain/live"
	nz "github.com/riskibarqy/hoops-hub/internal/normalize"
)

// ParseSummaryBox reads both teams' box counts from a game summary. Either
// side is nil when the summary has no statistics for it.
func ParseSummaryBox(payload any, teamID string) (ours, theirs *game.BoxScore) {
	oursHeader, theirsHeader := splitCompetitors(headerCompetitors(payload), teamID)

	var oursBlock, theirsBlock any
	for _, t := range nz.DigSlice(payload, "boxscore", "teams") {
		if competitorTeamID(t) == teamID {
			oursBlock = t
		} else if theirsBlock == nil {
			theirsBlock = t
		}
	}

	ours = boxFromBlock(oursBlock, oursHeader)
	theirs = boxFromBlock(theirsBlock, theirsHeader)
	return ours, theirs
}

func headerCompetitors(payload any) []any {
	comps := nz.DigSlice(payload, "header", "competitions")
	if len(comps) == 0 {
		return nil
	}
	return nz.DigSlice(comps[0], "competitors")
}

func boxFromBlock(block, header any) *game.BoxScore {
	stats := boxStatEntries(block)
	if len(stats) == 0 {
		return nil
	}

	values := make(map[string]float64, len(stats))
	for _, entry := range stats {
		name := nz.String(entry, "name")
		if name == "" {
			continue
		}
		if strings.Contains(name, "-") {
			splitCombined(values, name, nz.String(entry, "displayValue"))
			continue
		}
		if v, ok := nz.Number(nz.Dig(entry, "value")); ok {
			values[name] = v
		} else if v, ok := nz.Number(nz.Dig(entry, "displayValue")); ok {
			values[name] = v
		}
	}

	box := &game.BoxScore{
		FieldGoalsMade:      int(values["fieldGoalsMade"]),
		FieldGoalsAttempted: int(values["fieldGoalsAttempted"]),
		ThreePointMade:      int(values["threePointFieldGoalsMade"]),
		ThreePointAttempted: int(values["threePointFieldGoalsAttempted"]),
		FreeThrowsMade:      int(values["freeThrowsMade"]),
		FreeThrowsAttempted: int(values["freeThrowsAttempted"]),
		OffensiveRebounds:   int(values["offensiveRebounds"]),
		TotalRebounds:       int(values["totalRebounds"]),
		Assists:             int(values["assists"]),
		Turnovers:           int(firstPositive(values["turnovers"], values["totalTurnovers"])),
		Points:              int(values["points"]),
		Minutes:             values["minutes"],
	}
	if box.Points == 0 {
		if score, ok := competitorScore(header); ok {
			box.Points = score
		}
	}
	return box
}

// boxStatEntries accepts either a flat statistics list or one grouped under
// statistics[0].stats.
func boxStatEntries(block any) []any {
	stats := nz.DigSlice(block, "statistics")
	if len(stats) == 0 {
		return nil
	}
	if grouped := nz.DigSlice(stats[0], "stats"); len(grouped) > 0 {
		return grouped
	}
	return stats
}

// splitCombined handles entries like "fieldGoalsMade-fieldGoalsAttempted"
// whose display value is "25-60".
func splitCombined(values map[string]float64, name, display string) {
	keys := strings.Split(name, "-")
	parts := strings.Split(display, "-")
	if len(keys) != len(parts) {
		return
	}
	for i, key := range keys {
		if _, exists := values[key]; exists {
			continue
		}
		if v, ok := nz.Number(parts[i]); ok {
			values[key] = v
		}
	}
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// ParseLive builds a snapshot from a summary of an in-progress game. It
// returns false when the summary does not include the team.
func ParseLive(payload any, teamID string, now time.Time) (live.Snapshot, bool) {
	comps := nz.DigSlice(payload, "header", "competitions")
	if len(comps) == 0 {
		return live.Snapshot{}, false
	}
	comp := comps[0]
	ours, theirs := splitCompetitors(nz.DigSlice(comp, "competitors"), teamID)
	if ours == nil {
		return live.Snapshot{}, false
	}

	status := nz.DigMap(comp, "status")
	snap := live.Snapshot{
		GameID:    firstNonEmpty(nz.StringAt(payload, "header", "id"), nz.String(comp, "id")),
		Opponent:  firstNonEmpty(nz.StringAt(theirs, "team", "displayName"), "Opponent"),
		Site:      siteFor(ours, comp),
		Period:    nz.Int(status, "period"),
		Clock:     nz.String(status, "displayClock"),
		Detail:    nz.StringAt(status, "type", "shortDetail"),
		State:     game.State(nz.StringAt(status, "type", "state")),
		UpdatedAt: now,
	}
	if snap.Period == 0 {
		snap.Period = nz.Int(comp, "period")
	}
	snap.TeamScore, _ = competitorScore(ours)
	snap.OpponentScore, _ = competitorScore(theirs)
	snap.TeamBox, snap.OpponentBox = ParseSummaryBox(payload, teamID)

	opponentID := competitorTeamID(theirs)
	for _, block := range nz.DigSlice(payload, "boxscore", "players") {
		switch competitorTeamID(block) {
		case teamID:
			snap.TeamLeaders = leadersFromBlock(block)
		case opponentID:
			if opponentID != "" {
				snap.OpponentLeaders = leadersFromBlock(block)
			}
		}
	}

	return snap.Estimate(), true
}

func leadersFromBlock(block any) live.Leaders {
	var stat any
	for _, s := range nz.DigSlice(block, "statistics") {
		if len(nz.DigSlice(s, "athletes")) > 0 {
			stat = s
			break
		}
	}
	if stat == nil {
		return live.Leaders{}
	}

	index := map[string]int{}
	for i, n := range nz.DigSlice(stat, "names") {
		if s, ok := n.(string); ok {
			index[s] = i
		}
	}

	var pts, reb, ast []live.Leader
	for _, a := range nz.DigSlice(stat, "athletes") {
		values := nz.DigSlice(a, "stats")
		base := live.Leader{
			AthleteID: nz.StringAt(a, "athlete", "id"),
			Name:      firstNonEmpty(nz.StringAt(a, "athlete", "displayName"), "Player"),
		}
		pts = append(pts, withValue(base, statAt(values, index, "PTS")))
		reb = append(reb, withValue(base, statAt(values, index, "REB")))
		ast = append(ast, withValue(base, statAt(values, index, "AST")))
	}

	return live.Leaders{
		Points:   live.TopLeaders(pts),
		Rebounds: live.TopLeaders(reb),
		Assists:  live.TopLeaders(ast),
	}
}

func withValue(l live.Leader, v float64) live.Leader {
	l.Value = v
	return l
}

// statAt reads a box cell. Split cells like "3-7" yield the last number.
func statAt(values []any, index map[string]int, name string) float64 {
	i, ok := index[name]
	if !ok || i < 0 || i >= len(values) {
		return 0
	}
	raw, _ := values[i].(string)
	if raw == "" {
		if f, ok := nz.Number(values[i]); ok {
			return f
		}
		return 0
	}
	parts := strings.Split(raw, "-")
	f, err := strconv.ParseFloat(strings.TrimSpace(parts[len(parts)-1]), 64)
	if err != nil {
		return 0
	}
	return f
}
