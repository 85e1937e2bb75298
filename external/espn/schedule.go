package espn

import (
	"regexp"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	nz "github.com/riskibarqy/hoops-hub/internal/normalize"
)

var boxScoreLinkPattern = regexp.MustCompile(`(?i)box\s*score`)

// ParseSchedule maps a team schedule payload to game records. Events that do
// not list the team among their competitors are skipped.
func ParseSchedule(payload any, teamID string, seasonType game.SeasonType) []game.GameRecord {
	events := nz.DigSlice(payload, "events")
	out := make([]game.GameRecord, 0, len(events))
	for _, ev := range events {
		rec, ok := parseEvent(ev, teamID, seasonType)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func parseEvent(ev any, teamID string, seasonType game.SeasonType) (game.GameRecord, bool) {
	id := nz.String(ev, "id")
	if id == "" {
		return game.GameRecord{}, false
	}

	comps := nz.DigSlice(ev, "competitions")
	var comp any
	if len(comps) > 0 {
		comp = comps[0]
	}
	ours, theirs := splitCompetitors(nz.DigSlice(comp, "competitors"), teamID)
	if ours == nil {
		return game.GameRecord{}, false
	}

	rec := game.GameRecord{
		ID:          id,
		StartsAt:    parseTime(nz.String(ev, "date")),
		SeasonType:  seasonType,
		Opponent:    parseOpponent(theirs),
		Site:        siteFor(ours, comp),
		Result:      resultFor(ours, theirs),
		Venue:       nz.StringAt(comp, "venue", "fullName"),
		City:        nz.StringAt(comp, "venue", "address", "city"),
		Broadcast:   broadcastName(comp),
		BoxScoreURL: boxScoreURL(ev, id),
		Status:      parseStatus(comp, ev),
	}

	// Both scores or neither.
	if us, ok := competitorScore(ours); ok {
		if them, ok := competitorScore(theirs); ok {
			rec.TeamScore = &us
			rec.OpponentScore = &them
		}
	}

	return rec, true
}

func splitCompetitors(competitors []any, teamID string) (ours, theirs any) {
	for _, c := range competitors {
		if competitorTeamID(c) == teamID {
			if ours == nil {
				ours = c
			}
			continue
		}
		if theirs == nil {
			theirs = c
		}
	}
	return ours, theirs
}

func competitorTeamID(c any) string {
	return firstNonEmpty(nz.StringAt(c, "team", "id"), nz.String(c, "id"))
}

func parseOpponent(c any) game.Opponent {
	team := nz.DigMap(c, "team")
	opp := game.Opponent{
		ID:           nz.String(team, "id"),
		Name:         firstNonEmpty(nz.String(team, "displayName", "name", "shortDisplayName"), "TBA"),
		Abbreviation: nz.String(team, "abbreviation"),
		LogoURL:      teamLogo(team),
	}
	if rank := nz.Int(nz.DigMap(c, "curatedRank"), "current"); rank > 0 && rank < 99 {
		opp.Rank = rank
	}
	return opp
}

func teamLogo(team map[string]any) string {
	if logo := nz.String(team, "logo"); logo != "" {
		return logo
	}
	logos := nz.DigSlice(team, "logos")
	if len(logos) > 0 {
		return nz.String(logos[0], "href")
	}
	return ""
}

func siteFor(ours, comp any) game.Site {
	if nz.String(ours, "homeAway") == "home" {
		return game.SiteHome
	}
	if neutral, _ := nz.Dig(comp, "neutralSite").(bool); neutral {
		return game.SiteNeutral
	}
	return game.SiteAway
}

func resultFor(ours, theirs any) game.Result {
	if won, _ := nz.Dig(ours, "winner").(bool); won {
		return game.ResultWin
	}
	if won, _ := nz.Dig(theirs, "winner").(bool); won {
		return game.ResultLoss
	}
	return game.ResultUnplayed
}

// competitorScore accepts a bare number, a numeric string, or the schedule
// endpoint's {value, displayValue} object.
func competitorScore(c any) (int, bool) {
	raw := nz.Dig(c, "score")
	if obj, ok := raw.(map[string]any); ok {
		raw = obj["value"]
		if raw == nil {
			raw = obj["displayValue"]
		}
	}
	f, ok := nz.Number(raw)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func broadcastName(comp any) string {
	broadcasts := nz.DigSlice(comp, "broadcasts")
	if len(broadcasts) == 0 {
		return ""
	}
	names := nz.DigSlice(broadcasts[0], "names")
	if len(names) > 0 {
		if s, ok := names[0].(string); ok {
			return s
		}
	}
	return nz.StringAt(broadcasts[0], "media", "shortName")
}

func boxScoreURL(ev any, id string) string {
	for _, link := range nz.DigSlice(ev, "links") {
		if isBoxScoreLink(link) {
			if href := nz.String(link, "href"); href != "" {
				return href
			}
		}
	}
	return gamePageBase + id
}

func isBoxScoreLink(link any) bool {
	if boxScoreLinkPattern.MatchString(nz.String(link, "text")) {
		return true
	}
	for _, rel := range nz.DigSlice(link, "rel") {
		if s, ok := rel.(string); ok && boxScoreLinkPattern.MatchString(s) {
			return true
		}
	}
	return false
}

func parseStatus(comp, ev any) game.Status {
	status := nz.DigMap(comp, "status")
	if status == nil {
		status = nz.DigMap(ev, "status")
	}
	kind := nz.DigMap(status, "type")
	return game.Status{
		State:  game.State(nz.String(kind, "state")),
		Detail: nz.String(kind, "shortDetail", "detail"),
		Period: nz.Int(status, "period"),
		Clock:  nz.String(status, "displayClock"),
	}
}

// ESPN emits minute-precision timestamps such as "2025-11-04T00:30Z".
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02T15:04Z"}

func parseTime(raw string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
