package espn

import (
	"strings"

	"github.com/riskibarqy/hoops-hub/internal/domain/standings"
	nz "github.com/riskibarqy/hoops-hub/internal/normalize"
)

var (
	winsKeys       = []string{"wins", "overallWins", "totalWins"}
	lossesKeys     = []string{"losses", "overallLosses", "totalLosses"}
	confWinsKeys   = []string{"confWins", "conferenceWins"}
	confLossesKeys = []string{"confLosses", "conferenceLosses"}
)

// ParseStandings reads the conference table, sorted. Top-level entries come
// first, followed by each child group's entries.
func ParseStandings(payload any) []standings.Entry {
	raw := append([]any{}, nz.DigSlice(payload, "standings", "entries")...)
	for _, child := range nz.DigSlice(payload, "children") {
		raw = append(raw, nz.DigSlice(child, "standings", "entries")...)
	}

	out := make([]standings.Entry, 0, len(raw))
	for _, item := range raw {
		team := nz.DigMap(item, "team")
		name := nz.String(team, "displayName")
		if name == "" {
			name = strings.TrimSpace(nz.String(team, "location") + " " + nz.String(team, "name"))
		}
		if name == "" {
			continue
		}

		stats := statMap(nz.DigSlice(item, "stats"))
		out = append(out, standings.Entry{
			TeamID:       nz.String(team, "id"),
			Team:         name,
			Abbreviation: nz.String(team, "abbreviation"),
			LogoURL:      teamLogo(team),
			Wins:         firstStat(stats, winsKeys),
			Losses:       firstStat(stats, lossesKeys),
			ConfWins:     firstStat(stats, confWinsKeys),
			ConfLosses:   firstStat(stats, confLossesKeys),
		})
	}

	standings.Sort(out)
	return out
}

func statMap(items []any) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, item := range items {
		name := firstNonEmpty(nz.String(item, "name"), nz.String(item, "type"))
		if name == "" {
			continue
		}
		if v, ok := nz.Number(nz.Dig(item, "value")); ok {
			out[name] = v
		}
	}
	return out
}

func firstStat(stats map[string]float64, keys []string) int {
	for _, key := range keys {
		if v, ok := stats[key]; ok {
			return int(v)
		}
	}
	return 0
}

// ParseRankings picks the AP poll when present, otherwise the first poll.
// Rows without a team name are dropped.
func ParseRankings(payload any) standings.Poll {
	polls := nz.DigSlice(payload, "rankings")
	if len(polls) == 0 {
		polls = nz.DigSlice(payload, "polls")
	}
	if len(polls) == 0 {
		return standings.Poll{}
	}

	chosen := polls[0]
	for _, p := range polls {
		if standings.IsAP(nz.String(p, "name"), nz.String(p, "shortName")) {
			chosen = p
			break
		}
	}

	rows := nz.DigSlice(chosen, "ranks")
	if len(rows) == 0 {
		rows = nz.DigSlice(chosen, "rankings")
	}

	poll := standings.Poll{
		Name: firstNonEmpty(nz.String(chosen, "name"), nz.String(chosen, "shortName")),
		Rows: make([]standings.PollRow, 0, len(rows)),
	}
	for _, r := range rows {
		team := nz.DigMap(r, "team")
		name := nz.String(team, "displayName", "name")
		if name == "" {
			continue
		}
		poll.Rows = append(poll.Rows, standings.PollRow{
			Rank:   nz.Int(r, "current", "rank"),
			TeamID: nz.String(team, "id"),
			Team:   name,
			Record: firstNonEmpty(nz.String(r, "recordSummary"), nz.String(team, "recordSummary")),
		})
	}
	return poll
}
