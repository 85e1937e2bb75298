package standings

import (
	"sort"
	"strings"
)

// Entry is one team's row in the conference table.
type Entry struct {
	TeamID       string
	Team         string
	Abbreviation string
	LogoURL      string
	Wins         int
	Losses       int
	ConfWins     int
	ConfLosses   int
}

// Sort orders entries by conference wins desc, conference losses asc,
// overall wins desc, overall losses asc. Remaining ties keep input order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ConfWins != b.ConfWins {
			return a.ConfWins > b.ConfWins
		}
		if a.ConfLosses != b.ConfLosses {
			return a.ConfLosses < b.ConfLosses
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Losses < b.Losses
	})
}

type PollRow struct {
	Rank   int
	TeamID string
	Team   string
	Record string
}

// Poll is a ranking such as the AP Top 25.
type Poll struct {
	Name string
	Rows []PollRow
}

// IsAP reports whether a poll name refers to the Associated Press poll.
func IsAP(name, shortName string) bool {
	for _, v := range []string{name, shortName} {
		upper := strings.ToUpper(v)
		if strings.Contains(upper, "AP") || strings.Contains(upper, "ASSOCIATED") {
			return true
		}
	}
	return false
}

// RankOf returns the team's rank in the poll, zero when unranked.
func (p Poll) RankOf(teamID string) int {
	for _, row := range p.Rows {
		if row.TeamID == teamID {
			return row.Rank
		}
	}
	return 0
}
