package game

import "time"

type Site string

const (
	SiteHome    Site = "home"
	SiteAway    Site = "away"
	SiteNeutral Site = "neutral"
)

type Result string

const (
	ResultWin      Result = "W"
	ResultLoss     Result = "L"
	ResultUnplayed Result = ""
)

// State mirrors the upstream event lifecycle.
type State string

const (
	StatePre  State = "pre"
	StateIn   State = "in"
	StatePost State = "post"
)

type SeasonType int

const (
	SeasonTypeRegular SeasonType = 2
	SeasonTypePost    SeasonType = 3
)

type Opponent struct {
	ID           string
	Name         string
	Abbreviation string
	LogoURL      string
	Rank         int
}

// BoxScore holds one side's raw counting stats. Missing counts are zero.
type BoxScore struct {
	FieldGoalsMade      int
	FieldGoalsAttempted int
	ThreePointMade      int
	ThreePointAttempted int
	FreeThrowsMade      int
	FreeThrowsAttempted int
	OffensiveRebounds   int
	TotalRebounds       int
	Assists             int
	Turnovers           int
	Points              int
	// Minutes is the team total; zero means the box score omitted it.
	Minutes float64
}

type Status struct {
	State  State
	Detail string
	Period int
	Clock  string
}

// GameRecord is one scheduled or played game. Records are rebuilt on every
// schedule load and replaced wholesale.
type GameRecord struct {
	ID            string
	StartsAt      time.Time
	SeasonType    SeasonType
	Opponent      Opponent
	Site          Site
	Result        Result
	TeamScore     *int
	OpponentScore *int
	Venue         string
	City          string
	Broadcast     string
	BoxScoreURL   string
	Status        Status

	// Box counts are set only for completed games that have been enriched.
	TeamBox     *BoxScore
	OpponentBox *BoxScore
}

func (g GameRecord) Completed() bool {
	return g.Result != ResultUnplayed
}

func (g GameRecord) InProgress() bool {
	return g.Status.State == StateIn
}

// Upcoming reports whether the game has not started and starts after now.
func (g GameRecord) Upcoming(now time.Time) bool {
	return !g.Completed() && g.Status.State != StateIn && g.Status.State != StatePost && g.StartsAt.After(now)
}
