package espn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/domain/game"
	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
)

const (
	defaultSiteBaseURL      = "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball"
	defaultCoreBaseURL      = "https://sports.core.api.espn.com/v2/sports/basketball/leagues/mens-college-basketball"
	defaultStandingsBaseURL = "https://site.api.espn.com/apis/v2/sports/basketball/mens-college-basketball"
	defaultTeamID           = "57"
	defaultConferenceGroup  = "23"

	playerProfileBase = "https://www.espn.com/mens-college-basketball/player/_/id/"
	gamePageBase      = "https://www.espn.com/mens-college-basketball/game/_/gameId/"
)

// JSONFetcher retrieves and decodes a JSON document.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, target string) (any, error)
}

type ClientConfig struct {
	Fetcher           JSONFetcher
	SiteBaseURL       string
	CoreBaseURL       string
	StandingsBaseURL  string
	TeamID            string
	ConferenceGroupID string
	Logger            *logging.Logger
}

// Client builds ESPN endpoint URLs for one team and returns raw decoded
// payloads. Parsing lives in the package-level Parse* functions.
type Client struct {
	fetcher       JSONFetcher
	siteBase      string
	coreBase      string
	standingsBase string
	teamID        string
	groupID       string
	logger        *logging.Logger
	now           func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		fetcher:       cfg.Fetcher,
		siteBase:      baseOrDefault(cfg.SiteBaseURL, defaultSiteBaseURL),
		coreBase:      baseOrDefault(cfg.CoreBaseURL, defaultCoreBaseURL),
		standingsBase: baseOrDefault(cfg.StandingsBaseURL, defaultStandingsBaseURL),
		teamID:        firstNonEmpty(cfg.TeamID, defaultTeamID),
		groupID:       firstNonEmpty(cfg.ConferenceGroupID, defaultConferenceGroup),
		logger:        logger.Named("espn"),
		now:           time.Now,
	}
}

func (c *Client) TeamID() string {
	return c.teamID
}

// Team returns the site team resource with roster, statistics and record.
func (c *Client) Team(ctx context.Context, season int) (any, error) {
	return c.get(ctx, c.siteURL("/teams/"+c.teamID, url.Values{
		"enable": {"roster,statistics,record"},
		"season": {strconv.Itoa(season)},
	}))
}

func (c *Client) Roster(ctx context.Context, season int) (any, error) {
	return c.get(ctx, c.siteURL("/teams/"+c.teamID+"/roster", url.Values{
		"season": {strconv.Itoa(season)},
	}))
}

func (c *Client) Schedule(ctx context.Context, season int, seasonType game.SeasonType) (any, error) {
	return c.get(ctx, c.siteURL("/teams/"+c.teamID+"/schedule", url.Values{
		"season":     {strconv.Itoa(season)},
		"seasontype": {strconv.Itoa(int(seasonType))},
	}))
}

func (c *Client) Summary(ctx context.Context, eventID string) (any, error) {
	return c.get(ctx, c.siteURL("/summary", url.Values{"event": {eventID}}))
}

func (c *Client) Athlete(ctx context.Context, athleteID string) (any, error) {
	return c.get(ctx, c.siteURL("/athletes/"+url.PathEscape(athleteID), nil))
}

func (c *Client) Rankings(ctx context.Context) (any, error) {
	return c.get(ctx, c.siteURL("/rankings", nil))
}

func (c *Client) Standings(ctx context.Context, season int) (any, error) {
	q := url.Values{
		"season":     {strconv.Itoa(season)},
		"seasontype": {strconv.Itoa(int(game.SeasonTypeRegular))},
		"group":      {c.groupID},
	}
	return c.get(ctx, c.standingsBase+"/standings?"+q.Encode())
}

func (c *Client) CoreTeamAthletes(ctx context.Context, season int) (any, error) {
	return c.get(ctx, c.coreURL(fmt.Sprintf("/seasons/%d/teams/%s/athletes", season, c.teamID)))
}

func (c *Client) CoreTeamStatistics(ctx context.Context, season int) (any, error) {
	return c.get(ctx, c.coreURL(fmt.Sprintf("/seasons/%d/types/0/teams/%s/statistics", season, c.teamID)))
}

func (c *Client) CoreAthlete(ctx context.Context, season int, athleteID string) (any, error) {
	return c.get(ctx, c.coreURL(fmt.Sprintf("/seasons/%d/athletes/%s", season, url.PathEscape(athleteID))))
}

func (c *Client) CoreAthleteStatistics(ctx context.Context, season int, athleteID string) (any, error) {
	return c.get(ctx, c.coreURL(fmt.Sprintf("/seasons/%d/types/0/athletes/%s/statistics", season, url.PathEscape(athleteID))))
}

// ProfileURL links to an athlete's public player page.
func ProfileURL(athleteID string) string {
	if strings.TrimSpace(athleteID) == "" {
		return ""
	}
	return playerProfileBase + athleteID
}

func (c *Client) get(ctx context.Context, target string) (any, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("espn client has no fetcher")
	}
	out, err := c.fetcher.FetchJSON(ctx, target)
	if err != nil {
		c.logger.DebugContext(ctx, "espn request failed", "url", target, "error", err)
		return nil, fmt.Errorf("espn get %s: %w", target, err)
	}
	return out, nil
}

func (c *Client) siteURL(path string, query url.Values) string {
	out := c.siteBase + path
	if encoded := query.Encode(); encoded != "" {
		out += "?" + encoded
	}
	return out
}

func (c *Client) coreURL(path string) string {
	return c.coreBase + path + "?lang=en&region=us"
}

func baseOrDefault(v, fallback string) string {
	v = strings.TrimRight(strings.TrimSpace(v), "/")
	if v == "" {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
