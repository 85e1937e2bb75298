package sportsref

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/normalize"
	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
	"github.com/riskibarqy/hoops-hub/internal/usecase"
)

const (
	defaultBaseURL    = "https://www.sports-reference.com/cbb/schools"
	defaultSchoolSlug = "florida"
)

// TextFetcher retrieves a document body as text.
type TextFetcher interface {
	FetchText(ctx context.Context, target string) (string, error)
}

type ClientConfig struct {
	Fetcher    TextFetcher
	BaseURL    string
	SchoolSlug string
	Logger     *logging.Logger
}

var _ usecase.HistoricalRosterProvider = (*Client)(nil)

// Client scrapes historical season rosters from a school's season page.
type Client struct {
	fetcher TextFetcher
	baseURL string
	school  string
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	school := strings.TrimSpace(cfg.SchoolSlug)
	if school == "" {
		school = defaultSchoolSlug
	}
	return &Client{
		fetcher: cfg.Fetcher,
		baseURL: base,
		school:  school,
		logger:  logger.Named("sportsref"),
	}
}

func (c *Client) SeasonURL(season int) string {
	return fmt.Sprintf("%s/%s/%d.html", c.baseURL, c.school, season)
}

// Roster returns the season's roster rows. A page without a roster table
// yields an empty list, not an error.
func (c *Client) Roster(ctx context.Context, season int) ([]normalize.ScrapedRow, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("sportsref client has no fetcher")
	}
	target := c.SeasonURL(season)
	body, err := c.fetcher.FetchText(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("sportsref get %s: %w", target, err)
	}

	rows, err := ParseRoster(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sportsref parse %s: %w", target, err)
	}
	c.logger.DebugContext(ctx, "scraped roster", "season", season, "rows", len(rows))
	return rows, nil
}

// FetchHistoricalRoster returns the scraped roster as canonical athletes.
func (c *Client) FetchHistoricalRoster(ctx context.Context, season int) ([]athlete.Athlete, error) {
	rows, err := c.Roster(ctx, season)
	if err != nil {
		return nil, err
	}
	return normalize.Athletes(rows), nil
}
