// Package catalog is a read-only client for the RAWG game catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-library/internal/domain"
	"storefront-library/internal/logger"
)

const (
	serviceName = "rawg"
	dateLayout  = "2006-01-02"
)

// Client issues catalog queries. It does not retry or cache.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds a client for baseURL (e.g. https://api.rawg.io/api).
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// WithClock replaces the time source used for date-window queries.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// GetTopRatedGames returns games ordered by metacritic score.
func (c *Client) GetTopRatedGames(ctx context.Context, pageSize int) ([]domain.Game, error) {
	return c.listGames(ctx, "GetTopRatedGames", url.Values{
		"ordering":  {"-metacritic"},
		"page_size": {strconv.Itoa(pageSize)},
	})
}

func (c *Client) GetGameDetails(ctx context.Context, id int) (*domain.Game, error) {
	var game domain.Game
	if err := c.get(ctx, "GetGameDetails", fmt.Sprintf("/games/%d", id), nil, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (c *Client) SearchGames(ctx context.Context, query string, pageSize int) ([]domain.Game, error) {
	return c.listGames(ctx, "SearchGames", url.Values{
		"search":    {query},
		"page_size": {strconv.Itoa(pageSize)},
	})
}

// GetNewGames returns games released during the last month, most added first.
func (c *Client) GetNewGames(ctx context.Context, pageSize int) ([]domain.Game, error) {
	today := c.now().UTC()
	return c.listGames(ctx, "GetNewGames", url.Values{
		"dates":     {dateRange(today.AddDate(0, -1, 0), today)},
		"ordering":  {"-added"},
		"page_size": {strconv.Itoa(pageSize)},
	})
}

// GetUpcomingGames returns games releasing within the next year.
func (c *Client) GetUpcomingGames(ctx context.Context, pageSize int) ([]domain.Game, error) {
	today := c.now().UTC()
	return c.listGames(ctx, "GetUpcomingGames", url.Values{
		"dates":     {dateRange(today, today.AddDate(1, 0, 0))},
		"ordering":  {"-added"},
		"page_size": {strconv.Itoa(pageSize)},
	})
}

func (c *Client) GetGamesByGenre(ctx context.Context, genreID, pageSize int) ([]domain.Game, error) {
	return c.listGames(ctx, "GetGamesByGenre", url.Values{
		"genres":    {strconv.Itoa(genreID)},
		"ordering":  {"-metacritic"},
		"page_size": {strconv.Itoa(pageSize)},
	})
}

func (c *Client) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	var page domain.Page[domain.Genre]
	if err := c.get(ctx, "GetGenres", "/genres", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetGameScreenshots(ctx context.Context, id int) ([]domain.Screenshot, error) {
	var page domain.Page[domain.Screenshot]
	if err := c.get(ctx, "GetGameScreenshots", fmt.Sprintf("/games/%d/screenshots", id), nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetGameTrailers(ctx context.Context, id int) ([]domain.Trailer, error) {
	var page domain.Page[domain.Trailer]
	if err := c.get(ctx, "GetGameTrailers", fmt.Sprintf("/games/%d/movies", id), nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// FindBySlug resolves a game page slug: the first search hit for the slug
// is looked up by id. No hit yields a NotFoundError.
func (c *Client) FindBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	hits, err := c.SearchGames(ctx, slug, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, &domain.NotFoundError{Resource: "game", ID: slug}
	}
	return c.GetGameDetails(ctx, hits[0].ID)
}

func (c *Client) listGames(ctx context.Context, op string, params url.Values) ([]domain.Game, error) {
	var page domain.Page[domain.Game]
	if err := c.get(ctx, op, "/games", params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []domain.Game{}, nil
	}
	return page.Results, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string, params url.Values, out any) (err error) {
	logger.ExternalServiceCall(serviceName, op, "endpoint", endpoint)
	defer func() { logger.ExternalServiceResult(serviceName, op, err, "endpoint", endpoint) }()

	q := url.Values{"key": {c.apiKey}}
	for k, v := range params {
		q[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &domain.NetworkError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode), Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.ParseError{Err: err}
	}
	return nil
}

func dateRange(from, to time.Time) string {
	return from.Format(dateLayout) + "," + to.Format(dateLayout)
}
