package cards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mcoot/commander-tracker/internal/model"
)

// MinSuggestLength is the shortest query that is sent for autocompletion
const MinSuggestLength = 3

// commanderFilter restricts a search to cards that can lead a deck
const commanderFilter = `(type:legendary type:creature) OR (type:planeswalker o:"can be your commander")`

// Config holds card database connection settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns the settings for the public Scryfall API
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://api.scryfall.com",
		Timeout:   10 * time.Second,
		UserAgent: "commander-tracker/1.0",
	}
}

// errNotFound is returned by get for a 404 response
var errNotFound = errors.New("card database returned 404")

// Client looks up cards in the Scryfall API. It holds no state between calls.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new card lookup client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ShouldSuggest reports whether query is long enough to be looked up
func (c *Client) ShouldSuggest(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= MinSuggestLength
}

// Suggest returns card names completing query. Short queries return nothing
// without a request, and lookup failures are logged and return nothing.
func (c *Client) Suggest(ctx context.Context, query string) []string {
	if !c.ShouldSuggest(query) {
		return []string{}
	}
	query = strings.TrimSpace(query)

	var resp autocompleteResponse
	if err := c.get(ctx, "/cards/autocomplete", url.Values{"q": {query}}, &resp); err != nil {
		c.logger.Warn("autocomplete failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return []string{}
	}
	if resp.Data == nil {
		return []string{}
	}
	return resp.Data
}

// Resolve fetches a card by exact name and checks that it can be a commander.
// A transport failure returns StatusNotFound along with the error.
func (c *Client) Resolve(ctx context.Context, name string) (Result, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{Status: StatusNotFound}, nil
	}

	var card Card
	err := c.get(ctx, "/cards/named", url.Values{"exact": {name}}, &card)
	if errors.Is(err, errNotFound) {
		return Result{Status: StatusNotFound}, nil
	}
	if err != nil {
		c.logger.Warn("card lookup failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return Result{Status: StatusNotFound}, err
	}

	if !CanBeCommander(&card) {
		return Result{Status: StatusIneligible, Card: &card}, nil
	}
	return Result{Status: StatusFound, Card: &card}, nil
}

// Search runs a card search restricted to commander-eligible cards
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	q := strings.TrimSpace(query + " " + commanderFilter)

	var result SearchResult
	err := c.get(ctx, "/cards/search", url.Values{"q": {q}}, &result)
	if errors.Is(err, errNotFound) {
		// Scryfall answers an empty search with 404
		return &SearchResult{Data: []Card{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if result.Data == nil {
		result.Data = []Card{}
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrCardLookup, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", model.ErrCardLookup, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return fmt.Errorf("%w: status %d: %s", model.ErrCardLookup, resp.StatusCode, apiErr.Details)
		}
		return fmt.Errorf("%w: status %d", model.ErrCardLookup, resp.StatusCode)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", model.ErrCardLookup, err)
	}
	return nil
}
