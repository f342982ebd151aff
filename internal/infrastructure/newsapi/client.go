package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"NewsAgent/internal/config"
	"NewsAgent/internal/domain"
	"NewsAgent/internal/ports"
)

const (
	// Name identifies the source in the headlines registry.
	Name = "newsapi"
	// MaxPageSize is the largest page the service returns.
	MaxPageSize = 100

	removedPlaceholder = "[Removed]"
)

// Client fetches top headlines from NewsAPI.
type Client struct {
	endpoint string
	apiKey   string
	country  string
	language string
	http     *http.Client
	policy   *bluemonday.Policy
	logger   *slog.Logger
}

var _ ports.HeadlineSource = (*Client)(nil)

// NewClient creates a reusable HTTP client. A nil httpClient gets a 15s timeout.
func NewClient(cfg config.NewsAPIConfig, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		country:  cfg.Country,
		language: cfg.Language,
		http:     httpClient,
		policy:   bluemonday.StrictPolicy(),
		logger:   log,
	}
}

// Name implements ports.HeadlineSource.
func (c *Client) Name() string {
	return Name
}

type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Fetch requests top headlines for category. Excluded URLs are over-requested and then
// filtered so the page can still be filled; once they exceed one page the request moves
// to a later page.
func (c *Client) Fetch(ctx context.Context, category string, pageSize int, excluded map[string]struct{}) ([]domain.HeadlineRecord, error) {
	if pageSize <= 0 {
		return []domain.HeadlineRecord{}, nil
	}
	if c.apiKey == "" {
		return nil, &domain.ConfigurationError{Field: "newsapi.apiKey", Reason: "api key is not set"}
	}

	// Past the first full page, skip the pages already consumed by excluded URLs.
	request, page := pageSize+len(excluded), 1
	if request > MaxPageSize {
		request = MaxPageSize
		page = len(excluded)/MaxPageSize + 1
	}

	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if c.country != "" {
		query.Set("country", c.country)
	}
	if c.language != "" {
		query.Set("language", c.language)
	}
	query.Set("pageSize", strconv.Itoa(request))
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}

	var resp response
	if err := c.get(ctx, query, &resp); err != nil {
		return nil, &domain.SourceUnavailableError{Source: Name, Err: err}
	}
	if resp.Status != "ok" {
		return nil, &domain.SourceUnavailableError{
			Source: Name,
			Err:    fmt.Errorf("status %q: %s: %s", resp.Status, resp.Code, resp.Message),
		}
	}

	records := make([]domain.HeadlineRecord, 0, pageSize)
	seen := make(map[string]struct{}, len(resp.Articles))
	for _, a := range resp.Articles {
		link := strings.TrimSpace(a.URL)
		if link == "" || a.Title == removedPlaceholder {
			continue
		}
		if _, skip := excluded[link]; skip {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		records = append(records, domain.HeadlineRecord{
			Title:       c.clean(a.Title),
			URL:         link,
			SourceName:  strings.TrimSpace(a.Source.Name),
			PublishedAt: parseTime(a.PublishedAt),
			Description: c.clean(a.Description),
		})
		if len(records) == pageSize {
			break
		}
	}

	c.debug("headlines fetched", "category", category, "requested", request, "returned", len(resp.Articles), "kept", len(records))
	return records, nil
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

func (c *Client) clean(value string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(value)))
}

func (c *Client) get(ctx context.Context, query url.Values, v any) error {
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %s: %w", c.endpoint, err)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Error payloads carry the same status/code/message envelope.
		var apiErr response
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("unexpected status %s: %s: %s", resp.Status, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("decode response: empty body")
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
