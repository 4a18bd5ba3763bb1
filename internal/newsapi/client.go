// Package newsapi provides a client for the NewsAPI.org /v2 endpoints.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the production NewsAPI endpoint.
	DefaultBaseURL = "https://newsapi.org/v2"

	defaultTimeout = 30 * time.Second
	maxPageSize    = 100

	// StatusOK is the status field value NewsAPI returns on success.
	StatusOK = "ok"
)

// SearchRequest holds the parameters for an /everything search.
type SearchRequest struct {
	Query    string
	From     string // YYYY-MM-DD, inclusive lower bound on publish date
	Language string
	SortBy   string
	PageSize int
	Page     int
}

// Response is the JSON envelope NewsAPI returns.
type Response struct {
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// Article is a raw article record as NewsAPI returns it. Timestamps stay as
// strings here; parsing happens in the pipeline where a bad value can be
// skipped per record.
type Article struct {
	Source      Source `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// Source identifies the publisher of an article.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Searcher is the narrow interface the pipeline consumes. It exists so the
// pipeline can be tested with deterministic stand-ins.
type Searcher interface {
	SearchEverything(ctx context.Context, req SearchRequest) (*Response, error)
}

// Client calls NewsAPI over HTTP with an API-key header.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the NewsAPI base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a NewsAPI client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchEverything calls GET /everything. A non-2xx status or transport
// failure is returned as an error; an "error" status inside a 200 response
// is returned in Response.Status for the caller to inspect.
func (c *Client) SearchEverything(ctx context.Context, req SearchRequest) (*Response, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	if req.Language != "" {
		params.Set("language", req.Language)
	}
	if req.SortBy != "" {
		params.Set("sortBy", req.SortBy)
	}
	if req.From != "" {
		params.Set("from", req.From)
	}
	pageSize := req.PageSize
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	if req.Page > 0 {
		params.Set("page", strconv.Itoa(req.Page))
	}

	endpoint := c.baseURL + "/everything?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned %d", resp.StatusCode)
	}

	var result Response
	if decodeErr := json.NewDecoder(resp.Body).Decode(&result); decodeErr != nil {
		return nil, fmt.Errorf("decode newsapi response: %w", decodeErr)
	}

	return &result, nil
}
