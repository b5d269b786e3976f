// Package content fetches motivational quotes and short health facts and
// keeps an offline copy in the settings store.
package content

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

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// Client talks to the quotes and facts HTTP APIs
type Client struct {
	quotesURL string
	factsURL  string
	http      *http.Client
}

// NewClient builds a client. Empty base URLs fall back to the public defaults.
func NewClient(quotesURL, factsURL string, timeout time.Duration) *Client {
	if quotesURL == "" {
		quotesURL = constants.DefaultQuotesBaseURL
	}
	if factsURL == "" {
		factsURL = constants.DefaultFactsBaseURL
	}
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	return &Client{
		quotesURL: strings.TrimSuffix(quotesURL, "/") + "/",
		factsURL:  strings.TrimSuffix(factsURL, "/") + "/",
		http:      &http.Client{Timeout: timeout},
	}
}

type quoteResponse struct {
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags,omitempty"`
}

type quotesListResponse struct {
	Results    []quoteResponse `json:"results"`
	Count      int             `json:"count"`
	TotalCount int             `json:"totalCount"`
}

type factResponse struct {
	Text      string `json:"text"`
	Source    string `json:"source,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	Language  string `json:"language,omitempty"`
}

func (c *Client) RandomQuote(ctx context.Context) (models.Quote, error) {
	var resp quoteResponse
	if err := c.getJSON(ctx, c.quotesURL+"random", &resp); err != nil {
		return models.Quote{}, err
	}
	return models.Quote{Content: resp.Content, Author: resp.Author}, nil
}

func (c *Client) QuotesByTag(ctx context.Context, tag string, limit int) ([]models.Quote, error) {
	q := url.Values{}
	q.Set("tags", tag)
	q.Set("limit", strconv.Itoa(limit))

	var resp quotesListResponse
	if err := c.getJSON(ctx, c.quotesURL+"quotes?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	quotes := make([]models.Quote, 0, len(resp.Results))
	for _, r := range resp.Results {
		quotes = append(quotes, models.Quote{Content: r.Content, Author: r.Author})
	}
	return quotes, nil
}

// RandomFact returns one fact. The API has no categories, so every fact is "general".
func (c *Client) RandomFact(ctx context.Context) (models.HealthTip, error) {
	var resp factResponse
	if err := c.getJSON(ctx, c.factsURL+"random.json", &resp); err != nil {
		return models.HealthTip{}, err
	}
	return models.HealthTip{Fact: resp.Text, Category: "general"}, nil
}

// FactsBatch fetches n random facts tagged with category
func (c *Client) FactsBatch(ctx context.Context, category string, n int) ([]models.HealthTip, error) {
	tips := make([]models.HealthTip, 0, n)
	for i := 0; i < n; i++ {
		tip, err := c.RandomFact(ctx)
		if err != nil {
			return nil, err
		}
		tip.Category = category
		tips = append(tips, tip)
	}
	return tips, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", rawURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
