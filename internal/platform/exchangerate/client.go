// Package exchangerate fetches the live USD exchange rate used to derive
// local selling prices.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// DefaultBaseURL is the public endpoint; overridable for tests and config.
const DefaultBaseURL = "https://api.exchangerate-api.com"

type Client struct {
	httpClient *http.Client
	baseURL    string
	currency   string
	fallback   float64
}

func NewClient(baseURL, currency string, fallback float64, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		currency:   currency,
		fallback:   fallback,
	}
}

// latestResponse matches /v4/latest/USD.
type latestResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the USD rate for the configured currency. It never fails:
// any transport, status or decode problem resolves to the static fallback
// so price calculation is not blocked by the third-party service. A single
// attempt is made per call; there is no retry loop.
func (c *Client) Rate(ctx context.Context) float64 {
	rate, err := c.fetch(ctx)
	if err != nil {
		log.Printf("exchangerate: %v, using default rate %v", err, c.fallback)
		return c.fallback
	}
	return rate
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v4/latest/USD", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	rate, ok := body.Rates[c.currency]
	if !ok {
		return 0, fmt.Errorf("rate for %s missing from response", c.currency)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("non-positive rate %v for %s", rate, c.currency)
	}
	return rate, nil
}
