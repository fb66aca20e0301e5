package omiri

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/omiri/backend/internal/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	maxAttempts      = 3
	maxBodyBytes     = 10 << 20
	maxErrorBodySize = 512
	storePageLimit   = 250
	userAgent        = "Omiri/1.0"
)

var (
	_ domain.DealSearcher = (*Client)(nil)
	_ domain.StoreLookup  = (*Client)(nil)
)

// ClientConfig configures the deals API client
type ClientConfig struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client handles communication with the Omiri deals API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	rateLimiter *rate.Limiter
	retryBase   time.Duration
}

// NewClient creates a new deals API client
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		retryBase:   500 * time.Millisecond,
	}
}

// SearchShoppingList matches the comma-joined item list against live deals
func (c *Client) SearchShoppingList(ctx context.Context, query domain.SearchQuery) (domain.MatchResult, error) {
	params := url.Values{}
	params.Set("items", query.Items)
	if query.Country != "" {
		params.Set("country", query.Country)
	}
	if query.Retailers != "" {
		params.Set("retailers", query.Retailers)
	}

	var resp ShoppingListSearchResponse
	if err := c.getJSON(ctx, "/shopping-list/search", params, &resp, domain.ErrSearchFailure); err != nil {
		return nil, err
	}

	result := MapToMatchResult(&resp)
	log.WithFields(log.Fields{
		"component":   "deals-api",
		"items_found": resp.ItemsFound,
		"total_deals": result.TotalDeals(),
	}).Debug("Shopping list search completed")

	return result, nil
}

// GetStores returns the retailer groups available in a country
func (c *Client) GetStores(ctx context.Context, country string) ([]domain.StoreRecord, error) {
	params := url.Values{}
	if country != "" {
		params.Set("country", country)
	}
	params.Set("limit", fmt.Sprintf("%d", storePageLimit))
	params.Set("page", "1")

	var stores []StoreListResponse
	if err := c.getJSON(ctx, "/stores", params, &stores, domain.ErrStoreLookupFailure); err != nil {
		return nil, err
	}

	return MapToStoreRecords(stores), nil
}

// getJSON performs a GET with up to maxAttempts tries on 5xx/429 and transport
// errors, decoding the body into out. Errors wrap failure.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}, failure error) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	logger := log.WithFields(log.Fields{"component": "deals-api", "path": path})

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, c.backoff(attempt-1)); err != nil {
				return fmt.Errorf("%w: %v", failure, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", failure, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			var urlErr *url.Error
			if ctx.Err() != nil || (errors.As(err, &urlErr) && urlErr.Op == "parse") {
				return fmt.Errorf("%w: %v", failure, err)
			}
			logger.WithField("attempt", attempt).Warnf("Request error: %v", err)
			lastErr = fmt.Errorf("%w: %v", failure, err)
			continue
		}

		body, readErr := readLimitedBody(resp.Body, maxBodyBytes)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", failure, readErr)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			logger.WithFields(log.Fields{
				"attempt": attempt,
				"status":  resp.StatusCode,
			}).Warnf("API error: %s", truncate(string(body), maxErrorBodySize))

			lastErr = fmt.Errorf("%w: status %d", failure, resp.StatusCode)
			if !retryableStatus(resp.StatusCode) {
				return lastErr
			}
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", failure, err)
		}
		return nil
	}

	logger.Errorf("All %d attempts failed", maxAttempts)
	return lastErr
}

// doRequest executes an HTTP GET request with auth headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	return c.httpClient.Do(req)
}

// backoff returns the delay before retry number attempt (1-based)
func (c *Client) backoff(attempt int) time.Duration {
	return c.retryBase * time.Duration(1<<(attempt-1))
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
