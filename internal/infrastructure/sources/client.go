package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopscout/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	requestTimeout = 15 * time.Second
	maxAttempts    = 3
	pageSize       = 50
)

// StoreClient is a SearchProvider backed by a store's product search API.
// One client per store; clients share nothing.
type StoreClient struct {
	store       string
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	debug       bool
}

// NewStoreClient creates a client for one store API. rps bounds outbound
// request rate; zero or negative falls back to 5 req/s.
func NewStoreClient(store, baseURL, apiKey string, rps float64) *StoreClient {
	if rps <= 0 {
		rps = 5
	}

	return &StoreClient{
		store:   store,
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 10),
	}
}

// SetDebug toggles request logging
func (c *StoreClient) SetDebug(debug bool) {
	c.debug = debug
}

// Name returns the store this client searches
func (c *StoreClient) Name() string {
	return c.store
}

// IsAvailable reports whether the client is configured well enough to call
func (c *StoreClient) IsAvailable() bool {
	return c.baseURL != ""
}

// Search queries the store API and maps the response to domain candidates.
// Transient failures are retried with a short backoff; an empty product list
// is a normal outcome.
func (c *StoreClient) Search(ctx context.Context, intent *domain.SearchIntent) ([]domain.Candidate, error) {
	endpoint := fmt.Sprintf("%s/v1/products/search", c.baseURL)
	params := url.Values{}
	params.Add("query", intent.Query)
	params.Add("pageSize", fmt.Sprintf("%d", pageSize))
	if c.apiKey != "" {
		params.Add("api_key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, status, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[SOURCES] %s request error (attempt %d): %v", c.store, attempt, err)
			}
			// Client errors like a rejected api_key will not heal on retry
			if status >= 400 && status < 500 {
				return nil, err
			}
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Duration(attempt*250) * time.Millisecond):
				}
			}
			continue
		}

		var resp searchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", c.store, err)
		}

		if c.debug {
			log.Printf("[SOURCES] %s returned %d products for %q", c.store, len(resp.Products), intent.Query)
		}

		return mapProducts(resp.Products, c.store), nil
	}

	return nil, lastErr
}

// doRequest executes one GET and returns the body for 200 responses. The
// status code is 0 when the failure happened before a response arrived.
func (c *StoreClient) doRequest(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ShopScout/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrSourceFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading body: %v", domain.ErrSourceFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("%w: %s status %d", domain.ErrSourceFailure, c.store, resp.StatusCode)
	}

	return body, resp.StatusCode, nil
}
