package dining

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/menulens/backend/internal/domain"
	"github.com/menulens/backend/internal/infrastructure/cache"
	"github.com/menulens/backend/internal/infrastructure/decode"
	"golang.org/x/time/rate"
)

// Date format expected by the dining API query parameters
const queryDateLayout = "2006/01/02"

// Config holds the dining API client settings
type Config struct {
	BaseURL   string
	AccountID string
	TenantID  string

	PeriodsTTL time.Duration
	ItemsTTL   time.Duration

	// DialTimeout bounds connection setup and waiting for response headers;
	// RequestTimeout bounds the whole exchange including the body.
	DialTimeout    time.Duration
	RequestTimeout time.Duration

	// RequestsPerSecond limits outbound calls; zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Client fetches meal periods and meal items from the dining API.
// Responses are served from the cache when fresh; on a 401 the token is
// refreshed and the request is retried exactly once.
type Client struct {
	httpClient  *http.Client
	cfg         Config
	tokens      domain.TokenSource
	cache       domain.CacheStore
	rateLimiter *rate.Limiter
}

// NewHTTPClient builds the transport shared by the dining client and the token manager
func NewHTTPClient(dialTimeout, requestTimeout time.Duration) *http.Client {
	if dialTimeout <= 0 {
		dialTimeout = 30 * time.Second
	}
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext
	transport.ResponseHeaderTimeout = dialTimeout

	return &http.Client{
		Transport: transport,
		Timeout:   requestTimeout,
	}
}

// NewClient creates a new dining API client
func NewClient(cfg Config, tokens domain.TokenSource, store domain.CacheStore) *Client {
	if cfg.PeriodsTTL == 0 {
		cfg.PeriodsTTL = cache.PeriodsTTL
	}
	if cfg.ItemsTTL == 0 {
		cfg.ItemsTTL = cache.ItemsTTL
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 10
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		httpClient:  NewHTTPClient(cfg.DialTimeout, cfg.RequestTimeout),
		cfg:         cfg,
		tokens:      tokens,
		cache:       store,
		rateLimiter: limiter,
	}
}

// GetMealPeriods returns the active meal periods of a location
func (c *Client) GetMealPeriods(ctx context.Context, locationID int) ([]domain.MealPeriod, error) {
	key := cache.PeriodsKey(locationID)
	if data, ok := c.cache.Load(key, c.cfg.PeriodsTTL); ok {
		periods, err := decode.MealPeriods(data)
		if err == nil {
			return periods, nil
		}
		log.Printf("[DINING] cached periods for location %d unreadable, refetching: %v", locationID, err)
	}

	params := url.Values{}
	params.Set("IsActive", "1")
	params.Set("LocationId", strconv.Itoa(locationID))

	body, err := c.fetch(ctx, "/mealPeriods", params)
	if err != nil {
		return nil, err
	}

	periods, err := decode.MealPeriods(body)
	if err != nil {
		log.Printf("[DINING] periods for location %d: %v", locationID, err)
		return nil, err
	}

	c.cache.Save(key, body)
	return periods, nil
}

// GetMealItems returns the meal items served at a location and period on query.Date
func (c *Client) GetMealItems(ctx context.Context, query domain.ItemsQuery) ([]domain.MealItem, error) {
	selected := query.Date.Format(queryDateLayout)

	key := cache.ItemsKey(query.LocationID, query.PeriodID, query.Date)
	if data, ok := c.cache.Load(key, c.cfg.ItemsTTL); ok {
		items, err := decode.MealItems(data, selected)
		if err == nil {
			return items, nil
		}
		log.Printf("[DINING] cached items %s unreadable, refetching: %v", key, err)
	}

	body, err := c.fetch(ctx, "/meals", c.itemsParams(query))
	if err != nil {
		return nil, err
	}

	items, err := decode.MealItems(body, selected)
	if err != nil {
		log.Printf("[DINING] items for location %d period %d: %v", query.LocationID, query.PeriodID, err)
		return nil, err
	}

	c.cache.Save(key, body)
	return items, nil
}

func (c *Client) itemsParams(query domain.ItemsQuery) url.Values {
	offset := query.TZOffsetMinutes
	if offset < 0 {
		offset = -offset
	}

	params := url.Values{}
	params.Set("menuId", "0")
	params.Set("accountId", c.cfg.AccountID)
	params.Set("locationId", strconv.Itoa(query.LocationID))
	params.Set("mealPeriodId", strconv.Itoa(query.PeriodID))
	params.Set("tenantId", c.cfg.TenantID)
	params.Set("fromDate", query.From.Format(queryDateLayout))
	params.Set("endDate", query.To.Format(queryDateLayout))
	params.Set("timeOffset", strconv.Itoa(offset))
	params.Set("monthId", strconv.Itoa(int(query.Date.Month())))
	return params
}

// fetch performs one logical request: send, and on 401 refresh the token
// and send once more. Only a 200 body is returned.
func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, params.Encode())

	status, body, err := c.send(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		log.Printf("[DINING] %s returned 401, refreshing token", path)
		if _, err := c.tokens.Refresh(ctx); err != nil {
			return nil, err
		}
		status, body, err = c.send(ctx, reqURL)
		if err != nil {
			return nil, err
		}
	}

	if status != http.StatusOK {
		log.Printf("[DINING] %s failed - Status: %d, Body: %s", path, status, truncate(body, 256))
		return nil, fmt.Errorf("%w: %s status %d", domain.ErrBadServerResponse, path, status)
	}
	return body, nil
}

// send issues a single GET carrying the current token, if one is held
func (c *Client) send(ctx context.Context, reqURL string) (int, []byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MenuLens/1.0")
	req.Header.Set("Accept", "application/json")
	if tok, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response: %v", domain.ErrNetwork, err)
	}
	return resp.StatusCode, body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
