package token

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/menulens/backend/internal/domain"
	"github.com/menulens/backend/internal/infrastructure/decode"
	"golang.org/x/sync/singleflight"
)

// Manager owns the bearer token used against the dining API.
// The token is fetched lazily and replaced only by a successful Refresh.
type Manager struct {
	httpClient *http.Client
	tokenURL   string

	mu      sync.RWMutex
	token   string
	expires time.Time

	group singleflight.Group
}

// NewManager creates a token manager fetching credentials from tokenURL
func NewManager(httpClient *http.Client, tokenURL string) *Manager {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Manager{
		httpClient: httpClient,
		tokenURL:   tokenURL,
	}
}

// Token returns the currently held token, if any. It never fetches.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// Expiry returns the exp claim of the held token when it is a JWT carrying one.
// It is reported only; refreshing is still driven by 401 responses.
func (m *Manager) Expiry() (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expires, !m.expires.IsZero()
}

// Refresh fetches a new token and replaces the held one.
// Concurrent callers share a single request to the token endpoint.
// On failure the previously held token is left untouched.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	v, err, _ := m.group.Do("refresh", func() (any, error) {
		return m.fetch(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *Manager) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("User-Agent", "MenuLens/1.0")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Printf("[TOKEN] request failed: %v", err)
		return "", fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading token response: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[TOKEN] token endpoint returned status %d", resp.StatusCode)
		return "", fmt.Errorf("%w: token endpoint status %d", domain.ErrAuthenticationRequired, resp.StatusCode)
	}

	tok, ok := decode.Token(body)
	if !ok {
		log.Printf("[TOKEN] no token found in %d byte response", len(body))
		return "", fmt.Errorf("%w: no token in response", domain.ErrAuthenticationRequired)
	}

	exp, _ := expiry(tok)

	m.mu.Lock()
	m.token = tok
	m.expires = exp
	m.mu.Unlock()

	log.Printf("[TOKEN] refreshed (%s)", describe(tok))
	return tok, nil
}

// claims reads the claims of a JWT-shaped token without verifying it
func claims(tok string) (jwt.MapClaims, bool) {
	if !decode.IsJWTShaped(tok) {
		return nil, false
	}
	c := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, c); err != nil {
		return nil, false
	}
	return c, true
}

func expiry(tok string) (time.Time, bool) {
	c, ok := claims(tok)
	if !ok {
		return time.Time{}, false
	}
	exp, err := c.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.UTC(), true
}

// describe summarizes a token for logs without printing it
func describe(tok string) string {
	if !decode.IsJWTShaped(tok) {
		return "opaque"
	}
	if _, ok := claims(tok); !ok {
		return "jwt-shaped, unreadable claims"
	}
	exp, ok := expiry(tok)
	if !ok {
		return "jwt, no expiry"
	}
	return "jwt, expires " + exp.Format(time.RFC3339)
}
