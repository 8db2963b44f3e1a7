package igloo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
)

// tokenRefreshMargin is subtracted from the advertised lifetime so a token
// is never used right at its expiry edge
const tokenRefreshMargin = 30 * time.Second

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// tokenSource exchanges client credentials for a bearer token and caches it
// until shortly before expiry
type tokenSource struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newTokenSource(httpClient *http.Client, tokenURL, clientID, clientSecret string, timeProvider coreport.TimeProvider, logger coreport.Logger) *tokenSource {
	return &tokenSource{
		httpClient:   httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Token returns a valid bearer token, refreshing it when the cached one has
// expired. Any failure to authenticate is ErrProviderAuth; callers treat it
// as hard and never fall back to mock credentials.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeProvider.Now()
	if s.token != "" && now.Before(s.expiresAt) {
		return s.token, nil
	}

	s.logger.Debug("Requesting provider access token", map[string]any{
		"token_url": s.tokenURL,
	})

	form := url.Values{}
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: building token request: %s", errs.ErrProviderAuth, err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Provider token exchange failed", map[string]any{
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %s", errs.ErrProviderAuth, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading token response: %s", errs.ErrProviderAuth, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error("Provider token exchange rejected", map[string]any{
			"status":  resp.StatusCode,
			"payload": string(body),
		})
		return "", fmt.Errorf("%w: token endpoint returned %d", errs.ErrProviderAuth, resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decoding token response: %s", errs.ErrProviderAuth, err.Error())
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("%w: token response carries no access_token", errs.ErrProviderAuth)
	}

	lifetime := time.Duration(parsed.ExpiresIn) * time.Second
	if lifetime <= tokenRefreshMargin {
		// No usable lifetime advertised, force a refresh on the next call
		lifetime = tokenRefreshMargin + time.Second
	}

	s.token = parsed.AccessToken
	s.expiresAt = now.Add(lifetime - tokenRefreshMargin)

	s.logger.Debug("Provider access token refreshed", map[string]any{
		"expires_at": s.expiresAt,
	})
	return s.token, nil
}

// Invalidate drops the cached token so the next call re-authenticates
func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
}
