package igloo

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	providerport "github.com/vleky/trailer-access/internal/domain/port/provider"
)

const (
	// DefaultTokenURL is the provider's OAuth2 token endpoint
	DefaultTokenURL = "https://auth.igloohome.co/oauth2/token"
	// DefaultAPIBase is the provider's REST API base
	DefaultAPIBase = "https://api.igloodeveloper.co/igloohome"

	// maxResponseBytes bounds how much of a provider response is read
	maxResponseBytes = 1 << 20

	defaultRequestTimeout = 15 * time.Second
)

// Config holds the provider client configuration
type Config struct {
	ClientID       string
	ClientSecret   string
	TokenURL       string
	APIBase        string
	RequestTimeout time.Duration
	// InsecureSkipTLSVerify disables certificate checks. Development only.
	InsecureSkipTLSVerify bool
}

// Client talks to the igloohome developer API. It implements
// provider.AccessProvider.
type Client struct {
	config       Config
	httpClient   *http.Client
	tokens       *tokenSource
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewClient creates a provider client. Missing endpoint URLs fall back to
// the public igloohome endpoints.
func NewClient(config Config, timeProvider coreport.TimeProvider, logger coreport.Logger) *Client {
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	if config.APIBase == "" {
		config.APIBase = DefaultAPIBase
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaultRequestTimeout
	}

	transport := http.DefaultTransport
	if config.InsecureSkipTLSVerify {
		logger.Warn("Provider TLS verification disabled", map[string]any{
			"api_base": config.APIBase,
		})
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
		}
	}

	httpClient := &http.Client{
		Timeout:   config.RequestTimeout,
		Transport: transport,
	}

	return &Client{
		config:       config,
		httpClient:   httpClient,
		tokens:       newTokenSource(httpClient, config.TokenURL, config.ClientID, config.ClientSecret, timeProvider, logger),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

type algopinRequest struct {
	Variance   int    `json:"variance"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate,omitempty"`
	AccessName string `json:"accessName"`
}

type algopinResponse struct {
	Pin   string `json:"pin"`
	PinID string `json:"pinId"`
}

// ListDevices returns the devices registered to the account
func (c *Client) ListDevices(ctx context.Context) ([]providerport.Device, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, c.config.APIBase+"/devices", nil)
	if err != nil {
		return nil, errs.NewProviderError("list_devices", "", status, string(body), err)
	}

	// The API wraps the list in a payload object but has also returned a
	// bare array, so try both shapes
	var wrapped struct {
		Payload []providerport.Device `json:"payload"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Payload != nil {
		return wrapped.Payload, nil
	}

	var devices []providerport.Device
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, errs.NewProviderError("list_devices", "", status, string(body),
			fmt.Errorf("%w: decoding device list: %s", errs.ErrProviderUnavailable, err.Error()))
	}
	return devices, nil
}

// CreateOneTimePin mints a single-use PIN. The start instant is pushed to
// the first hour boundary at or after it.
func (c *Client) CreateOneTimePin(ctx context.Context, req providerport.OneTimeRequest) (*providerport.CredentialResult, error) {
	body := algopinRequest{
		Variance:   normalizeVariance(req.Variance),
		StartDate:  FormatProviderDate(NextHourAt(req.Start)),
		AccessName: req.AccessName,
	}
	return c.createPin(ctx, "onetime", req.DeviceID, body)
}

// CreateHourlyPin mints an hourly-window PIN with the start floored and the
// end ceiled to hour boundaries
func (c *Client) CreateHourlyPin(ctx context.Context, req providerport.HourlyRequest) (*providerport.CredentialResult, error) {
	body := algopinRequest{
		Variance:   normalizeVariance(req.Variance),
		StartDate:  FormatProviderDate(FloorToHour(req.Start)),
		EndDate:    FormatProviderDate(CeilToHour(req.End)),
		AccessName: req.AccessName,
	}
	return c.createPin(ctx, "hourly", req.DeviceID, body)
}

// CreateDailyPin mints a daily PIN starting at midnight of the start's day
func (c *Client) CreateDailyPin(ctx context.Context, req providerport.DailyRequest) (*providerport.CredentialResult, error) {
	body := algopinRequest{
		Variance:   normalizeVariance(req.Variance),
		StartDate:  FormatProviderDate(StartOfDay(req.Start)),
		AccessName: req.AccessName,
	}
	return c.createPin(ctx, "daily", req.DeviceID, body)
}

func (c *Client) createPin(ctx context.Context, kind, deviceID string, body algopinRequest) (*providerport.CredentialResult, error) {
	if deviceID == "" {
		return nil, errs.ErrInvalidDeviceID
	}

	endpoint := fmt.Sprintf("%s/devices/%s/algopin/%s", c.config.APIBase, url.PathEscape(deviceID), kind)

	c.logger.Debug("Requesting provider pin", map[string]any{
		"kind":        kind,
		"device_id":   deviceID,
		"start_date":  body.StartDate,
		"end_date":    body.EndDate,
		"access_name": body.AccessName,
	})

	respBody, status, err := c.doRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, errs.NewProviderError("create_"+kind+"_pin", deviceID, status, string(respBody), err)
	}

	var parsed algopinResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, errs.NewProviderError("create_"+kind+"_pin", deviceID, status, string(respBody),
			fmt.Errorf("%w: decoding pin response: %s", errs.ErrProviderUnavailable, err.Error()))
	}
	if parsed.Pin == "" {
		return nil, errs.NewProviderError("create_"+kind+"_pin", deviceID, status, string(respBody),
			fmt.Errorf("%w: response carries no pin", errs.ErrProviderUnavailable))
	}

	c.logger.Info("Provider pin created", map[string]any{
		"kind":      kind,
		"device_id": deviceID,
		"pin_id":    parsed.PinID,
	})

	return &providerport.CredentialResult{
		Pin:   parsed.Pin,
		PinID: parsed.PinID,
	}, nil
}

// doRequest performs an authenticated call and returns the body and status.
// Auth failures propagate as ErrProviderAuth, everything else as
// ErrProviderUnavailable.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any) ([]byte, int, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: encoding request: %s", errs.ErrProviderUnavailable, err.Error())
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: building request: %s", errs.ErrProviderUnavailable, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", errs.ErrProviderUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading response: %s", errs.ErrProviderUnavailable, readErr.Error())
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// A token the provider no longer honors is an auth failure, and the
		// cached copy is useless
		c.tokens.Invalidate()
		return body, resp.StatusCode, fmt.Errorf("%w: endpoint returned %d", errs.ErrProviderAuth, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, resp.StatusCode, fmt.Errorf("%w: endpoint returned %d", errs.ErrProviderUnavailable, resp.StatusCode)
	}

	return body, resp.StatusCode, nil
}

// normalizeVariance clamps the variance into the provider's accepted 1..10
// range
func normalizeVariance(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
