package igloo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/vleky/trailer-access/internal/domain/error"
	providerport "github.com/vleky/trailer-access/internal/domain/port/provider"
	coremocks "github.com/vleky/trailer-access/mocks/port/core"
)

// providerFixture runs fake token and API servers for one test
type providerFixture struct {
	tokenServer *httptest.Server
	apiServer   *httptest.Server
	tokenCalls  atomic.Int64
	apiHandler  http.HandlerFunc
	lastAuth    atomic.Value
}

func newProviderFixture(t *testing.T, apiHandler http.HandlerFunc) *providerFixture {
	t.Helper()

	f := &providerFixture{apiHandler: apiHandler}

	f.tokenServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("grant_type") != "client_credentials" ||
			r.PostForm.Get("client_id") != "test-client" ||
			r.PostForm.Get("client_secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(f.tokenServer.Close)

	f.apiServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		f.apiHandler(w, r)
	}))
	t.Cleanup(f.apiServer.Close)

	return f
}

func (f *providerFixture) newClient(t *testing.T) *Client {
	t.Helper()
	tp := coremocks.NewFixedTimeProvider(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	return NewClient(Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		TokenURL:     f.tokenServer.URL,
		APIBase:      f.apiServer.URL,
	}, tp, coremocks.NewRelaxedLogger())
}

func TestClient_CreateOneTimePin(t *testing.T) {
	var gotPath string
	var gotBody algopinRequest

	f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(algopinResponse{Pin: "472913", PinID: "pin-9"})
	})
	client := f.newClient(t)

	// Mid-hour start must be pushed to the next hour boundary
	start := time.Date(2025, 6, 15, 10, 12, 0, 0, time.UTC)
	result, err := client.CreateOneTimePin(context.Background(), providerport.OneTimeRequest{
		DeviceID:   "IGK3-100",
		Start:      start,
		AccessName: "Reservation 42",
		Variance:   3,
	})

	require.NoError(t, err)
	assert.Equal(t, "472913", result.Pin)
	assert.Equal(t, "pin-9", result.PinID)
	assert.Equal(t, "/devices/IGK3-100/algopin/onetime", gotPath)
	assert.Equal(t, "2025-06-15T11:00:00+00:00", gotBody.StartDate)
	assert.Empty(t, gotBody.EndDate)
	assert.Equal(t, "Reservation 42", gotBody.AccessName)
	assert.Equal(t, 3, gotBody.Variance)
	assert.Equal(t, "Bearer token-1", f.lastAuth.Load())
}

func TestClient_CreateHourlyPin(t *testing.T) {
	var gotPath string
	var gotBody algopinRequest

	f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(algopinResponse{Pin: "111111"})
	})
	client := f.newClient(t)

	start := time.Date(2025, 6, 15, 10, 40, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 13, 5, 0, 0, time.UTC)
	_, err := client.CreateHourlyPin(context.Background(), providerport.HourlyRequest{
		DeviceID: "IGK3-100",
		Start:    start,
		End:      end,
		Variance: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "/devices/IGK3-100/algopin/hourly", gotPath)
	// Start floors, end ceils
	assert.Equal(t, "2025-06-15T10:00:00+00:00", gotBody.StartDate)
	assert.Equal(t, "2025-06-15T14:00:00+00:00", gotBody.EndDate)
}

func TestClient_CreateDailyPin(t *testing.T) {
	var gotBody algopinRequest

	f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(algopinResponse{Pin: "222222"})
	})
	client := f.newClient(t)

	start := time.Date(2025, 6, 15, 18, 40, 0, 0, time.UTC)
	_, err := client.CreateDailyPin(context.Background(), providerport.DailyRequest{
		DeviceID: "IGK3-100",
		Start:    start,
		Variance: 99, // clamps to 10
	})

	require.NoError(t, err)
	assert.Equal(t, "2025-06-15T00:00:00+00:00", gotBody.StartDate)
	assert.Equal(t, 10, gotBody.Variance)
}

func TestClient_TokenCaching(t *testing.T) {
	f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(algopinResponse{Pin: "111111"})
	})
	client := f.newClient(t)

	req := providerport.OneTimeRequest{DeviceID: "IGK3-100", Start: time.Now()}
	_, err := client.CreateOneTimePin(context.Background(), req)
	require.NoError(t, err)
	_, err = client.CreateOneTimePin(context.Background(), req)
	require.NoError(t, err)

	// Two API calls, one token exchange
	assert.Equal(t, int64(1), f.tokenCalls.Load())
}

func TestClient_UnauthorizedInvalidatesToken(t *testing.T) {
	f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client := f.newClient(t)

	_, err := client.CreateOneTimePin(context.Background(), providerport.OneTimeRequest{
		DeviceID: "IGK3-100",
		Start:    time.Now(),
	})
	assert.ErrorIs(t, err, errs.ErrProviderAuth)

	_, err = client.CreateOneTimePin(context.Background(), providerport.OneTimeRequest{
		DeviceID: "IGK3-100",
		Start:    time.Now(),
	})
	assert.ErrorIs(t, err, errs.ErrProviderAuth)

	// The cached token was dropped after the first 401
	assert.Equal(t, int64(2), f.tokenCalls.Load())
}

func TestClient_ServerErrors(t *testing.T) {
	f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := f.newClient(t)

	_, err := client.CreateOneTimePin(context.Background(), providerport.OneTimeRequest{
		DeviceID: "IGK3-100",
		Start:    time.Now(),
	})

	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
	var providerErr *errs.ProviderError
	assert.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusInternalServerError, providerErr.StatusCode)
	assert.Equal(t, "IGK3-100", providerErr.DeviceID)
}

func TestClient_EmptyPinRejected(t *testing.T) {
	f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(algopinResponse{})
	})
	client := f.newClient(t)

	_, err := client.CreateOneTimePin(context.Background(), providerport.OneTimeRequest{
		DeviceID: "IGK3-100",
		Start:    time.Now(),
	})
	assert.ErrorIs(t, err, errs.ErrProviderUnavailable)
}

func TestClient_ListDevices(t *testing.T) {
	devices := []providerport.Device{
		{DeviceID: "IGK3-100", DeviceName: "Front lock", Type: "Keybox3", Battery: 87},
		{DeviceID: "IGK3-200", DeviceName: "Rear lock", Type: "Keybox3", Battery: 42},
	}

	t.Run("wrapped payload shape", func(t *testing.T) {
		f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/devices", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{"payload": devices})
		})
		client := f.newClient(t)

		got, err := client.ListDevices(context.Background())
		require.NoError(t, err)
		assert.Equal(t, devices, got)
	})

	t.Run("bare array shape", func(t *testing.T) {
		f := newProviderFixture(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(devices)
		})
		client := f.newClient(t)

		got, err := client.ListDevices(context.Background())
		require.NoError(t, err)
		assert.Equal(t, got, devices)
	})
}

func TestClient_TokenExchangeFailure(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer tokenServer.Close()

	tp := coremocks.NewFixedTimeProvider(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	client := NewClient(Config{
		ClientID:     "wrong",
		ClientSecret: "wrong",
		TokenURL:     tokenServer.URL,
		APIBase:      "http://127.0.0.1:0",
	}, tp, coremocks.NewRelaxedLogger())

	_, err := client.ListDevices(context.Background())
	assert.ErrorIs(t, err, errs.ErrProviderAuth)
}

func TestNormalizeVariance(t *testing.T) {
	assert.Equal(t, 1, normalizeVariance(0))
	assert.Equal(t, 1, normalizeVariance(-3))
	assert.Equal(t, 5, normalizeVariance(5))
	assert.Equal(t, 10, normalizeVariance(10))
	assert.Equal(t, 10, normalizeVariance(11))
}
