package credential

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	provport "github.com/vleky/trailer-access/internal/domain/port/provider"
)

// IssuedCredential is the issuer's answer: either a real provider credential
// or a locally synthesized mock when the provider is unreachable
type IssuedCredential struct {
	Pin                  string
	ProviderCredentialID string
	Mock                 bool
}

// IssuerConfig tunes fallback behavior and code shape
type IssuerConfig struct {
	// MockPinLength is the digit count of locally generated fallback pins
	MockPinLength int
	// MaxVariance bounds the random perturbation sent to the provider (1..10)
	MaxVariance int
	// MockFallback enables degrading to a local pin on provider failure
	MockFallback bool
}

// Issuer translates issuance requests into provider calls and degrades to a
// mock credential when the provider is down. Authentication failures are
// never masked: a broken client-credentials exchange fails the issuance.
type Issuer struct {
	provider provport.AccessProvider
	config   IssuerConfig
	logger   coreport.Logger
}

// NewIssuer creates a credential issuer over the given provider
func NewIssuer(provider provport.AccessProvider, config IssuerConfig, logger coreport.Logger) *Issuer {
	if config.MockPinLength <= 0 {
		config.MockPinLength = 6
	}
	if config.MaxVariance < 1 || config.MaxVariance > 10 {
		config.MaxVariance = 5
	}
	return &Issuer{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// Issue mints a credential of the given kind for the [start, end) window.
// end is only meaningful for hourly credentials.
func (i *Issuer) Issue(
	ctx context.Context,
	kind entity.CredentialKind,
	deviceID string,
	start, end time.Time,
	accessName string,
) (*IssuedCredential, error) {
	variance, err := randomVariance(i.config.MaxVariance)
	if err != nil {
		return nil, fmt.Errorf("%w: generating variance: %s", errs.ErrInternalServer, err.Error())
	}

	var result *provport.CredentialResult
	switch kind {
	case entity.KindOneTime:
		result, err = i.provider.CreateOneTimePin(ctx, provport.OneTimeRequest{
			DeviceID:   deviceID,
			Start:      start,
			AccessName: accessName,
			Variance:   variance,
		})
	case entity.KindHourly:
		result, err = i.provider.CreateHourlyPin(ctx, provport.HourlyRequest{
			DeviceID:   deviceID,
			Start:      start,
			End:        end,
			AccessName: accessName,
			Variance:   variance,
		})
	case entity.KindDaily:
		result, err = i.provider.CreateDailyPin(ctx, provport.DailyRequest{
			DeviceID:   deviceID,
			Start:      start,
			AccessName: accessName,
			Variance:   variance,
		})
	default:
		return nil, fmt.Errorf("%w: unknown credential kind %q", errs.ErrInvalidRequest, kind)
	}

	if err == nil {
		return &IssuedCredential{
			Pin:                  result.Pin,
			ProviderCredentialID: result.PinID,
		}, nil
	}

	// A failed token exchange means our credentials are wrong, not that the
	// provider is flaky. Degrading would hide a configuration problem.
	if errors.Is(err, errs.ErrProviderAuth) {
		return nil, err
	}

	if !i.config.MockFallback {
		return nil, err
	}

	i.logger.Warn("Provider unavailable, issuing mock credential", map[string]any{
		"device_id": deviceID,
		"kind":      string(kind),
		"error":     err.Error(),
	})

	pin, genErr := GenerateMockPin(i.config.MockPinLength)
	if genErr != nil {
		return nil, fmt.Errorf("%w: generating mock pin: %s", errs.ErrInternalServer, genErr.Error())
	}

	return &IssuedCredential{Pin: pin, Mock: true}, nil
}

// GenerateMockPin produces a fixed-length random numeric code. Leading zeros
// are allowed, matching what real devices accept.
func GenerateMockPin(length int) (string, error) {
	digits := make([]byte, length)
	for idx := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[idx] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// randomVariance draws a variance in [1, max]
func randomVariance(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 1, nil
}
