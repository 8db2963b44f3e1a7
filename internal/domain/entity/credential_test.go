package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/vleky/trailer-access/internal/domain/error"
)

func TestNewCredential(t *testing.T) {
	fixedTime := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	t.Run("should create a valid credential", func(t *testing.T) {
		cred, err := NewCredential(
			42, "IGK3-100", "123456", "pin-abc",
			KindOneTime, false,
			fixedTime, fixedTime.Add(5*time.Minute), fixedTime,
		)

		assert.NoError(t, err)
		assert.NotNil(t, cred)
		assert.Equal(t, uint64(42), cred.ReservationID)
		assert.Equal(t, "IGK3-100", cred.DeviceID)
		assert.Equal(t, "123456", cred.Pin)
		assert.True(t, cred.IsActive())
	})

	t.Run("should reject zero reservation id", func(t *testing.T) {
		cred, err := NewCredential(
			0, "IGK3-100", "123456", "",
			KindOneTime, false,
			fixedTime, fixedTime.Add(5*time.Minute), fixedTime,
		)

		assert.Nil(t, cred)
		assert.ErrorIs(t, err, errs.ErrInvalidReservationID)
	})

	t.Run("should reject empty device id", func(t *testing.T) {
		cred, err := NewCredential(
			42, "", "123456", "",
			KindOneTime, false,
			fixedTime, fixedTime.Add(5*time.Minute), fixedTime,
		)

		assert.Nil(t, cred)
		assert.ErrorIs(t, err, errs.ErrInvalidDeviceID)
	})

	t.Run("should reject unknown kind", func(t *testing.T) {
		cred, err := NewCredential(
			42, "IGK3-100", "123456", "",
			CredentialKind("weekly"), false,
			fixedTime, fixedTime.Add(5*time.Minute), fixedTime,
		)

		assert.Nil(t, cred)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("should reject an empty or inverted window", func(t *testing.T) {
		_, err := NewCredential(
			42, "IGK3-100", "123456", "",
			KindOneTime, false,
			fixedTime, fixedTime, fixedTime,
		)
		assert.ErrorIs(t, err, errs.ErrInvalidTimeWindow)

		_, err = NewCredential(
			42, "IGK3-100", "123456", "",
			KindOneTime, false,
			fixedTime, fixedTime.Add(-time.Minute), fixedTime,
		)
		assert.ErrorIs(t, err, errs.ErrInvalidTimeWindow)
	})
}

func TestValidateWindow(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)
	cred := &Credential{StartAt: start, EndAt: end}

	t.Run("start is inclusive", func(t *testing.T) {
		assert.Equal(t, WindowValid, ValidateWindow(cred, start))
	})

	t.Run("end is exclusive", func(t *testing.T) {
		assert.Equal(t, WindowExpired, ValidateWindow(cred, end))
	})

	t.Run("inside the window", func(t *testing.T) {
		assert.Equal(t, WindowValid, ValidateWindow(cred, start.Add(time.Minute)))
	})

	t.Run("before the window", func(t *testing.T) {
		assert.Equal(t, WindowNotYetStarted, ValidateWindow(cred, start.Add(-time.Nanosecond)))
	})

	t.Run("after the window", func(t *testing.T) {
		assert.Equal(t, WindowExpired, ValidateWindow(cred, end.Add(time.Hour)))
	})
}

func TestWindowError(t *testing.T) {
	assert.NoError(t, WindowError(WindowValid))
	assert.ErrorIs(t, WindowError(WindowNotYetStarted), errs.ErrCredentialNotStarted)
	assert.ErrorIs(t, WindowError(WindowExpired), errs.ErrCredentialExpired)
}

func TestKindForWindow(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("a day or less maps to hourly", func(t *testing.T) {
		assert.Equal(t, KindHourly, KindForWindow(start, start.Add(time.Hour)))
		assert.Equal(t, KindHourly, KindForWindow(start, start.Add(24*time.Hour)))
	})

	t.Run("longer than a day maps to daily", func(t *testing.T) {
		assert.Equal(t, KindDaily, KindForWindow(start, start.Add(24*time.Hour+time.Second)))
		assert.Equal(t, KindDaily, KindForWindow(start, start.Add(72*time.Hour)))
	})
}

func TestCredentialInvalidate(t *testing.T) {
	at := time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC)
	cred := &Credential{}

	assert.True(t, cred.IsActive())
	cred.Invalidate(at)
	assert.False(t, cred.IsActive())
	assert.Equal(t, at, *cred.DeletedAt)
}

func TestIsValidCredentialKind(t *testing.T) {
	assert.True(t, IsValidCredentialKind("onetime"))
	assert.True(t, IsValidCredentialKind("hourly"))
	assert.True(t, IsValidCredentialKind("daily"))
	assert.False(t, IsValidCredentialKind("weekly"))
	assert.False(t, IsValidCredentialKind(""))
}
