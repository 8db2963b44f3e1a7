package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vleky/trailer-access/internal/domain/entity"
	errs "github.com/vleky/trailer-access/internal/domain/error"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/database"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/logger"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/repository"
)

// setupIntegrationDB connects to the database named by TEST_DB_* and resets
// its schema. Tests in this file are skipped when TEST_DB_HOST is unset.
func setupIntegrationDB(t *testing.T) *database.TestDBManager {
	t.Helper()

	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set, skipping database integration tests")
	}

	manager := database.NewTestDBManager(t, logger.NewNoopLogger())
	require.NoError(t, manager.Connect(t))
	t.Cleanup(func() { manager.Close(t) })

	manager.SetupTestDB(t)
	return manager
}

func TestLockRepositoryIntegration(t *testing.T) {
	manager := setupIntegrationDB(t)
	repo := repository.NewLockRepository(manager.Manager.DB(), manager.TimeProvider, manager.Logger)
	ctx := context.Background()

	trailerID := manager.CreateTestTrailer(t, "flatbed one")
	otherTrailerID := manager.CreateTestTrailer(t, "flatbed two")

	t.Run("save and read back", func(t *testing.T) {
		saved, err := repo.Save(ctx, &entity.Lock{
			TrailerID: trailerID,
			Provider:  "igloohome",
			DeviceID:  "IGK3-100",
			Name:      "gate lock",
			Active:    true,
		})

		require.NoError(t, err)
		assert.NotZero(t, saved.ID)

		found, err := repo.GetByTrailerID(ctx, trailerID)
		require.NoError(t, err)
		assert.Equal(t, "IGK3-100", found.DeviceID)
		assert.True(t, found.Active)
	})

	t.Run("upsert replaces the device for the same trailer", func(t *testing.T) {
		first, err := repo.GetByTrailerID(ctx, trailerID)
		require.NoError(t, err)

		saved, err := repo.Save(ctx, &entity.Lock{
			TrailerID: trailerID,
			Provider:  "igloohome",
			DeviceID:  "IGK3-200",
			Active:    true,
		})

		require.NoError(t, err)
		assert.Equal(t, first.ID, saved.ID)
		assert.Equal(t, "IGK3-200", saved.DeviceID)
	})

	t.Run("device uniqueness is enforced across trailers", func(t *testing.T) {
		_, err := repo.Save(ctx, &entity.Lock{
			TrailerID: otherTrailerID,
			Provider:  "igloohome",
			DeviceID:  "IGK3-200",
			Active:    true,
		})

		assert.ErrorIs(t, err, errs.ErrLockAlreadyAssigned)
	})

	t.Run("inactive locks are invisible to the active lookup", func(t *testing.T) {
		_, err := repo.Save(ctx, &entity.Lock{
			TrailerID: otherTrailerID,
			Provider:  "igloohome",
			DeviceID:  "IGK3-300",
			Active:    false,
		})
		require.NoError(t, err)

		_, err = repo.GetActiveByTrailerID(ctx, otherTrailerID)
		assert.ErrorIs(t, err, errs.ErrNoActiveLock)

		found, err := repo.GetByTrailerID(ctx, otherTrailerID)
		require.NoError(t, err)
		assert.False(t, found.Active)
	})

	t.Run("delete reports rows removed", func(t *testing.T) {
		deleted, err := repo.DeleteByTrailerID(ctx, otherTrailerID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		deleted, err = repo.DeleteByTrailerID(ctx, otherTrailerID)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	})
}

func TestCredentialRepositoryIntegration(t *testing.T) {
	manager := setupIntegrationDB(t)
	repo := repository.NewCredentialRepository(manager.Manager.DB(), manager.TimeProvider, manager.Logger)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	newCredential := func(pin string) *entity.Credential {
		return &entity.Credential{
			ReservationID: 42,
			DeviceID:      "IGK3-100",
			Pin:           pin,
			Kind:          entity.KindOneTime,
			StartAt:       now,
			EndAt:         now.Add(5 * time.Minute),
			CreatedAt:     now,
		}
	}

	t.Run("insert and read the latest active", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, newCredential("111111")))

		active, err := repo.LatestActive(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "111111", active.Pin)
		assert.True(t, active.IsActive())
	})

	t.Run("second active row is rejected by the partial index", func(t *testing.T) {
		err := repo.Insert(ctx, newCredential("222222"))
		assert.ErrorIs(t, err, errs.ErrConstraintViolation)
	})

	t.Run("invalidation reopens the slot", func(t *testing.T) {
		invalidated, err := repo.SoftInvalidateAll(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(1), invalidated)

		require.NoError(t, repo.Insert(ctx, newCredential("333333")))

		active, err := repo.LatestActive(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "333333", active.Pin)

		count, err := repo.CountActive(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown reservation yields not found", func(t *testing.T) {
		_, err := repo.LatestActive(ctx, 999)
		assert.ErrorIs(t, err, errs.ErrCredentialNotFound)
	})
}

func TestReservationLeaseRepositoryIntegration(t *testing.T) {
	manager := setupIntegrationDB(t)
	repo := repository.NewReservationLeaseRepository(manager.Manager.DB(), manager.TimeProvider, manager.Logger)
	ctx := context.Background()

	t.Run("second acquisition is busy until release", func(t *testing.T) {
		require.NoError(t, repo.AcquireLease(ctx, 42, 30*time.Second))

		err := repo.AcquireLease(ctx, 42, 30*time.Second)
		assert.ErrorIs(t, err, errs.ErrReservationBusy)

		require.NoError(t, repo.ReleaseLease(ctx, 42))
		require.NoError(t, repo.AcquireLease(ctx, 42, 30*time.Second))
		require.NoError(t, repo.ReleaseLease(ctx, 42))
	})

	t.Run("expired leases are stolen", func(t *testing.T) {
		require.NoError(t, repo.AcquireLease(ctx, 43, -1*time.Second))
		require.NoError(t, repo.AcquireLease(ctx, 43, 30*time.Second))
		require.NoError(t, repo.ReleaseLease(ctx, 43))
	})

	t.Run("releasing a missing lease is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.ReleaseLease(ctx, 999))
	})

	t.Run("cleanup removes only expired leases", func(t *testing.T) {
		require.NoError(t, repo.AcquireLease(ctx, 50, -1*time.Second))
		require.NoError(t, repo.AcquireLease(ctx, 51, 30*time.Second))

		require.NoError(t, repo.CleanupExpiredLeases(ctx))

		err := repo.AcquireLease(ctx, 51, 30*time.Second)
		assert.ErrorIs(t, err, errs.ErrReservationBusy)

		require.NoError(t, repo.AcquireLease(ctx, 50, 30*time.Second))
	})
}
