package credential

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vleky/trailer-access/internal/domain/port/usecase"
	coremocks "github.com/vleky/trailer-access/mocks/port/core"
)

func TestSerializer_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the issuance result", func(t *testing.T) {
		s := NewSerializer(coremocks.NewRelaxedLogger())
		defer s.Shutdown()

		want := &usecase.CredentialDescriptor{Pin: "111111"}
		got, err := s.Do(ctx, 42, func(ctx context.Context) (*usecase.CredentialDescriptor, error) {
			return want, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("propagates issuance errors", func(t *testing.T) {
		s := NewSerializer(coremocks.NewRelaxedLogger())
		defer s.Shutdown()

		boom := errors.New("issuance failed")
		got, err := s.Do(ctx, 42, func(ctx context.Context) (*usecase.CredentialDescriptor, error) {
			return nil, boom
		})

		assert.Nil(t, got)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("serializes concurrent issuances for one reservation", func(t *testing.T) {
		s := NewSerializer(coremocks.NewRelaxedLogger())
		defer s.Shutdown()

		var inFlight atomic.Int32
		var overlapped atomic.Bool
		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Do(ctx, 42, func(ctx context.Context) (*usecase.CredentialDescriptor, error) {
					if inFlight.Add(1) > 1 {
						overlapped.Store(true)
					}
					time.Sleep(2 * time.Millisecond)
					inFlight.Add(-1)
					return &usecase.CredentialDescriptor{}, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.False(t, overlapped.Load(), "two issuances for the same reservation ran concurrently")
	})

	t.Run("different reservations do not block each other", func(t *testing.T) {
		s := NewSerializer(coremocks.NewRelaxedLogger())
		defer s.Shutdown()

		firstRunning := make(chan struct{})
		release := make(chan struct{})

		go func() {
			_, _ = s.Do(ctx, 1, func(ctx context.Context) (*usecase.CredentialDescriptor, error) {
				close(firstRunning)
				<-release
				return &usecase.CredentialDescriptor{}, nil
			})
		}()

		<-firstRunning

		done := make(chan struct{})
		go func() {
			_, err := s.Do(ctx, 2, func(ctx context.Context) (*usecase.CredentialDescriptor, error) {
				return &usecase.CredentialDescriptor{}, nil
			})
			assert.NoError(t, err)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("issuance for an idle reservation blocked behind another reservation")
		}
		close(release)
	})

	t.Run("canceled context gives up waiting", func(t *testing.T) {
		s := NewSerializer(coremocks.NewRelaxedLogger())
		defer s.Shutdown()

		blocked := make(chan struct{})
		release := make(chan struct{})
		defer close(release)

		go func() {
			_, _ = s.Do(ctx, 42, func(ctx context.Context) (*usecase.CredentialDescriptor, error) {
				close(blocked)
				<-release
				return &usecase.CredentialDescriptor{}, nil
			})
		}()
		<-blocked

		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Do(cancelCtx, 42, func(ctx context.Context) (*usecase.CredentialDescriptor, error) {
			return &usecase.CredentialDescriptor{}, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
