package credential

import (
	"context"
	"sync"

	errs "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
)

// issuanceFunc performs one issuance once the reservation's turn comes up
type issuanceFunc func(ctx context.Context) (*usecase.CredentialDescriptor, error)

// issuanceRequest is a queued issuance waiting for its worker
type issuanceRequest struct {
	ctx        context.Context
	run        issuanceFunc
	resultChan chan *issuanceResult
}

// issuanceResult carries the outcome back to the enqueueing goroutine
type issuanceResult struct {
	descriptor *usecase.CredentialDescriptor
	err        error
}

// Serializer orders credential issuance per reservation. Two concurrent
// refreshes for the same reservation would otherwise both read the same
// previous pin, both invalidate and both insert, leaving two active rows.
// Each reservation gets one worker goroutine draining a queue, so the
// invalidate-then-insert pair runs one at a time per reservation.
type Serializer struct {
	logger coreport.Logger

	reservationQueues sync.Map // map[uint64]chan *issuanceRequest
	workerWaitGroup   sync.WaitGroup
}

// NewSerializer creates a per-reservation issuance serializer
func NewSerializer(logger coreport.Logger) *Serializer {
	return &Serializer{logger: logger}
}

// Do runs fn in the reservation's queue and waits for its result
func (s *Serializer) Do(
	ctx context.Context,
	reservationID uint64,
	fn issuanceFunc,
) (*usecase.CredentialDescriptor, error) {
	resultChan := make(chan *issuanceResult, 1)

	var queue chan *issuanceRequest
	queueIface, loaded := s.reservationQueues.LoadOrStore(reservationID, make(chan *issuanceRequest, 16))
	if queueCh, ok := queueIface.(chan *issuanceRequest); ok {
		queue = queueCh
	} else {
		s.logger.Error("Failed to type assert issuance queue channel", nil)
		return nil, errs.ErrInternalServer
	}

	if !loaded {
		s.logger.Debug("Starting issuance worker for reservation", map[string]any{
			"reservation_id": reservationID,
		})
		s.workerWaitGroup.Add(1)
		go s.drainQueue(reservationID, queue)
	}

	req := &issuanceRequest{
		ctx:        ctx,
		run:        fn,
		resultChan: resultChan,
	}

	select {
	case queue <- req:
	case <-ctx.Done():
		s.logger.Warn("Context canceled while enqueueing issuance", map[string]any{
			"reservation_id": reservationID,
			"error":          ctx.Err().Error(),
		})
		return nil, ctx.Err()
	}

	select {
	case result := <-resultChan:
		return result.descriptor, result.err
	case <-ctx.Done():
		s.logger.Warn("Context canceled while waiting for issuance result", map[string]any{
			"reservation_id": reservationID,
			"error":          ctx.Err().Error(),
		})
		return nil, ctx.Err()
	}
}

// drainQueue processes a reservation's issuances sequentially
func (s *Serializer) drainQueue(reservationID uint64, queue chan *issuanceRequest) {
	defer s.workerWaitGroup.Done()

	for req := range queue {
		descriptor, err := req.run(req.ctx)
		req.resultChan <- &issuanceResult{descriptor: descriptor, err: err}
		close(req.resultChan)
	}

	s.logger.Debug("Issuance worker stopped", map[string]any{
		"reservation_id": reservationID,
	})
}

// Shutdown closes all queues and waits for in-flight issuances to finish
func (s *Serializer) Shutdown() {
	s.logger.Info("Shutting down issuance serializer", nil)

	s.reservationQueues.Range(func(_, queueIface interface{}) bool {
		if queue, ok := queueIface.(chan *issuanceRequest); ok {
			close(queue)
		}
		return true
	})

	s.workerWaitGroup.Wait()
	s.logger.Info("Issuance serializer shut down", nil)
}
