package credential

import (
	"context"
)

// rotationAttempt mints one credential; salt perturbs the access label so
// consecutive provider calls are distinguishable on the provider side.
type rotationAttempt func(ctx context.Context, salt string) (*IssuedCredential, error)

// rotationResult reports what the bounded rotation loop produced
type rotationResult struct {
	Credential *IssuedCredential
	Attempts   int
	// Exhausted is true when every attempt returned the previous pin from a
	// healthy provider. A mock credential never exhausts the loop: the
	// issuer is degraded and a mismatch cannot be guaranteed, so the value
	// is accepted as-is.
	Exhausted bool
}

// rotateUntilChanged retries issue until the returned pin differs from
// previousPin, up to maxAttempts. With no previous pin a single attempt is
// definitive. The loop is pure apart from the injected issue call.
func rotateUntilChanged(
	ctx context.Context,
	previousPin string,
	maxAttempts int,
	salter func(attempt int) string,
	issue rotationAttempt,
) (*rotationResult, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last *IssuedCredential
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		issued, err := issue(ctx, salter(attempt))
		if err != nil {
			return nil, err
		}
		last = issued

		if previousPin == "" || issued.Pin != previousPin || issued.Mock {
			return &rotationResult{Credential: issued, Attempts: attempt}, nil
		}
	}

	return &rotationResult{
		Credential: last,
		Attempts:   maxAttempts,
		Exhausted:  true,
	}, nil
}
