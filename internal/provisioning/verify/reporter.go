package verify

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Reporter polls a Verifier on an interval.
type Reporter struct {
	Verifier *Verifier
	Interval time.Duration

	// For bounds the reporting period; zero runs until the context is done.
	For time.Duration

	// OnResult receives every completed pass.
	OnResult func(*Result)
}

// Run checks immediately and then on every tick until ctx is done or the
// reporting period is over. Ending by either route is not an error.
func (r *Reporter) Run(ctx context.Context) error {
	if r.Interval <= 0 {
		return errors.New("reporter interval must be positive")
	}
	if r.For > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.For)
		defer cancel()
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		result, err := r.Verifier.Check(ctx)
		if err != nil {
			return nil
		}
		if r.OnResult != nil {
			r.OnResult(result)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Start runs the reporter in the background. The returned stop function
// cancels it and waits for the goroutine to exit.
func (r *Reporter) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Run(ctx)
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}
