package export

import (
	"context"
	"time"
)

// Settler waits until the layout is stable enough to rasterize.
type Settler interface {
	Settle(ctx context.Context) error
}

// DefaultSettle is the fixed delay between font readiness and rasterization.
const DefaultSettle = 600 * time.Millisecond

// DelaySettler waits a fixed time. Layout here is computed synchronously, so
// the delay only matters to callers that mutate the canvas from elsewhere.
type DelaySettler struct {
	Delay time.Duration
}

func (s DelaySettler) Settle(ctx context.Context) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NopSettler returns immediately.
type NopSettler struct{}

func (NopSettler) Settle(ctx context.Context) error { return ctx.Err() }
