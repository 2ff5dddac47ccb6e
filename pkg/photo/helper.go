package photo

import "context"

// checkContext returns the context's error if it has been canceled.
// Per-pixel math runs to completion once started; these checks only gate
// the boundaries between pipeline stages.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func clampU8(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
