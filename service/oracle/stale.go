package oracle

import (
	"context"
	"fmt"
	"time"

	"dsc/core"
)

// StaleCheck PriceGuard rejecting answers not updated within timeout
func StaleCheck(timeout time.Duration, now func() time.Time) core.PriceGuard {
	if now == nil {
		now = time.Now
	}

	return func(ctx context.Context, assetID string, round *core.RoundData) error {
		if since := now().Sub(round.UpdatedAt); since > timeout {
			return fmt.Errorf("%w: %s updated %s ago", core.ErrStalePrice, assetID, since.Truncate(time.Second))
		}

		return nil
	}
}
