package sweep

import (
	"context"
	"time"

	"github.com/or-haklay/hayotush/internal/core/logging"
)

// Pruner trims stored toast history down to the newest keep entries.
type Pruner interface {
	Prune(ctx context.Context, keep int) (int64, error)
}

// Start prunes once immediately and then on every interval tick.
// It blocks until the context is cancelled.
func Start(ctx context.Context, p Pruner, keep int, interval time.Duration) {
	log := logging.Component("sweep")

	sweep := func() {
		n, err := p.Prune(ctx, keep)
		if err != nil {
			log.Debug().Err(err).Msg("history sweep failed")
			return
		}
		if n > 0 {
			log.Debug().Int64("removed", n).Msg("history swept")
		}
	}

	sweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
