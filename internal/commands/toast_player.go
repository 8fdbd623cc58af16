package commands

import (
	"context"
	"sync"
	"time"

	"github.com/or-haklay/hayotush/internal/core/toast"
)

// playToasts drives q with a wall clock until every queued toast has been
// shown and dismissed, calling onShow once per toast as it becomes active.
func playToasts(ctx context.Context, q *toast.Queue, interval time.Duration, onShow func(toast.Request)) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu   sync.Mutex
		seen = map[string]bool{}
	)

	observe := func(snap toast.Snapshot) {
		mu.Lock()
		defer mu.Unlock()

		for _, req := range snap.Active {
			if !seen[req.ID] {
				seen[req.ID] = true
				onShow(req)
			}
		}
		if snap.Empty() && !snap.Processing {
			cancel()
		}
	}

	unsubscribe := q.Subscribe(observe)
	defer unsubscribe()
	observe(q.Snapshot())

	q.Run(ctx, interval)
}
