package tui

import (
	"time"

	"github.com/or-haklay/hayotush/internal/core/toast"
)

const toastWidth = 50

// ToastController adapts the toast queue to the Bubble Tea update loop.
// Ticks advance the queue clock; dismissals map onto Hide and HideAll.
type ToastController struct {
	queue    *toast.Queue
	lastTick time.Time
	ticking  bool
}

func NewToastController(q *toast.Queue) *ToastController {
	return &ToastController{queue: q}
}

// Push enqueues a toast with the kind's default duration.
func (c *ToastController) Push(kind toast.Kind, message string) string {
	return c.queue.Show(message, kind)
}

// Tick advances the queue by the wall time elapsed since the previous tick.
// The first tick after a pause advances by fallback.
func (c *ToastController) Tick(now time.Time, fallback time.Duration) {
	d := fallback
	if !c.lastTick.IsZero() {
		d = now.Sub(c.lastTick)
	}
	c.lastTick = now
	c.queue.Advance(d)
}

// Dismiss hides the oldest active toast. The next pending toast shows at once.
func (c *ToastController) Dismiss() {
	snap := c.queue.Snapshot()
	if len(snap.Active) > 0 {
		c.queue.Hide(snap.Active[0].ID)
	}
}

// DismissAll clears active and pending toasts.
func (c *ToastController) DismissAll() {
	c.queue.HideAll()
}

// HasToasts returns true if anything is active, pending or settling.
func (c *ToastController) HasToasts() bool {
	return c.queue.Len() > 0 || c.queue.Processing()
}

// Snapshot returns the queue state to render.
func (c *ToastController) Snapshot() toast.Snapshot {
	return c.queue.Snapshot()
}

// Ticking returns whether the tick timer is currently running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state. Stopping resets the tick clock so a
// restart does not count the idle time.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
	if !v {
		c.lastTick = time.Time{}
	}
}
