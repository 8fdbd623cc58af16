package toast

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/or-haklay/hayotush/internal/core/logging"
	"github.com/or-haklay/hayotush/internal/core/notify"
)

// Options configures a Queue. Zero values fall back to package defaults.
type Options struct {
	MaxActive int
	// SettleGap is the pause after a toast is dismissed before the next one
	// activates. Use NoSettleGap to disable it.
	SettleGap time.Duration
	Durations Durations

	// History records every shown toast. Optional.
	History notify.Recorder

	Logger *zerolog.Logger
	NewID  func() string
	Now    func() time.Time
}

type subscription struct {
	id int
	fn Subscriber
}

type entry struct {
	req       Request
	remaining time.Duration
}

// Queue owns the display lifecycle of toasts: pending -> active -> dismissed.
//
// All methods are safe for concurrent use and never return errors, so the
// queue can be called from any error handler without adding failure modes.
type Queue struct {
	maxActive int
	settleGap time.Duration
	durations Durations
	history   notify.Recorder
	log       zerolog.Logger
	newID     func() string
	now       func() time.Time

	mu              sync.Mutex
	active          []entry
	pending         []Request
	settling        bool
	settleRemaining time.Duration
	subscribers     []subscription
	nextSubID       int
}

// New creates a queue. One queue is expected per application session.
func New(opts Options) *Queue {
	q := &Queue{
		maxActive: opts.MaxActive,
		settleGap: opts.SettleGap,
		durations: opts.Durations,
		history:   opts.History,
		newID:     opts.NewID,
		now:       opts.Now,
	}

	if q.maxActive < 1 {
		q.maxActive = DefaultMaxActive
	}
	switch {
	case q.settleGap == 0:
		q.settleGap = DefaultSettleGap
	case q.settleGap < 0:
		q.settleGap = 0
	}
	if opts.Logger != nil {
		q.log = *opts.Logger
	} else {
		q.log = logging.Component("toast")
	}
	if q.newID == nil {
		q.newID = newRequestID
	}
	if q.now == nil {
		q.now = time.Now
	}

	return q
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Subscribe registers fn to be called after every state transition. The
// returned func removes it; calling that more than once is harmless.
func (q *Queue) Subscribe(fn Subscriber) (unsubscribe func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextSubID++
	id := q.nextSubID
	q.subscribers = append(q.subscribers, subscription{id: id, fn: fn})

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.subscribers = slices.DeleteFunc(q.subscribers, func(s subscription) bool { return s.id == id })
	}
}

// Show enqueues a toast and returns its id. The toast becomes active at once
// only when a slot is free, nothing is pending and no settle gap is running.
// A missing or non-positive duration falls back to the kind default.
// Unrecognized kinds display as info.
func (q *Queue) Show(message string, kind Kind, duration ...time.Duration) string {
	kind = kind.normalize()

	d := q.durations.For(kind)
	if len(duration) > 0 && duration[0] > 0 {
		d = duration[0]
	}

	req := Request{
		ID:        q.newID(),
		Message:   message,
		Kind:      kind,
		Duration:  d,
		CreatedAt: q.now(),
	}

	q.mu.Lock()
	if !q.settling && len(q.pending) == 0 && len(q.active) < q.maxActive {
		q.activateLocked(req)
	} else {
		q.pending = append(q.pending, req)
	}
	snap, subs := q.snapshotLocked(), q.subscribersLocked()
	q.mu.Unlock()

	q.record(req)
	q.log.Debug().
		Str("id", req.ID).
		Str("kind", string(req.Kind)).
		Dur("duration", req.Duration).
		Int("pending", len(snap.Pending)).
		Msg("toast enqueued")

	dispatch(subs, snap)
	return req.ID
}

// ShowSuccess enqueues a success toast.
func (q *Queue) ShowSuccess(message string, duration ...time.Duration) string {
	return q.Show(message, KindSuccess, duration...)
}

// ShowError enqueues an error toast.
func (q *Queue) ShowError(message string, duration ...time.Duration) string {
	return q.Show(message, KindError, duration...)
}

// ShowWarning enqueues a warning toast.
func (q *Queue) ShowWarning(message string, duration ...time.Duration) string {
	return q.Show(message, KindWarning, duration...)
}

// ShowInfo enqueues an info toast.
func (q *Queue) ShowInfo(message string, duration ...time.Duration) string {
	return q.Show(message, KindInfo, duration...)
}

// Hide removes the toast with the given id wherever it is. Hiding an active
// toast activates the next pending one immediately, skipping the settle gap.
// Unknown ids are ignored.
func (q *Queue) Hide(id string) {
	q.mu.Lock()

	changed := false
	if i := slices.IndexFunc(q.active, func(e entry) bool { return e.req.ID == id }); i >= 0 {
		q.active = slices.Delete(q.active, i, i+1)
		q.processNextLocked()
		changed = true
	} else if i := slices.IndexFunc(q.pending, func(r Request) bool { return r.ID == id }); i >= 0 {
		q.pending = slices.Delete(q.pending, i, i+1)
		changed = true
	}

	if !changed {
		q.mu.Unlock()
		return
	}

	snap, subs := q.snapshotLocked(), q.subscribersLocked()
	q.mu.Unlock()

	q.log.Debug().Str("id", id).Msg("toast hidden")
	dispatch(subs, snap)
}

// HideAll clears active and pending toasts and resets processing so the next
// Show starts fresh. Calling it repeatedly is harmless.
func (q *Queue) HideAll() {
	q.mu.Lock()
	wasEmpty := len(q.active) == 0 && len(q.pending) == 0 && !q.settling

	q.active = nil
	q.pending = nil
	q.settling = false
	q.settleRemaining = 0

	snap, subs := q.snapshotLocked(), q.subscribersLocked()
	q.mu.Unlock()

	if wasEmpty {
		return
	}
	dispatch(subs, snap)
}

// Advance moves the queue clock forward by d. Expired toasts are dismissed,
// the settle gap runs, and pending toasts are activated in FIFO order. A d
// spanning several transitions is consumed across all of them in sequence.
func (q *Queue) Advance(d time.Duration) {
	if d <= 0 {
		return
	}

	q.mu.Lock()
	changed := false
	for d > 0 {
		next, ok := q.nextEventLocked()
		if !ok {
			break
		}
		if next > d {
			q.consumeLocked(d)
			break
		}

		q.consumeLocked(next)
		d -= next

		if q.expireLocked() {
			q.startSettleLocked()
			changed = true
		} else if q.settling && q.settleRemaining <= 0 {
			q.processNextLocked()
			changed = true
		}
	}

	if !changed {
		q.mu.Unlock()
		return
	}

	snap, subs := q.snapshotLocked(), q.subscribersLocked()
	q.mu.Unlock()

	dispatch(subs, snap)
}

// Run drives the queue from a wall clock ticker until ctx is cancelled.
func (q *Queue) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			q.Advance(t.Sub(last))
			last = t
		}
	}
}

// Snapshot returns a copy of the current state.
func (q *Queue) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Len returns the number of active and pending toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.active) + len(q.pending)
}

// Processing reports whether a toast is active or the settle gap is running.
func (q *Queue) Processing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processingLocked()
}

func (q *Queue) processingLocked() bool {
	return len(q.active) > 0 || q.settling
}

func (q *Queue) activateLocked(req Request) {
	q.active = append(q.active, entry{req: req, remaining: req.Duration})
}

// processNextLocked is the single transition that pulls from pending. It runs
// after the settle gap elapses and after an active toast is hidden.
func (q *Queue) processNextLocked() {
	q.settling = false
	q.settleRemaining = 0

	for len(q.active) < q.maxActive && len(q.pending) > 0 {
		head := q.pending[0]
		q.pending = q.pending[1:]
		q.activateLocked(head)
	}
	if len(q.pending) == 0 {
		q.pending = nil
	}
}

func (q *Queue) startSettleLocked() {
	if q.settleGap <= 0 {
		q.processNextLocked()
		return
	}
	q.settling = true
	q.settleRemaining = q.settleGap
}

// nextEventLocked returns the time until the next timer fires.
func (q *Queue) nextEventLocked() (time.Duration, bool) {
	var (
		next  time.Duration
		found bool
	)
	if q.settling {
		next, found = q.settleRemaining, true
	}
	for _, e := range q.active {
		if !found || e.remaining < next {
			next, found = e.remaining, true
		}
	}
	return max(next, 0), found
}

func (q *Queue) consumeLocked(d time.Duration) {
	for i := range q.active {
		q.active[i].remaining -= d
	}
	if q.settling {
		q.settleRemaining -= d
	}
}

// expireLocked removes every active toast whose timer has fired.
func (q *Queue) expireLocked() bool {
	before := len(q.active)
	q.active = slices.DeleteFunc(q.active, func(e entry) bool {
		if e.remaining > 0 {
			return false
		}
		q.log.Debug().Str("id", e.req.ID).Msg("toast expired")
		return true
	})
	return len(q.active) != before
}

func (q *Queue) snapshotLocked() Snapshot {
	snap := Snapshot{Processing: q.processingLocked()}
	if len(q.active) > 0 {
		snap.Active = make([]Request, len(q.active))
		for i, e := range q.active {
			snap.Active[i] = e.req
		}
	}
	if len(q.pending) > 0 {
		snap.Pending = slices.Clone(q.pending)
	}
	return snap
}

func (q *Queue) subscribersLocked() []Subscriber {
	subs := make([]Subscriber, len(q.subscribers))
	for i, s := range q.subscribers {
		subs[i] = s.fn
	}
	return subs
}

func (q *Queue) record(req Request) {
	if q.history == nil {
		return
	}

	ctx := logging.WithToast(context.Background(), req.ID)
	_, err := q.history.Save(ctx, notify.Notification{
		RequestID: req.ID,
		Level:     req.Kind.Level(),
		Message:   req.Message,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		q.log.Error().Ctx(ctx).Err(err).Msg("failed to persist toast")
	}
}

func dispatch(subs []Subscriber, snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
