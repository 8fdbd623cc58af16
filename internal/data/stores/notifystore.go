package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/or-haklay/hayotush/internal/core/notify"
	"github.com/or-haklay/hayotush/internal/data/db"
)

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a new SQLite-backed notification store.
func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

// Save persists a notification and returns its auto-generated ID.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) (int64, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	var id int64
	err := retryBusy(ctx, func() error {
		var err error
		id, err = s.db.Queries().InsertNotification(ctx, db.InsertNotificationParams{
			RequestID: n.RequestID,
			Level:     string(n.Level),
			Message:   n.Message,
			CreatedAt: n.CreatedAt.UnixNano(),
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}

	return id, nil
}

// List returns notifications matching f, newest first.
func (s *NotifyStore) List(ctx context.Context, f notify.Filter) ([]notify.Notification, error) {
	if f.Level != "" && !f.Level.Valid() {
		return nil, fmt.Errorf("list notifications: unknown level %q", f.Level)
	}
	limit := int64(f.Limit)
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Queries().ListNotifications(ctx, db.ListNotificationsParams{
		Level: string(f.Level),
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	result := make([]notify.Notification, 0, len(rows))
	for _, row := range rows {
		result = append(result, notify.Notification{
			ID:        row.ID,
			RequestID: row.RequestID,
			Level:     notify.Level(row.Level),
			Message:   row.Message,
			CreatedAt: time.Unix(0, row.CreatedAt),
		})
	}
	return result, nil
}

// Clear deletes all notifications.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if err := s.db.Queries().DeleteAllNotifications(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the total number of notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	count, err := s.db.Queries().CountNotifications(ctx)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

// Prune keeps the newest keep notifications and deletes the rest. It returns
// the number of rows removed.
func (s *NotifyStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	n, err := s.db.Queries().PruneNotifications(ctx, int64(keep))
	if err != nil {
		return 0, fmt.Errorf("prune notifications: %w", err)
	}
	return n, nil
}
