package doctor

import (
	"context"
	"fmt"
)

// Database is the part of the store the storage check inspects.
type Database interface {
	PingContext(ctx context.Context) error
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

// Counter reports how many toasts are stored.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// StorageCheck verifies the database and the size of the toast history.
type StorageCheck struct {
	db        Database
	history   Counter
	retention int
}

// NewStorageCheck creates a new storage check. A retention of 0 means the
// history is never pruned.
func NewStorageCheck(db Database, history Counter, retention int) *StorageCheck {
	return &StorageCheck{db: db, history: history, retention: retention}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.db.PingContext(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "database",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: "database", Status: StatusPass})
	result.Items = append(result.Items, c.schemaItem(ctx))

	n, err := c.history.Count(ctx)
	switch {
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "history",
			Status: StatusFail,
			Detail: err.Error(),
		})
	case c.retention > 0 && n > int64(c.retention):
		// The sweep runs on an interval so a small overshoot is normal.
		result.Items = append(result.Items, CheckItem{
			Label:  "history",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%d stored, retention is %d (pruned on the next sweep)", n, c.retention),
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  "history",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d stored", n),
		})
	}

	return result
}

func (c *StorageCheck) schemaItem(ctx context.Context) CheckItem {
	item := CheckItem{Label: "schema"}

	cur, latest, err := c.db.SchemaVersion(ctx)
	switch {
	case err != nil:
		item.Status, item.Detail = StatusFail, err.Error()
	case cur > latest:
		item.Status = StatusFail
		item.Detail = fmt.Sprintf("version %d is newer than this build (%d)", cur, latest)
	case cur < latest:
		item.Status = StatusWarn
		item.Detail = fmt.Sprintf("version %d, %d pending (applied on next start)", cur, latest-cur)
	default:
		item.Status, item.Detail = StatusPass, fmt.Sprintf("version %d", cur)
	}
	return item
}
