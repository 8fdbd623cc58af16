// Package notify defines the persisted record of user-facing notifications.
package notify

import (
	"context"
	"time"
)

// Level represents the kind of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification represents a single notification that was shown to the user.
type Notification struct {
	ID        int64     `json:"id"`
	RequestID string    `json:"request_id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelWarning, LevelError:
		return true
	}
	return false
}

// Filter narrows a history listing. Zero values match everything.
type Filter struct {
	Level Level
	// Limit caps the number of rows returned; 0 means no cap.
	Limit int
}

// Recorder appends to the history.
type Recorder interface {
	Save(ctx context.Context, n Notification) (int64, error)
}

// Store is the durable notification history.
type Store interface {
	Recorder
	List(ctx context.Context, f Filter) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
}
