package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/or-haklay/hayotush/internal/core/logging"
	"github.com/or-haklay/hayotush/internal/data/db"
)

// Retry bounds for writes that hit a locked database. The TUI and a CLI
// invocation may share the preferences file.
const (
	busyRetries = 4
	busyBackoff = 25 * time.Millisecond
)

var corruptionMessages = []string{
	"database disk image is malformed",
	"file is not a database",
	"database corruption",
}

func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0, false
	}
	return sqliteErr.Code(), true
}

// IsBusyError reports whether err is SQLITE_BUSY or SQLITE_LOCKED.
func IsBusyError(err error) bool {
	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED)
}

// IsCorruptionError reports whether err means the database file content is
// unusable. A file that cannot be opened at all (SQLITE_CANTOPEN) is not
// corrupt: its content may still be intact.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		switch code {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		case sqlite3.SQLITE_CANTOPEN:
			return false
		}
	}

	msg := err.Error()
	for _, m := range corruptionMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsNotFoundError reports whether err is a missing row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// retryBusy runs fn until it succeeds, fails with a non-busy error, or the
// retry budget runs out. The backoff doubles on each attempt.
func retryBusy(ctx context.Context, fn func() error) error {
	wait := busyBackoff
	var err error
	for attempt := 0; attempt <= busyRetries; attempt++ {
		if err = fn(); err == nil || !IsBusyError(err) {
			return err
		}
		if attempt == busyRetries {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	return err
}

// OpenDatabase opens the database in dataDir. When the file is corrupt it is
// moved aside with RecoverFromCorruption and a fresh one is opened; the backup
// path is returned. Any other open failure is returned as is and leaves the
// file untouched.
func OpenDatabase(dataDir string, opts db.OpenOptions) (*db.DB, string, error) {
	database, err := db.Open(dataDir, opts)
	if err == nil {
		return database, "", nil
	}
	if !IsCorruptionError(err) {
		return nil, "", err
	}

	backup, rerr := RecoverFromCorruption(dataDir)
	if rerr != nil {
		return nil, "", errors.Join(err, fmt.Errorf("recover database: %w", rerr))
	}
	logger := logging.Component("db")
	logger.Warn().Err(err).Str("backup", backup).Msg("database corrupt, starting with a fresh one")

	database, err = db.Open(dataDir, opts)
	if err != nil {
		return nil, backup, err
	}
	return database, backup, nil
}

// RecoverFromCorruption moves the database and its WAL/SHM sidecars aside
// under a timestamped ".corrupt" name so a fresh database can be created.
// It returns the path of the backup, or "" when there was nothing to move.
func RecoverFromCorruption(dataDir string) (string, error) {
	dbPath := filepath.Join(dataDir, db.FileName)
	backup := fmt.Sprintf("%s.corrupt.%s", dbPath, time.Now().Format("20060102-150405"))

	moved := false
	for _, suffix := range []string{"", "-wal", "-shm"} {
		src := dbPath + suffix
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		if err := os.Rename(src, backup+suffix); err != nil {
			// Sidecars are only useful next to their database; drop them if
			// they cannot be moved.
			if suffix == "" {
				return "", fmt.Errorf("back up corrupt database: %w", err)
			}
			if rmErr := os.Remove(src); rmErr != nil {
				return "", fmt.Errorf("remove %s: %w", filepath.Base(src), errors.Join(err, rmErr))
			}
			continue
		}
		moved = true
	}

	if !moved {
		return "", nil
	}
	return backup, nil
}
