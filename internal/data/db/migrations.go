package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/or-haklay/hayotush/internal/core/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var migrationFile = regexp.MustCompile(`^(\d{4})_([a-z0-9_]+)\.(up|down)\.sql$`)

// migration is one schema step. Version numbers start at 1 and have no gaps.
type migration struct {
	version int
	name    string
	up      string
	down    string
}

// schema is the ordered list of migrations.
type schema []migration

// latest returns the highest version, or 0 for an empty schema.
func (s schema) latest() int {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].version
}

// loadSchema reads NNNN_name.up.sql / NNNN_name.down.sql pairs from the
// "migrations" directory of fsys.
func loadSchema(fsys fs.FS) (schema, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := map[int]*migration{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		m := migrationFile.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("migration %q: want NNNN_name.up.sql or NNNN_name.down.sql", e.Name())
		}
		version, _ := strconv.Atoi(m[1])
		if version == 0 {
			return nil, fmt.Errorf("migration %q: versions start at 0001", e.Name())
		}

		body, err := fs.ReadFile(fsys, "migrations/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}

		step, ok := byVersion[version]
		if !ok {
			step = &migration{version: version, name: m[2]}
			byVersion[version] = step
		}
		if step.name != m[2] {
			return nil, fmt.Errorf("migration %04d: names %q and %q disagree", version, step.name, m[2])
		}

		half := &step.up
		if m[3] == "down" {
			half = &step.down
		}
		if *half != "" {
			return nil, fmt.Errorf("migration %04d: duplicate %s file", version, m[3])
		}
		*half = string(body)
	}

	s := make(schema, 0, len(byVersion))
	for _, step := range byVersion {
		switch {
		case step.up == "":
			return nil, fmt.Errorf("migration %04d: missing up file", step.version)
		case step.down == "":
			return nil, fmt.Errorf("migration %04d: missing down file", step.version)
		}
		s = append(s, *step)
	}
	slices.SortFunc(s, func(a, b migration) int { return a.version - b.version })

	for i, step := range s {
		if step.version != i+1 {
			return nil, fmt.Errorf("migration %04d: expected version %04d", step.version, i+1)
		}
	}
	return s, nil
}

// migrator applies a schema to one connection.
type migrator struct {
	conn   *sql.DB
	schema schema
}

func newMigrator(conn *sql.DB, fsys fs.FS) (*migrator, error) {
	s, err := loadSchema(fsys)
	if err != nil {
		return nil, err
	}
	return &migrator{conn: conn, schema: s}, nil
}

func (m *migrator) init(ctx context.Context) error {
	_, err := m.conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT    NOT NULL,
		applied_at INTEGER NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// current returns the highest applied version, or 0.
func (m *migrator) current(ctx context.Context) (int, error) {
	var v sql.NullInt64
	if err := m.conn.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// migrateTo moves the schema up or down until target is the current version.
func (m *migrator) migrateTo(ctx context.Context, target int) error {
	if target < 0 || target > m.schema.latest() {
		return fmt.Errorf("target version %d outside 0..%d", target, m.schema.latest())
	}
	if err := m.init(ctx); err != nil {
		return err
	}

	cur, err := m.current(ctx)
	if err != nil {
		return err
	}
	if cur > m.schema.latest() {
		return fmt.Errorf("database schema %d is newer than this build (%d)", cur, m.schema.latest())
	}

	log := logging.Component("db")
	for cur < target {
		step := m.schema[cur]
		log.Info().Int("version", step.version).Str("name", step.name).Msg("applying migration")
		err := m.exec(ctx, step.up, "INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			step.version, step.name, time.Now().UnixNano())
		if err != nil {
			return fmt.Errorf("migration %04d_%s: %w", step.version, step.name, err)
		}
		cur++
	}
	for cur > target {
		step := m.schema[cur-1]
		log.Info().Int("version", step.version).Str("name", step.name).Msg("reverting migration")
		err := m.exec(ctx, step.down, "DELETE FROM schema_migrations WHERE version = ?", step.version)
		if err != nil {
			return fmt.Errorf("revert %04d_%s: %w", step.version, step.name, err)
		}
		cur--
	}
	return nil
}

// exec runs a migration body and its bookkeeping statement in one transaction.
func (m *migrator) exec(ctx context.Context, body, record string, args ...any) error {
	tx, err := m.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, body); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if _, err := tx.ExecContext(ctx, record, args...); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

// SchemaVersion returns the applied and the latest known schema versions.
func (db *DB) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	m, err := newMigrator(db.conn, migrationsFS)
	if err != nil {
		return 0, 0, err
	}
	if err := m.init(ctx); err != nil {
		return 0, 0, err
	}
	current, err = m.current(ctx)
	return current, m.schema.latest(), err
}

// Rollback reverts the newest steps migrations.
func (db *DB) Rollback(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	m, err := newMigrator(db.conn, migrationsFS)
	if err != nil {
		return err
	}
	cur, err := m.current(ctx)
	if err != nil {
		return err
	}
	if steps > cur {
		return fmt.Errorf("cannot roll back %d migrations, only %d applied", steps, cur)
	}
	return m.migrateTo(ctx, cur-steps)
}
