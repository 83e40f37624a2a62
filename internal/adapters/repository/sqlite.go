package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/metrics"

	_ "modernc.org/sqlite" // SQLite driver
)

const createTablesStmt = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
	row_id      INTEGER PRIMARY KEY CHECK (row_id = 1),
	snapshot_id TEXT    NOT NULL,
	fingerprint TEXT    NOT NULL,
	loaded_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT    NOT NULL,
	name         TEXT    NOT NULL,
	position     TEXT    NOT NULL,
	team         TEXT    NOT NULL,
	league       TEXT    NOT NULL,
	age          INTEGER NOT NULL,
	price        REAL    NOT NULL,
	minutes      INTEGER NOT NULL,
	total_points REAL    NOT NULL,
	goals        INTEGER NOT NULL,
	assists      INTEGER NOT NULL,
	form         REAL    NOT NULL,
	influence    REAL    NOT NULL,
	creativity   REAL    NOT NULL,
	threat       REAL    NOT NULL,
	ict_index    REAL    NOT NULL
);
`

// Cache persists the latest snapshot to sqlite so a restart can serve data
// before the first provider fetch completes. Exactly one snapshot is kept;
// Save replaces the previous one.
type Cache struct {
	db          *sql.DB
	path        string
	busyTimeout time.Duration
}

// CachedSnapshot is what Load returns: the persisted records plus the
// metadata needed to seed the refresh dedupe window.
type CachedSnapshot struct {
	SnapshotID  string
	Fingerprint uint64
	LoadedAt    time.Time
	Players     []model.Player
}

// OpenCache opens (creating if needed) the snapshot cache at path.
// Use ":memory:" for tests.
func OpenCache(ctx context.Context, path string, opts ...CacheOption) (*Cache, error) {
	c := &Cache{path: path, busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(c)
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL",
		path, c.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot cache %s: %w", path, err)
	}
	// modernc sqlite serializes writes itself; a single connection avoids
	// SQLITE_BUSY churn under concurrent Save/Load.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping snapshot cache %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, createTablesStmt); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot cache schema: %w", err)
	}
	c.db = db
	return c, nil
}

// Save replaces the cached snapshot with snap in one transaction.
func (c *Cache) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordCacheOperation("save", "error")
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		metrics.RecordCacheOperation("save", "error")
		return fmt.Errorf("clear cached players: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (row_id, snapshot_id, fingerprint, loaded_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(row_id) DO UPDATE SET snapshot_id = excluded.snapshot_id,
		 fingerprint = excluded.fingerprint, loaded_at = excluded.loaded_at`,
		snap.ID(), strconv.FormatUint(snap.Fingerprint(), 10), snap.LoadedAt().Unix()); err != nil {
		metrics.RecordCacheOperation("save", "error")
		return fmt.Errorf("save snapshot meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO players
		(id, name, position, team, league, age, price, minutes, total_points,
		 goals, assists, form, influence, creativity, threat, ict_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		metrics.RecordCacheOperation("save", "error")
		return fmt.Errorf("prepare player insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range snap.Players() {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, string(p.Position), p.Team, p.League, p.Age, p.Price,
			p.Minutes, p.TotalPoints, p.Goals, p.Assists, p.Form, p.Influence,
			p.Creativity, p.Threat, p.ICTIndex); err != nil {
			metrics.RecordCacheOperation("save", "error")
			return fmt.Errorf("save player %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordCacheOperation("save", "error")
		return fmt.Errorf("commit snapshot save: %w", err)
	}
	metrics.RecordCacheOperation("save", "ok")
	return nil
}

// Load reads the cached snapshot. Returns ErrCacheMiss when nothing has
// been saved yet.
func (c *Cache) Load(ctx context.Context) (*CachedSnapshot, error) {
	var (
		out         CachedSnapshot
		fingerprint string
		loadedAt    int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT snapshot_id, fingerprint, loaded_at FROM snapshot_meta WHERE row_id = 1`).
		Scan(&out.SnapshotID, &fingerprint, &loadedAt)
	if err == sql.ErrNoRows {
		metrics.RecordCacheOperation("load", "miss")
		return nil, ErrCacheMiss
	}
	if err != nil {
		metrics.RecordCacheOperation("load", "error")
		return nil, fmt.Errorf("load snapshot meta: %w", err)
	}
	fp, err := strconv.ParseUint(fingerprint, 10, 64)
	if err != nil {
		metrics.RecordCacheOperation("load", "error")
		return nil, fmt.Errorf("parse cached fingerprint %q: %w", fingerprint, err)
	}
	out.Fingerprint = fp
	out.LoadedAt = time.Unix(loadedAt, 0).UTC()

	rows, err := c.db.QueryContext(ctx, `SELECT
		id, name, position, team, league, age, price, minutes, total_points,
		goals, assists, form, influence, creativity, threat, ict_index
		FROM players ORDER BY seq`)
	if err != nil {
		metrics.RecordCacheOperation("load", "error")
		return nil, fmt.Errorf("load cached players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			p        model.Player
			position string
		)
		if err := rows.Scan(&p.ID, &p.Name, &position, &p.Team, &p.League,
			&p.Age, &p.Price, &p.Minutes, &p.TotalPoints, &p.Goals, &p.Assists,
			&p.Form, &p.Influence, &p.Creativity, &p.Threat, &p.ICTIndex); err != nil {
			metrics.RecordCacheOperation("load", "error")
			return nil, fmt.Errorf("scan cached player: %w", err)
		}
		p.Position = model.Position(position)
		out.Players = append(out.Players, p)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordCacheOperation("load", "error")
		return nil, fmt.Errorf("iterate cached players: %w", err)
	}
	if len(out.Players) == 0 {
		metrics.RecordCacheOperation("load", "miss")
		return nil, ErrCacheMiss
	}
	metrics.RecordCacheOperation("load", "ok")
	return &out, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
