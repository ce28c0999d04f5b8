package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"mock_backend/internal/model"
)

// sqliteSchema mirrors the postgres collections table.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    records TEXT NOT NULL DEFAULT '[]',
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// SQLiteBackend stores one row per collection in a local SQLite file.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (and migrates) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context) (model.Snapshot, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT name, records FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snap := model.Snapshot{}
	for rows.Next() {
		var name, raw string
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		records, err := model.DecodeRecords([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to decode collection %s: %w", name, err)
		}
		snap[name] = records
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collections: %w", err)
	}

	if len(snap) == 0 {
		snap.EnsureCollections(model.DefaultCollections...)
		if err := b.Save(ctx, snap); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, snap model.Snapshot) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM collections`); err != nil {
		return fmt.Errorf("failed to clear collections: %w", err)
	}

	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		records := snap[name]
		if records == nil {
			records = []model.Record{}
		}
		raw, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("failed to encode collection %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collections (name, records, updated_at) VALUES (?, ?, datetime('now'))`,
			name, string(raw),
		); err != nil {
			return fmt.Errorf("failed to write collection %s: %w", name, err)
		}
	}

	return tx.Commit()
}

func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
