package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"mock_backend/internal/model"
)

// PgxPool is the subset of *pgxpool.Pool the postgres backend needs.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresBackend stores one row per collection in the collections table.
type PostgresBackend struct {
	db PgxPool
}

// NewPostgresBackend creates a backend on an already migrated pool.
func NewPostgresBackend(db PgxPool) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// Load reads every collection row. An empty table is seeded with the
// default collections.
func (b *PostgresBackend) Load(ctx context.Context) (model.Snapshot, error) {
	rows, err := b.db.Query(ctx, `SELECT name, records FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	snap := model.Snapshot{}
	for rows.Next() {
		var (
			name string
			raw  []byte
		)
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		records, err := model.DecodeRecords(raw)
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

// Save rewrites the collections table inside one transaction.
func (b *PostgresBackend) Save(ctx context.Context, snap model.Snapshot) error {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM collections`); err != nil {
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
		if _, err := tx.Exec(ctx,
			`INSERT INTO collections (name, records, updated_at) VALUES ($1, $2, NOW())`,
			name, raw,
		); err != nil {
			return fmt.Errorf("failed to write collection %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit collections: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

func (b *PostgresBackend) Close() error {
	b.db.Close()
	return nil
}
