// internal/store/jobstore/backend_postgres.go
package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresBackend keeps the snapshot in a single keyed row. The collection is
// still written whole; the table only gives the blob a durable home on
// deployments that already run Postgres.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS requisition_snapshots (
//	    snapshot_key TEXT PRIMARY KEY,
//	    data         JSONB NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL
//	)
type PostgresBackend struct {
	db  *sql.DB
	key string
}

func NewPostgresBackend(db *sql.DB, key string) *PostgresBackend {
	return &PostgresBackend{
		db:  db,
		key: key,
	}
}

func (p *PostgresBackend) Load(ctx context.Context) ([]byte, bool, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT data FROM requisition_snapshots WHERE snapshot_key = $1`,
		p.key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("snapshot select failed: %w", err)
	}
	return data, true, nil
}

func (p *PostgresBackend) Save(ctx context.Context, data []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO requisition_snapshots (snapshot_key, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (snapshot_key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		p.key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("snapshot upsert failed: %w", err)
	}
	return nil
}
