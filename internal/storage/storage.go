// Package storage is the durable key-value snapshot store backing the
// reactive containers. One logical key per store, backed by a local sqlite
// file so a cold start can show the last successful snapshot before any
// network round trip completes.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const _createSnapshots = `CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

type DB struct {
	db *sqlx.DB
}

func Open(path string) (*DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: can't open snapshot db", err)
	}

	if _, err := db.Exec(_createSnapshots); err != nil {
		return nil, fmt.Errorf("%w: can't create snapshots table", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

const (
	_upsertSnapshot = `INSERT INTO snapshots (key, value, updated_at) VALUES ($1, $2, $3)
						ON CONFLICT (key)
						DO UPDATE SET
							value = EXCLUDED.value,
							updated_at = EXCLUDED.updated_at;`
	_querySnapshot = `SELECT value FROM snapshots WHERE key = $1`
)

// Save serializes v and writes it under key, replacing any previous value
// (last write wins).
func (d *DB) Save(ctx context.Context, key string, v any) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: can't marshal snapshot %s", err, key)
	}

	if _, err := d.db.ExecContext(ctx, _upsertSnapshot, key, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: can't save snapshot %s", err, key)
	}

	return nil
}

// Load reads the value stored under key into v. A missing key is an empty
// initial state, not an error: it reports found=false.
func (d *DB) Load(ctx context.Context, key string, v any) (bool, error) {
	var raw []byte
	if err := d.db.GetContext(ctx, &raw, _querySnapshot, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%w: can't load snapshot %s", err, key)
	}

	if err := sonic.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: can't unmarshal snapshot %s", err, key)
	}

	return true, nil
}
