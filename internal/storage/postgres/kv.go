package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KVRepository stores key-value pairs in the kv_entries table.
type KVRepository struct {
	db *pgxpool.Pool
}

// NewKVRepository creates a KVRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with migrations applied.
func NewKVRepository(db *pgxpool.Pool) *KVRepository {
	return &KVRepository{db: db}
}

// Get implements storage.KV.
//
// Postcondition: Returns ("", false, nil) when key is absent.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(ctx,
		`SELECT value FROM kv_entries WHERE key = $1`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("querying key %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements storage.KV with an upsert.
//
// Postcondition: Exactly one row exists for key holding value.
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO kv_entries (key, value)
		 VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upserting key %q: %w", key, err)
	}
	return nil
}
