package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const opTimeout = 5 * time.Second

// PostgresBackend stores serialized carts in a single cart_sessions table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database, verifies the connection, and ensures
// the cart_sessions table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cart_sessions (
			key        text PRIMARY KEY,
			items      jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresBackend{pool: pool}, nil
}

func (b *PostgresBackend) Read(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	var data []byte
	err := b.pool.QueryRow(ctx, `SELECT items FROM cart_sessions WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *PostgresBackend) Write(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	_, err := b.pool.Exec(ctx, `
		INSERT INTO cart_sessions(key, items) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET items = EXCLUDED.items, updated_at = now()`,
		key, data)
	return err
}

func (b *PostgresBackend) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	_, err := b.pool.Exec(ctx, `DELETE FROM cart_sessions WHERE key = $1`, key)
	return err
}

// Close releases the underlying connection pool.
func (b *PostgresBackend) Close() {
	b.pool.Close()
}
