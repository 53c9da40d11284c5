package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/letsssgooo/promoBot/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)
`

const upsert = `
INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`

// Store реализует storage.Store поверх PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore подключается к базе по dsn и создаёт таблицу kv, если её нет.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: connect postgres: %w", storage.ErrUnavailable, err)
	}

	if _, err = pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ensure schema: %w", storage.ErrUnavailable, err)
	}

	return &Store{pool: pool}, nil
}

// Get возвращает значение по ключу.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", storage.ErrUnavailable, key, err)
	}

	return value, true, nil
}

// Set сохраняет значение по ключу.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.pool.Exec(ctx, upsert, key, value); err != nil {
		return fmt.Errorf("%w: set %s: %w", storage.ErrUnavailable, key, err)
	}

	return nil
}

// SetMulti сохраняет все пары в одной транзакции.
func (s *Store) SetMulti(ctx context.Context, entries map[string]string) error {
	err := s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		for key, value := range entries {
			if _, err := tx.Exec(ctx, upsert, key, value); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: set multi: %w", storage.ErrUnavailable, err)
	}

	return nil
}

// Close закрывает пул соединений.
func (s *Store) Close() error {
	s.pool.Close()

	return nil
}
