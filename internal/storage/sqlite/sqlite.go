package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/letsssgooo/promoBot/internal/storage"
	_ "modernc.org/sqlite" // driver: sqlite
)

// DefaultDSN используется, если путь к базе не задан.
const DefaultDSN = "file:promo.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
`

const upsert = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, strftime('%s','now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

// Store реализует storage.Store поверх SQLite.
type Store struct {
	db *sql.DB
}

// NewStore открывает базу по dsn и создаёт таблицу kv, если её нет.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", storage.ErrUnavailable, err)
	}

	// один писатель, иначе SQLITE_BUSY при параллельных запросах
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite: %w", storage.ErrUnavailable, err)
	}

	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ensure schema: %w", storage.ErrUnavailable, err)
	}

	return &Store{db: db}, nil
}

// Get возвращает значение по ключу.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %w", storage.ErrUnavailable, key, err)
	}

	return value, true, nil
}

// Set сохраняет значение по ключу.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsert, key, value); err != nil {
		return fmt.Errorf("%w: set %s: %w", storage.ErrUnavailable, key, err)
	}

	return nil
}

// SetMulti сохраняет все пары в одной транзакции.
func (s *Store) SetMulti(ctx context.Context, entries map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", storage.ErrUnavailable, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	for key, value := range entries {
		if _, err = tx.ExecContext(ctx, upsert, key, value); err != nil {
			return fmt.Errorf("%w: set %s: %w", storage.ErrUnavailable, key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", storage.ErrUnavailable, err)
	}

	return nil
}

// Close закрывает базу.
func (s *Store) Close() error {
	return s.db.Close()
}
