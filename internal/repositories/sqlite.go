package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Totarae/shortio-linkmaker/internal/model"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                                // Local SQLite driver
)

// SQLiteRepository хранит настройки в SQLite или удалённом libSQL.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository открывает базу по dbURL. Драйвер выбирается по схеме:
// libsql:// и wss:// уходят в libSQL, всё остальное в локальный SQLite.
func NewSQLiteRepository(ctx context.Context, dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.HasPrefix(dbURL, "libsql://") || strings.HasPrefix(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}

	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS settings (
		scope TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (scope, key)
	);`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create settings table: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, scope model.Scope, key model.SettingKey) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE scope = ? AND key = ?`, string(scope), string(key),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("select setting: %w", err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, scope model.Scope, key model.SettingKey, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (scope, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(scope, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		string(scope), string(key), value,
	)
	if err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close закрывает соединение.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
