package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/shortio-linkmaker/internal/database"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/jackc/pgx/v5"
)

// SettingsRepository хранит настройки в PostgreSQL.
type SettingsRepository struct {
	DB *database.DB
}

// NewSettingsRepository создаёт новый экземпляр SettingsRepository.
func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

// Get извлекает значение настройки. Отсутствующая строка не ошибка.
func (r *SettingsRepository) Get(ctx context.Context, scope model.Scope, key model.SettingKey) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE scope = $1 AND key = $2`
	err := r.DB.Pool.QueryRow(ctx, query, string(scope), string(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("database query error: %w", err)
	}
	return value, nil
}

// Set сохраняет значение, перезаписывая существующее.
func (r *SettingsRepository) Set(ctx context.Context, scope model.Scope, key model.SettingKey, value string) error {
	query := `INSERT INTO settings (scope, key, value, updated_at)
              VALUES ($1, $2, $3, now())
              ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := r.DB.Pool.Exec(ctx, query, string(scope), string(key), value); err != nil {
		return fmt.Errorf("database upsert error: %w", err)
	}
	return nil
}

// Ping проверяет доступность базы данных.
func (r *SettingsRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}
