package main

import (
	"context"
	"fmt"

	"github.com/Totarae/shortio-linkmaker/internal/config"
	"github.com/Totarae/shortio-linkmaker/internal/database"
	"github.com/Totarae/shortio-linkmaker/internal/repositories"
	"github.com/Totarae/shortio-linkmaker/internal/storage"
	"go.uber.org/zap"
)

// openStore выбирает хранилище настроек по режиму конфигурации.
// Возвращаемая функция освобождает соединения.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	switch cfg.Mode {
	case config.ModeDatabase:
		if err := database.Migrate(cfg.DatabaseDSN, cfg.PgMigrationsPath, logger); err != nil {
			return nil, nil, err
		}
		db, err := database.NewDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return repositories.NewSettingsRepository(db), db.Close, nil

	case config.ModeSQLite:
		repo, err := repositories.NewSQLiteRepository(ctx, cfg.SQLiteURL)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				logger.Warn("close sqlite", zap.Error(err))
			}
		}, nil

	case config.ModeFile:
		return storage.NewFileStore(cfg.FileStoragePath, logger), func() {}, nil

	default:
		return storage.NewFileStore("", logger), func() {}, nil
	}
}
