// Package storage содержит интерфейс хранилища настроек и его файловую реализацию.
package storage

import (
	"context"

	"github.com/Totarae/shortio-linkmaker/internal/model"
)

//go:generate mockgen -source=storage.go -destination=../mocks/mock_storage.go -package=mocks

// Storage определяет интерфейс для работы с хранилищем настроек.
type Storage interface {
	// Get возвращает значение ключа в указанной области. Отсутствующий ключ даёт "".
	Get(ctx context.Context, scope model.Scope, key model.SettingKey) (string, error)
	// Set сохраняет значение ключа в указанной области.
	Set(ctx context.Context, scope model.Scope, key model.SettingKey, value string) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}
