package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Totarae/shortio-linkmaker/internal/jsonutil"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"go.uber.org/zap"
)

// FileStore потокобезопасное хранилище настроек в памяти
// с журналом изменений в файле (одна JSON-запись на строку).
// Пустой путь к файлу означает режим только в памяти.
type FileStore struct {
	data   map[model.Scope]map[model.SettingKey]string
	mutex  sync.RWMutex
	file   string
	logger *zap.Logger
}

// NewFileStore создаёт хранилище и загружает журнал, если он есть.
func NewFileStore(file string, logger *zap.Logger) *FileStore {
	store := &FileStore{
		data:   make(map[model.Scope]map[model.SettingKey]string),
		file:   file,
		logger: logger,
	}

	if err := store.LoadFromFile(); err != nil {
		logger.Warn("failed to load settings file", zap.String("file", file), zap.Error(err))
	}

	return store
}

// Get возвращает значение ключа.
func (s *FileStore) Get(_ context.Context, scope model.Scope, key model.SettingKey) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.data[scope][key], nil
}

// Set дописывает запись в журнал и только после этого меняет значение в памяти.
func (s *FileStore) Set(_ context.Context, scope model.Scope, key model.SettingKey, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := model.Setting{Scope: scope, Key: key, Value: value}
	if err := s.appendToFile(entry); err != nil {
		return fmt.Errorf("append setting to file: %w", err)
	}

	s.put(entry)
	return nil
}

// Ping для файлового хранилища всегда успешен.
func (s *FileStore) Ping(context.Context) error {
	return nil
}

func (s *FileStore) put(entry model.Setting) {
	if s.data[entry.Scope] == nil {
		s.data[entry.Scope] = make(map[model.SettingKey]string)
	}
	s.data[entry.Scope][entry.Key] = entry.Value
}

// LoadFromFile загружает данные из файла при старте сервера.
// Более поздние записи перекрывают более ранние.
func (s *FileStore) LoadFromFile() error {
	if s.file == "" {
		return nil
	}

	file, err := os.Open(s.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Файл ещё не создан, это не ошибка
		}
		return err
	}
	defer file.Close()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	decoder := jsonutil.API.NewDecoder(file)
	loaded := 0
	for {
		var entry model.Setting
		if err := decoder.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("decode settings entry %d: %w", loaded+1, err)
		}
		s.put(entry)
		loaded++
	}

	s.logger.Info("settings loaded from file", zap.Int("entries", loaded), zap.String("file", s.file))
	return nil
}

// appendToFile добавляет новую запись в файл. Вызывается под мьютексом.
func (s *FileStore) appendToFile(entry model.Setting) error {
	if s.file == "" {
		return nil
	}

	file, err := os.OpenFile(s.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := jsonutil.API.Marshal(entry)
	if err != nil {
		return err
	}

	_, err = file.Write(append(data, '\n'))
	return err
}
