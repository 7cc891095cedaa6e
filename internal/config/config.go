package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Режимы хранения настроек
const (
	ModeDatabase = "database"
	ModeSQLite   = "sqlite"
	ModeFile     = "file"
	ModeMemory   = "in-memory"
)

// MaxQRSize верхняя граница размера QR, принимаемая Short.io (не включительно).
const MaxQRSize = 100

// Config хранит конфигурацию сервера
type Config struct {
	ServerAddress    string `json:"server_address"`
	GRPCAddress      string `json:"grpc_address"`
	SiteURL          string `json:"site_url"`
	FileStoragePath  string `json:"file_storage_path"`
	DatabaseDSN      string `json:"database_dsn"`
	SQLiteURL        string `json:"sqlite_url"`
	PgMigrationsPath string `json:"pg_migrations_path"`
	EnableHTTPS      bool   `json:"enable_https"`
	TLSCertPath      string `json:"tls_cert_path"`
	TLSKeyPath       string `json:"tls_key_path"`
	LogLevel         string `json:"log_level"`
	Multisite        bool   `json:"multisite"`

	AuthSecret           string `json:"-"`
	SiteOperatorToken    string `json:"-"`
	NetworkOperatorToken string `json:"-"`

	ShortIOAPIURL  string        `json:"shortio_api_url"`
	ShortIOTimeout time.Duration `json:"shortio_timeout"`
	QRSize         int           `json:"qr_size"`

	// Seed начальные значения для сетевого уровня настроек.
	Seed map[model.SettingKey]string `json:"-"`

	Mode string `json:"-"`
}

var defaults = map[string]any{
	"server_address":         "localhost:8080",
	"grpc_address":           "localhost:3200",
	"site_url":               "http://localhost:8080/",
	"file_storage_path":      "settings.json",
	"database_dsn":           "",
	"sqlite_url":             "",
	"pg_migrations_path":     "internal/migrations",
	"enable_https":           false,
	"tls_cert_path":          "cert.pem",
	"tls_key_path":           "key.pem",
	"log_level":              "info",
	"multisite":              false,
	"auth_secret":            "",
	"site_operator_token":    "",
	"network_operator_token": "",
	"shortio_api_url":        "https://api.short.io",
	"shortio_timeout":        20 * time.Second,
	"qr_size":                8,
}

// переменные окружения для начального заполнения настроек
var seedEnv = map[model.SettingKey]string{
	model.KeyAPIKey:       "shortio_api_key",
	model.KeyDomain:       "shortio_domain",
	model.KeyDomainID:     "shortio_domain_id",
	model.KeyBaseURL:      "shortio_base_url",
	model.KeyCloakDefault: "shortio_cloak_default",
}

// Load собирает конфигурацию. Приоритет: флаг > переменная окружения >
// JSON-файл конфигурации > значение по умолчанию.
func Load(args []string) (*Config, error) {
	// Читаем .env, если есть (не переопределяет переменные окружения!)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	flags := pflag.NewFlagSet("linkmaker", pflag.ContinueOnError)
	flags.StringP("server-address", "a", "", "HTTP server address")
	flags.StringP("grpc-address", "g", "", "gRPC server address, empty disables gRPC")
	flags.StringP("site-url", "b", "", "site root, default destination base URL")
	flags.StringP("file-storage-path", "f", "", "settings file (JSON lines)")
	flags.StringP("database-dsn", "d", "", "PostgreSQL DSN")
	flags.StringP("sqlite-url", "q", "", "SQLite path or libSQL URL")
	flags.StringP("log-level", "l", "", "log level")
	flags.BoolP("enable-https", "s", false, "enable HTTPS")
	flags.BoolP("multisite", "m", false, "network (multisite) deployment")
	flags.String("tls-cert-path", "", "path to TLS certificate")
	flags.String("tls-key-path", "", "path to TLS key")
	configPath := flags.StringP("config", "c", "", "path to JSON config file")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	// Незаданные флаги не перекрывают окружение
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name != "config" {
			_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		}
	})

	if *configPath == "" {
		*configPath = v.GetString("config")
	}
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", *configPath, err)
		}
	}

	cfg := &Config{
		ServerAddress:        v.GetString("server_address"),
		GRPCAddress:          v.GetString("grpc_address"),
		SiteURL:              v.GetString("site_url"),
		FileStoragePath:      v.GetString("file_storage_path"),
		DatabaseDSN:          v.GetString("database_dsn"),
		SQLiteURL:            v.GetString("sqlite_url"),
		PgMigrationsPath:     v.GetString("pg_migrations_path"),
		EnableHTTPS:          v.GetBool("enable_https"),
		TLSCertPath:          v.GetString("tls_cert_path"),
		TLSKeyPath:           v.GetString("tls_key_path"),
		LogLevel:             v.GetString("log_level"),
		Multisite:            v.GetBool("multisite"),
		AuthSecret:           v.GetString("auth_secret"),
		SiteOperatorToken:    v.GetString("site_operator_token"),
		NetworkOperatorToken: v.GetString("network_operator_token"),
		ShortIOAPIURL:        strings.TrimSuffix(v.GetString("shortio_api_url"), "/"),
		ShortIOTimeout:       v.GetDuration("shortio_timeout"),
		QRSize:               v.GetInt("qr_size"),
		Seed:                 make(map[model.SettingKey]string),
	}

	for key, env := range seedEnv {
		if val := v.GetString(env); val != "" {
			cfg.Seed[key] = val
		}
	}

	// Определяем режим работы
	switch {
	case cfg.DatabaseDSN != "":
		cfg.Mode = ModeDatabase
	case cfg.SQLiteURL != "":
		cfg.Mode = ModeSQLite
	case cfg.FileStoragePath != "":
		cfg.Mode = ModeFile
	default:
		cfg.Mode = ModeMemory
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return errors.New("адрес сервера не может быть пустым")
	}
	if u, err := url.Parse(cfg.SiteURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("некорректный адрес сайта %q", cfg.SiteURL)
	}
	if cfg.AuthSecret == "" {
		return errors.New("AUTH_SECRET не может быть пустым")
	}
	if cfg.SiteOperatorToken == "" && cfg.NetworkOperatorToken == "" {
		return errors.New("нужен хотя бы один токен оператора")
	}
	if cfg.QRSize <= 0 || cfg.QRSize >= MaxQRSize {
		return fmt.Errorf("qr_size должен быть в диапазоне 1..%d, получено %d", MaxQRSize-1, cfg.QRSize)
	}
	if cfg.ShortIOTimeout <= 0 {
		return errors.New("shortio_timeout должен быть положительным")
	}
	return nil
}
