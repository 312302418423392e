package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config настройки клиента. Значения берутся из переменных окружения
// (.env поддерживается), для всего есть рабочие значения по умолчанию.
type Config struct {
	Env           string
	ServerAddress string
	EnableTLS     bool
	LogLevel      string

	DataPath  string // файл снимка корзины (SQLite)
	TokenPath string // файл токена сессии

	SyncDebounceMS  int // 0 — окно затишья отключено
	SyncMaxRetries  int
	SyncBaseDelayMS int
	SyncMaxDelayMS  int
}

// New загружает конфигурацию клиента
func New() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configDir := filepath.Join(home, ".freshcart")

	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("SERVER_ADDRESS", "localhost:8080")
	v.SetDefault("ENABLE_TLS", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATA_PATH", filepath.Join(configDir, "cart.db"))
	v.SetDefault("TOKEN_PATH", filepath.Join(configDir, "token"))
	v.SetDefault("SYNC_DEBOUNCE_MS", 0)
	v.SetDefault("SYNC_MAX_RETRIES", 5)
	v.SetDefault("SYNC_BASE_DELAY_MS", 1000)
	v.SetDefault("SYNC_MAX_DELAY_MS", 30000)

	cfg := &Config{
		Env:             v.GetString("APP_ENV"),
		ServerAddress:   v.GetString("SERVER_ADDRESS"),
		EnableTLS:       v.GetBool("ENABLE_TLS"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		DataPath:        v.GetString("DATA_PATH"),
		TokenPath:       v.GetString("TOKEN_PATH"),
		SyncDebounceMS:  v.GetInt("SYNC_DEBOUNCE_MS"),
		SyncMaxRetries:  v.GetInt("SYNC_MAX_RETRIES"),
		SyncBaseDelayMS: v.GetInt("SYNC_BASE_DELAY_MS"),
		SyncMaxDelayMS:  v.GetInt("SYNC_MAX_DELAY_MS"),
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0o700); err != nil {
		return nil, fmt.Errorf("ошибка создания каталога данных: %w", err)
	}

	return cfg, nil
}

// BaseURL адрес сервера со схемой
func (c *Config) BaseURL() string {
	scheme := "http"
	if c.EnableTLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.ServerAddress)
}
