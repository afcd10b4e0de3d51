// Package config загружает настройки клиента: значения по умолчанию,
// ~/.tasktrack/config.yaml, переменные окружения TASKTRACK_* и флаги.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix - префикс переменных окружения
	EnvPrefix = "TASKTRACK"

	KeyServer     = "server"
	KeySocket     = "socket"
	KeyDB         = "db"
	KeyLogLevel   = "log-level"
	KeyTimeout    = "timeout"
	KeyPassphrase = "passphrase"

	DefaultServerURL = "http://localhost:3000/api"
	DefaultSocketURL = "http://localhost:3000"
	DefaultTimeout   = 30 * time.Second
	DefaultLogLevel  = "warn"

	storageFile = "client.db"
	historyFile = "history.db"
)

// Config - итоговые настройки клиента
type Config struct {
	ServerURL  string        `mapstructure:"server"`
	SocketURL  string        `mapstructure:"socket"`
	DataDir    string        `mapstructure:"db"`
	LogLevel   string        `mapstructure:"log-level"`
	Passphrase string        `mapstructure:"passphrase"` // только из окружения
	Timeout    time.Duration `mapstructure:"timeout"`
}

// DefaultDir возвращает каталог данных по умолчанию (~/.tasktrack)
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasktrack"
	}
	return filepath.Join(home, ".tasktrack")
}

// SetDefaults регистрирует значения по умолчанию
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyServer, DefaultServerURL)
	v.SetDefault(KeySocket, DefaultSocketURL)
	v.SetDefault(KeyDB, DefaultDir())
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyPassphrase, "")
}

// Load читает конфигурацию. Если configFile пуст, ищется config.yaml в DefaultDir,
// его отсутствие не ошибка. Явно указанный файл обязан существовать.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	// Пароль vault не читается из файла
	cfg.Passphrase = os.Getenv(EnvPrefix + "_PASSPHRASE")
	cfg.DataDir = expandHome(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет адреса, таймаут и уровень логирования
func (c *Config) Validate() error {
	if err := checkURL(KeyServer, c.ServerURL, "http", "https"); err != nil {
		return err
	}
	if err := checkURL(KeySocket, c.SocketURL, "http", "https", "ws", "wss"); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("%s must not be empty", KeyDB)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyTimeout, c.Timeout)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level возвращает уровень slog
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// StoragePath - путь к bbolt файлу (токены, сессия, таймер)
func (c *Config) StoragePath() string {
	return filepath.Join(c.DataDir, storageFile)
}

// HistoryPath - путь к sqlite архиву истории таймеров
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, historyFile)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyLogLevel, s, err)
	}
	return level, nil
}

func checkURL(key, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s URL %q: %w", key, raw, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("invalid %s URL %q: scheme must be one of %s", key, raw, strings.Join(schemes, ", "))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
