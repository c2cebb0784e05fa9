package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"env"`
	LogLevel     string `yaml:"log_level"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`

	DBPath         string `yaml:"db_path"`
	MigrationsPath string `yaml:"migrations_path"`

	MaxCells  int     `yaml:"max_cells"`
	ShelfSize float64 `yaml:"shelf_size"`
	Spacing   float64 `yaml:"spacing"`

	WarehouseURL    string `yaml:"warehouse_url"`
	UpstreamTimeout int    `yaml:"upstream_timeout"`
}

func defaults() *Config {
	return &Config{
		Port:            "3000",
		Environment:     "development",
		LogLevel:        "info",
		ReadTimeout:     10,
		WriteTimeout:    10,
		DBPath:          "data/db/warehouse.db",
		MigrationsPath:  "migrations/001_init_warehouse.sql",
		MaxCells:        10000,
		ShelfSize:       0.8,
		Spacing:         0.2,
		WarehouseURL:    "http://localhost:3003",
		UpstreamTimeout: 10,
	}
}

// Option меняет значения по умолчанию конкретного сервиса.
type Option func(*Config)

// WithPort задаёт порт сервиса по умолчанию. Файл и PORT его перекрывают.
func WithPort(port string) Option {
	return func(c *Config) { c.Port = port }
}

// Load загружает конфигурацию: значения по умолчанию (с учётом opts),
// затем YAML из CONFIG_FILE (если задан), затем переменные окружения.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt(cfg)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENV", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.WriteTimeout)
	c.DBPath = getEnv("WAREHOUSE_DB_PATH", c.DBPath)
	c.MigrationsPath = getEnv("WAREHOUSE_MIGRATIONS", c.MigrationsPath)
	c.MaxCells = getEnvAsInt("MAX_CELLS", c.MaxCells)
	c.ShelfSize = getEnvAsFloat("SHELF_SIZE", c.ShelfSize)
	c.Spacing = getEnvAsFloat("SHELF_SPACING", c.Spacing)
	c.WarehouseURL = getEnv("WAREHOUSE_URL", c.WarehouseURL)
	c.UpstreamTimeout = getEnvAsInt("UPSTREAM_TIMEOUT", c.UpstreamTimeout)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
