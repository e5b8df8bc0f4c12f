package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App         AppConfig         `yaml:"app"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Backup      BackupConfig      `yaml:"backup"`
	Monitoring  MonitoringConfig  `yaml:"monitoring"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exports     ExportConfig      `yaml:"exports"`
	Google      GoogleConfig      `yaml:"google"`
	Bot         BotConfig         `yaml:"bot"`
	Amenities   []string          `yaml:"amenities"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

// MarketplaceConfig describes the external marketplace HTTP API.
type MarketplaceConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RateLimit      RateLimit     `yaml:"rate_limit"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `yaml:"prometheus_enabled"`
	PrometheusPort    int    `yaml:"prometheus_port"`
	LogLevel          string `yaml:"log_level"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	GoogleCredentialsFile     string `yaml:"credentials_file"`
	ReservationsSpreadSheetID string `yaml:"reservations_spreadsheet_id"`
	ListingsSpreadSheetID     string `yaml:"listings_spreadsheet_id"`
}

type BotConfig struct {
	PaginationSize    int `yaml:"pagination_size"`
	MaxStayNights     int `yaml:"max_stay_nights"`
	RateLimitMessages int `yaml:"rate_limit_messages"`
	RateLimitWindow   int `yaml:"rate_limit_window"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	err := godotenv.Load(".env")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.Marketplace.BaseURL == "" {
		return errors.New("marketplace base_url is required")
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	return ValidateAmenities(c.Amenities)
}

// ValidateAmenities rejects empty or duplicated amenity labels.
func ValidateAmenities(amenities []string) error {
	seen := make(map[string]bool)
	for _, a := range amenities {
		if a == "" {
			return errors.New("amenity with empty name")
		}
		if seen[a] {
			return fmt.Errorf("duplicate amenity found: %s", a)
		}
		seen[a] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Marketplace.RequestTimeout == 0 {
		c.Marketplace.RequestTimeout = 10 * time.Second
	}
	if c.Marketplace.RateLimit.RPS == 0 {
		c.Marketplace.RateLimit.RPS = 10
	}
	if c.Marketplace.RateLimit.Burst == 0 {
		c.Marketplace.RateLimit.Burst = 5
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	// Bot defaults
	if c.Bot.PaginationSize == 0 {
		c.Bot.PaginationSize = 5
	}
	if c.Bot.MaxStayNights == 0 {
		c.Bot.MaxStayNights = 90
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = 20
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = 60
	}
}
