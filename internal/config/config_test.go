package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	// Mock .env file
	if err := os.WriteFile(".env", []byte(""), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Remove(".env") })

	return configPath
}

func TestLoadConfig(t *testing.T) {
	configPath := writeConfig(t, `
telegram:
  bot_token: "test_token"
marketplace:
  base_url: "http://localhost:5000"
database:
  path: "test.db"
amenities:
  - "WiFi"
  - "Kitchen"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "test_token" {
		t.Errorf("expected bot_token test_token, got %s", cfg.Telegram.BotToken)
	}
	if cfg.Marketplace.BaseURL != "http://localhost:5000" {
		t.Errorf("unexpected base_url %s", cfg.Marketplace.BaseURL)
	}
	if len(cfg.Amenities) != 2 {
		t.Errorf("expected 2 amenities, got %d", len(cfg.Amenities))
	}

	// Defaults
	if cfg.Marketplace.RequestTimeout != 10*time.Second {
		t.Errorf("expected default request_timeout 10s, got %s", cfg.Marketplace.RequestTimeout)
	}
	if cfg.Bot.PaginationSize != 5 {
		t.Errorf("expected default pagination_size 5, got %d", cfg.Bot.PaginationSize)
	}
	if cfg.Bot.MaxStayNights != 90 {
		t.Errorf("expected default max_stay_nights 90, got %d", cfg.Bot.MaxStayNights)
	}
}

func TestLoadConfigEnvExpansion(t *testing.T) {
	t.Setenv("TEST_MARKETPLACE_URL", "http://api.example.com")
	configPath := writeConfig(t, `
telegram:
  bot_token: "test_token"
marketplace:
  base_url: "${TEST_MARKETPLACE_URL}"
database:
  path: "test.db"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Marketplace.BaseURL != "http://api.example.com" {
		t.Errorf("expected env expansion, got %s", cfg.Marketplace.BaseURL)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Telegram:    TelegramConfig{BotToken: "token"},
				Marketplace: MarketplaceConfig{BaseURL: "http://localhost:5000"},
				Database:    DatabaseConfig{Path: "path"},
			},
			wantErr: false,
		},
		{
			name: "missing bot token",
			cfg: Config{
				Marketplace: MarketplaceConfig{BaseURL: "http://localhost:5000"},
				Database:    DatabaseConfig{Path: "path"},
			},
			wantErr: true,
		},
		{
			name: "placeholder bot token",
			cfg: Config{
				Telegram:    TelegramConfig{BotToken: "YOUR_BOT_TOKEN_HERE"},
				Marketplace: MarketplaceConfig{BaseURL: "http://localhost:5000"},
				Database:    DatabaseConfig{Path: "path"},
			},
			wantErr: true,
		},
		{
			name: "missing marketplace url",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				Database: DatabaseConfig{Path: "path"},
			},
			wantErr: true,
		},
		{
			name: "missing database path",
			cfg: Config{
				Telegram:    TelegramConfig{BotToken: "token"},
				Marketplace: MarketplaceConfig{BaseURL: "http://localhost:5000"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAmenities(t *testing.T) {
	if err := ValidateAmenities([]string{"WiFi", "Kitchen"}); err != nil {
		t.Errorf("valid amenities rejected: %v", err)
	}
	if err := ValidateAmenities(nil); err != nil {
		t.Errorf("empty list should be valid: %v", err)
	}
	if err := ValidateAmenities([]string{"WiFi", ""}); err == nil {
		t.Errorf("expected error for empty amenity name")
	}
	if err := ValidateAmenities([]string{"WiFi", "WiFi"}); err == nil {
		t.Errorf("expected error for duplicate amenity")
	}
}
