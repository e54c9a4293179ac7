package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/promobot/core/config"
	coredatabase "github.com/m3rciful/promobot/core/database"
)

// PromoConfig describes the promotional campaign behaviour.
type PromoConfig struct {
	// Channel is the public channel participants must join, e.g. "@my_channel".
	Channel        string `yaml:"channel" envconfig:"PROMO_CHANNEL"`
	CouponPrefix   string `yaml:"coupon_prefix" envconfig:"PROMO_COUPON_PREFIX"`
	CouponDiscount int    `yaml:"coupon_discount" envconfig:"PROMO_COUPON_DISCOUNT"`
	WelcomeImage   string `yaml:"welcome_image" envconfig:"PROMO_WELCOME_IMAGE"`
	CouponImage    string `yaml:"coupon_image" envconfig:"PROMO_COUPON_IMAGE"`
	StoreAddress   string `yaml:"store_address" envconfig:"PROMO_STORE_ADDRESS"`
	StorePhone     string `yaml:"store_phone" envconfig:"PROMO_STORE_PHONE"`
	// BroadcastDelayMS is the pause between broadcast sends.
	BroadcastDelayMS int `yaml:"broadcast_delay_ms" envconfig:"PROMO_BROADCAST_DELAY_MS"`
}

// SheetsConfig locates the spreadsheet that mirrors enrollments.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SHEETS_SPREADSHEET_ID"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"SHEETS_CREDENTIALS_FILE"`
	SheetName       string `yaml:"sheet_name" envconfig:"SHEETS_SHEET_NAME"`
}

// Config aggregates the application configuration.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Promo    PromoConfig         `yaml:"promo"`
	Sheets   SheetsConfig        `yaml:"sheets"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Core
}

// Load reads YAML configuration from path, overlays environment
// variables, applies defaults, and validates required values.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	applyDefaults(cfg)

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Promo.CouponPrefix == "" {
		cfg.Promo.CouponPrefix = "PIT"
	}
	if cfg.Promo.CouponDiscount <= 0 {
		cfg.Promo.CouponDiscount = 15
	}
	if cfg.Promo.BroadcastDelayMS <= 0 {
		cfg.Promo.BroadcastDelayMS = 50
	}
	if cfg.Sheets.SheetName == "" {
		cfg.Sheets.SheetName = "Sheet1"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/promobot.db"
	}
}

// Validate checks every required value and reports all missing keys in
// a single diagnostic so a broken deployment is fixed in one pass.
func Validate(cfg *Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Core.Telegram.Token) == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if cfg.Core.Telegram.AdminID == 0 {
		missing = append(missing, "TELEGRAM_ADMIN_ID")
	}
	if strings.TrimSpace(cfg.Promo.Channel) == "" {
		missing = append(missing, "PROMO_CHANNEL")
	}
	if strings.TrimSpace(cfg.Sheets.SpreadsheetID) == "" {
		missing = append(missing, "SHEETS_SPREADSHEET_ID")
	}
	if strings.TrimSpace(cfg.Sheets.CredentialsFile) == "" {
		missing = append(missing, "SHEETS_CREDENTIALS_FILE")
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required values: %s", strings.Join(missing, ", "))
	}
	return nil
}
