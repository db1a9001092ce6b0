// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Vendors VendorsConfig `mapstructure:"vendors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// HTTPConfig configures outbound fetch behavior.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// VendorsConfig holds the page origins per vendor.
type VendorsConfig struct {
	PhuQuy PhuQuyConfig `mapstructure:"phuquy"`
	BTMC   BTMCConfig   `mapstructure:"btmc"`
}

// PhuQuyConfig locates the Phú Quý price pages.
type PhuQuyConfig struct {
	GoldURL   string `mapstructure:"gold_url"`
	SilverURL string `mapstructure:"silver_url"`
}

// BTMCConfig locates the BTMC price pages. Referer is sent with every
// fetch; BTMC rejects requests without a same-origin referrer.
type BTMCConfig struct {
	GoldURL   string `mapstructure:"gold_url"`
	SilverURL string `mapstructure:"silver_url"`
	Referer   string `mapstructure:"referer"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PRICES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("http.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("vendors.phuquy.gold_url", "http://giavang.phuquygroup.vn")
	v.SetDefault("vendors.phuquy.silver_url", "http://giabac.phuquygroup.vn")
	v.SetDefault("vendors.btmc.gold_url", "https://btmc.vn/bang-gia-vang")
	v.SetDefault("vendors.btmc.silver_url", "https://btmc.vn/bang-gia-bac")
	v.SetDefault("vendors.btmc.referer", "https://btmc.vn/")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	urls := map[string]string{
		"vendors.phuquy.gold_url":   c.Vendors.PhuQuy.GoldURL,
		"vendors.phuquy.silver_url": c.Vendors.PhuQuy.SilverURL,
		"vendors.btmc.gold_url":     c.Vendors.BTMC.GoldURL,
		"vendors.btmc.silver_url":   c.Vendors.BTMC.SilverURL,
	}
	for key, value := range urls {
		if value == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	return nil
}
