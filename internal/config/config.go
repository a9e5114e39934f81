package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	AuthToken string `mapstructure:"auth_token"`
	LogLevel  string `mapstructure:"log_level"`
}

type ReminderConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	Timezone string         `mapstructure:"timezone"`  // e.g. "Asia/Kolkata" (optional)
	DayKey   string         `mapstructure:"day_key"`   // "local" or "utc"
	PageSize int            `mapstructure:"page_size"` // tasks per page
	Server   ServerConfig   `mapstructure:"server"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

func Default() Config {
	return Config{
		Timezone: "",
		DayKey:   "local",
		PageSize: 20,
		Server: ServerConfig{
			Addr:     ":8787",
			LogLevel: "info",
		},
		Reminder: ReminderConfig{
			Enabled: true,
		},
	}
}

func xdgConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "taskdeck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Load() (Config, error) {
	cfg := Default()

	path, err := xdgConfigPath()
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	// defaults
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("day_key", cfg.DayKey)
	v.SetDefault("page_size", cfg.PageSize)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.auth_token", cfg.Server.AuthToken)
	v.SetDefault("server.log_level", cfg.Server.LogLevel)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)

	_ = v.ReadInConfig() // ok if missing
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = Default().PageSize
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to the system
// local zone.
func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

// DayKeyLocation returns the location used to assign timer entries to
// calendar days. UTC-day vs local-day keying is an explicit setting, not a
// hidden assumption.
func (c Config) DayKeyLocation() *time.Location {
	if strings.EqualFold(strings.TrimSpace(c.DayKey), "utc") {
		return time.UTC
	}
	return c.Location()
}
