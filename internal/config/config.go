package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the analytics CLI.
type Config struct {
	AppName      string
	AppEnv       string
	SnapshotPath string
	TimeZone     string
	LogLevel     string
	DateBinSize  int
	DateBinUnit  string
	GradeBinSize float64
}

// Location resolves the configured time zone used for date binning.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GEMA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "GEMA Analytics")
	v.SetDefault("app.env", "development")
	v.SetDefault("time_zone", "UTC")
	v.SetDefault("log.level", "info")
	v.SetDefault("date_bin_size", 1)
	v.SetDefault("date_bin_unit", "days")
	v.SetDefault("grade_bin_size", 1.0)

	cfg := Config{
		AppName:      v.GetString("app.name"),
		AppEnv:       v.GetString("app.env"),
		SnapshotPath: v.GetString("snapshot.path"),
		TimeZone:     v.GetString("time_zone"),
		LogLevel:     strings.ToLower(v.GetString("log.level")),
		DateBinSize:  v.GetInt("date_bin_size"),
		DateBinUnit:  v.GetString("date_bin_unit"),
		GradeBinSize: v.GetFloat64("grade_bin_size"),
	}

	if cfg.SnapshotPath == "" {
		return Config{}, fmt.Errorf("snapshot path must be provided")
	}

	if cfg.DateBinSize <= 0 {
		cfg.DateBinSize = 1
	}

	if cfg.GradeBinSize <= 0 {
		cfg.GradeBinSize = 1
	}

	return cfg, nil
}
