package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Drawing DrawingConfig `mapstructure:"drawing"`
	History HistoryConfig `mapstructure:"history"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory sqlite"`
	// Path is the SQLite database file; ignored by the memory driver.
	Path       string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	QuotaBytes int64  `mapstructure:"quota_bytes" validate:"gte=0"`
}

type DrawingConfig struct {
	// ReversedProbability seeds the settings default for new users.
	ReversedProbability float64 `mapstructure:"reversed_probability" validate:"gte=0,lte=1"`
}

type HistoryConfig struct {
	MaxAgeDays int `mapstructure:"max_age_days" validate:"gte=0"`
}

// SlogLevel converts the configured level name.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads an optional YAML config file, overlays TAROT_* environment
// variables (TAROT_STORAGE_DRIVER for storage.driver and so on) and validates
// the result.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("tarot")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/tarot")
	}

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "tarot.db")
	v.SetDefault("storage.quota_bytes", 5*1024*1024)
	v.SetDefault("drawing.reversed_probability", 0.3)
	v.SetDefault("history.max_age_days", 365)

	v.SetEnvPrefix("TAROT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	v, trans, err := newValidator()
	if err != nil {
		return err
	}
	if err := v.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Translate(trans))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return nil
}
