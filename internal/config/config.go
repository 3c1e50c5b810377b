package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	BulkSend BulkSendConfig `yaml:"bulksend" mapstructure:"bulksend"`
	Trial    TrialConfig    `yaml:"trial" mapstructure:"trial"`
	Drip     DripConfig     `yaml:"drip" mapstructure:"drip"`
	Catalog  CatalogConfig  `yaml:"catalog" mapstructure:"catalog"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BulkSendConfig holds the bulk-send service credentials.
type BulkSendConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Key         string `yaml:"key" mapstructure:"key"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// TrialConfig configures the free-trial gate.
type TrialConfig struct {
	DurationDays int     `yaml:"duration_days" mapstructure:"duration_days"`
	MonthlyPrice float64 `yaml:"monthly_price" mapstructure:"monthly_price"`
}

// DripConfig configures default campaign pacing.
type DripConfig struct {
	EmailsPerHour   int `yaml:"emails_per_hour" mapstructure:"emails_per_hour"`
	SendTimeoutSecs int `yaml:"send_timeout_secs" mapstructure:"send_timeout_secs"`
}

// CatalogConfig points at an optional sequence-catalog overlay file.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the configuration is usable for the given mode.
// Modes: "campaign" (requires a send transport), "serve", "score".
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required for postgres")
	}
	if c.Drip.EmailsPerHour < 1 || c.Drip.EmailsPerHour > 500 {
		problems = append(problems, "drip.emails_per_hour must be between 1 and 500")
	}
	if c.Trial.DurationDays < 1 {
		problems = append(problems, "trial.duration_days must be >= 1")
	}

	switch mode {
	case "campaign":
		if c.BulkSend.BaseURL == "" {
			problems = append(problems, "bulksend.base_url is required")
		}
		if c.BulkSend.Key == "" {
			problems = append(problems, "bulksend.key is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "score":
		// No extra requirements: scoring is fully offline.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "outreach.db")
	v.SetDefault("bulksend.timeout_secs", 3600)
	v.SetDefault("trial.duration_days", 14)
	v.SetDefault("trial.monthly_price", 79.00)
	v.SetDefault("drip.emails_per_hour", 25)
	v.SetDefault("drip.send_timeout_secs", 3600)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
