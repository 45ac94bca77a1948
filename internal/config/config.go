package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration, loaded from config.yaml
// with AIRSYNC_* environment variable overrides.
type Config struct {
	Server ServerConfig
	Source SourceConfig
	Data   DataConfig
	Misc   MiscConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutDownTimeout    time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins string
}

// SourceConfig describes the remote airport dataset endpoint.
type SourceConfig struct {
	URL          string
	State        string
	Format       string
	FetchTimeout time.Duration
}

// DataConfig holds persistence settings.
type DataConfig struct {
	FilePath string
	// RefreshInterval re-triggers the sync on a timer when RefreshEnabled.
	RefreshEnabled  bool
	RefreshInterval time.Duration
}

// MiscConfig holds everything else.
type MiscConfig struct {
	GinMode  string
	LogLevel string
}

// LoadConfig reads configuration from ./config (or env overrides) and
// validates it. A missing config file is not an error; defaults apply.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Defaults to allow running without config file
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.shutdown_timeout", "5s")
	viper.SetDefault("server.request_timeout", "1s")
	viper.SetDefault("server.cors_allowed_origins", "*")

	viper.SetDefault("source.url", "http://airports.pidgets.com/v1/airports")
	viper.SetDefault("source.state", "California")
	viper.SetDefault("source.format", "json")
	viper.SetDefault("source.fetch_timeout", "30s")

	viper.SetDefault("data.file_path", "./config/data/airports.json")
	viper.SetDefault("data.refresh_enabled", false)
	viper.SetDefault("data.refresh_interval", "1h")

	viper.SetDefault("misc.gin_mode", "release")
	viper.SetDefault("misc.log_level", "info")

	// Environment variables like AIRSYNC_SOURCE_URL override everything
	viper.AutomaticEnv()
	viper.SetEnvPrefix("AIRSYNC")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               viper.GetInt("server.port"),
			ReadTimeout:        viper.GetDuration("server.read_timeout"),
			WriteTimeout:       viper.GetDuration("server.write_timeout"),
			IdleTimeout:        viper.GetDuration("server.idle_timeout"),
			ShutDownTimeout:    viper.GetDuration("server.shutdown_timeout"),
			RequestTimeout:     viper.GetDuration("server.request_timeout"),
			CORSAllowedOrigins: viper.GetString("server.cors_allowed_origins"),
		},
		Source: SourceConfig{
			URL:          viper.GetString("source.url"),
			State:        viper.GetString("source.state"),
			Format:       viper.GetString("source.format"),
			FetchTimeout: viper.GetDuration("source.fetch_timeout"),
		},
		Data: DataConfig{
			FilePath:        viper.GetString("data.file_path"),
			RefreshEnabled:  viper.GetBool("data.refresh_enabled"),
			RefreshInterval: viper.GetDuration("data.refresh_interval"),
		},
		Misc: MiscConfig{
			GinMode:  viper.GetString("misc.gin_mode"),
			LogLevel: viper.GetString("misc.log_level"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.ShutDownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if c.Source.URL == "" {
		return fmt.Errorf("source url is required")
	}
	if c.Source.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.Data.FilePath == "" {
		return fmt.Errorf("data file path is required")
	}
	if c.Data.RefreshEnabled && c.Data.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive when refresh is enabled")
	}
	return nil
}
