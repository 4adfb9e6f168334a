package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gss/competition-registration/pkg/clipboard"
)

// Config holds all application configuration values
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	APIBaseURL        string        `mapstructure:"API_BASE_URL"`
	PublicURL         string        `mapstructure:"PUBLIC_URL"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    []string      `mapstructure:"ALLOWED_ORIGINS"`
	ClipboardMode     string        `mapstructure:"CLIPBOARD_MODE"`
}

// SetDefaults registers every key so AutomaticEnv can resolve it
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("API_BASE_URL", "http://localhost:8000")
	v.SetDefault("PUBLIC_URL", "")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("SESSION_TTL", "30m")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 60)
	v.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("CLIPBOARD_MODE", clipboard.ModeBrowser)
}

// LoadConfig reads .env, an optional config file and the environment.
// An empty path searches for config.yaml in . and ./config.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	SetDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail on the first request
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute url, got %q", c.APIBaseURL)
	}
	if c.PublicURL != "" {
		u, err := url.Parse(c.PublicURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("PUBLIC_URL must be an absolute url, got %q", c.PublicURL)
		}
	}
	switch c.ClipboardMode {
	case clipboard.ModeBrowser, clipboard.ModeSystem:
	default:
		return fmt.Errorf("unknown CLIPBOARD_MODE %q", c.ClipboardMode)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// env values arrive as a single comma separated string
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
