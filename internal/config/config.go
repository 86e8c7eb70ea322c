package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/ZanzyTHEbar/review-o-meter/internal/errors"
)

// Variant selects the wire contract of the inference service.
type Variant string

const (
	// VariantMultipart posts a multipart form to API_URL and expects the full result.
	VariantMultipart Variant = "multipart"
	// VariantJSON posts {"review": ...} to API_URL/analyze-review and expects {sentiment}.
	VariantJSON Variant = "json"
)

// DefaultMultipartURL is used when the multipart variant has no API_URL.
const DefaultMultipartURL = "http://127.0.0.1:5000/predict_api"

// Config holds the service configuration
type Config struct {
	Port           string        `yaml:"port"`
	APIURL         string        `yaml:"api_url"`
	APIVariant     Variant       `yaml:"api_variant"`
	APITimeout     time.Duration `yaml:"api_timeout"`
	LogFormat      string        `yaml:"log_format"`
	LogLevel       string        `yaml:"log_level"`
	GinMode        string        `yaml:"gin_mode"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	EnableHSTS     bool          `yaml:"enable_hsts"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port:           "8080",
		APIVariant:     VariantMultipart,
		LogFormat:      "json",
		LogLevel:       "info",
		GinMode:        "release",
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// Load builds the configuration from, in increasing precedence: defaults, the
// YAML file named by CONFIG_FILE, the dotenv file named by ENV_FILE (".env"
// by default, never overriding variables already set) and the environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	envFile := getEnvOrDefault("ENV_FILE", ".env")
	if err := gotenv.Load(envFile); err != nil {
		slog.Debug("No .env file loaded, using OS environment", "file", envFile)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigurationError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return apperrors.NewConfigurationError(fmt.Sprintf("failed to parse config file %s", path), err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}

	// NEXT_PUBLIC_API_URL is accepted for deployments shared with the old web client.
	if v := getEnvOrDefault("API_URL", os.Getenv("NEXT_PUBLIC_API_URL")); v != "" {
		c.APIURL = v
	}

	if v := os.Getenv("API_VARIANT"); v != "" {
		c.APIVariant = Variant(strings.ToLower(v))
	}

	if v := os.Getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperrors.NewConfigurationError(fmt.Sprintf("invalid API_TIMEOUT %q", v), err)
		}
		c.APITimeout = d
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.GinMode = v
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		c.AllowedOrigins = origins
	}

	if v := os.Getenv("ENABLE_HSTS"); v != "" {
		c.EnableHSTS = v == "true"
	}

	return nil
}

// applyDefaults fills the multipart URL. The JSON variant has no default base URL.
func (c *Config) applyDefaults() {
	if c.APIVariant == "" {
		c.APIVariant = VariantMultipart
	}
	if c.APIVariant == VariantMultipart && c.APIURL == "" {
		c.APIURL = DefaultMultipartURL
	}
}

// Validate checks the values that cannot be fixed up with a default
func (c *Config) Validate() error {
	switch c.APIVariant {
	case VariantMultipart, VariantJSON:
	default:
		return apperrors.NewConfigurationError(
			fmt.Sprintf("unknown API_VARIANT %q (want %q or %q)", c.APIVariant, VariantMultipart, VariantJSON), nil)
	}

	if c.APITimeout < 0 {
		return apperrors.NewConfigurationError("API_TIMEOUT must not be negative", nil)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	return nil
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, apperrors.NewConfigurationError(fmt.Sprintf("invalid LOG_LEVEL %q", c.LogLevel), err)
	}
	return level, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
