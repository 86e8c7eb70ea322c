package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/review-o-meter/internal/errors"
)

var configEnvKeys = []string{
	"CONFIG_FILE", "PORT", "API_URL", "NEXT_PUBLIC_API_URL", "API_VARIANT", "API_TIMEOUT",
	"LOG_FORMAT", "LOG_LEVEL", "GIN_MODE", "ALLOWED_ORIGINS", "ENABLE_HSTS",
}

// clearEnv blanks every variable Load reads and points ENV_FILE at a file that
// does not exist.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, VariantMultipart, cfg.APIVariant)
	assert.Equal(t, DefaultMultipartURL, cfg.APIURL)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.EnableHSTS)
}

func TestLoad_JSONVariantHasNoDefaultURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_VARIANT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, VariantJSON, cfg.APIVariant)
	assert.Empty(t, cfg.APIURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("API_URL", "http://inference:8000")
	t.Setenv("API_VARIANT", "json")
	t.Setenv("API_TIMEOUT", "15s")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ENABLE_HSTS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://inference:8000", cfg.APIURL)
	assert.Equal(t, VariantJSON, cfg.APIVariant)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.True(t, cfg.EnableHSTS)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_NextPublicAPIURLAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_API_URL", "http://legacy:5000/predict_api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://legacy:5000/predict_api", cfg.APIURL)

	t.Setenv("API_URL", "http://primary:5000/predict_api")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://primary:5000/predict_api", cfg.APIURL)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
api_url: http://yaml:5000
api_variant: json
api_timeout: 2s
allowed_origins:
  - http://yaml.test
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Port, "environment wins over the file")
	assert.Equal(t, "http://yaml:5000", cfg.APIURL)
	assert.Equal(t, VariantJSON, cfg.APIVariant)
	assert.Equal(t, 2*time.Second, cfg.APITimeout)
	assert.Equal(t, []string{"http://yaml.test"}, cfg.AllowedOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("REVIEW_TEST_DOTENV_URL=http://dotenv:5000\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { os.Unsetenv("REVIEW_TEST_DOTENV_URL") })

	_, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://dotenv:5000", os.Getenv("REVIEW_TEST_DOTENV_URL"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown variant", "API_VARIANT", "grpc"},
		{"bad timeout", "API_TIMEOUT", "soon"},
		{"negative timeout", "API_TIMEOUT", "-1s"},
		{"bad log level", "LOG_LEVEL", "chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)

			appErr := apperrors.ToAppError(err)
			assert.Equal(t, apperrors.CategoryConfiguration, appErr.Category)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
