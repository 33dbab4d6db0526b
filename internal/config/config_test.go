package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, EnvLocal, cfg.Env)
	require.False(t, cfg.IsProd())
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, 1500*time.Millisecond, cfg.Site.LoadingDelay)
	require.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	require.Equal(t, "en", cfg.Site.DefaultLocale)
	require.Equal(t, []string{"en", "es"}, cfg.Site.SupportedLocales)
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.Session.Ephemeral)
	require.Len(t, cfg.Session.HashKey, 32)
	require.False(t, cfg.Session.CookieSecure)
}

func TestLoadWithOverrides(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"PORT":                        "9090",
		"PRIMECUTS_ENV":               "prod",
		"PRIMECUTS_SESSION_HASH_KEY":  "0123456789abcdef0123456789abcdef",
		"PRIMECUTS_SESSION_BLOCK_KEY": "abcdefghijklmnop",
		"PRIMECUTS_LOADING_DELAY":     "0s",
		"PRIMECUTS_BASE_URL":          "https://primecuts.example.com/",
		"PRIMECUTS_DEFAULT_LOCALE":    "ES",
		"LOG_LEVEL":                   "debug",
	}
	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.True(t, cfg.IsProd())
	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Zero(t, cfg.Site.LoadingDelay)
	require.Equal(t, "https://primecuts.example.com", cfg.Site.BaseURL)
	require.Equal(t, "es", cfg.Site.DefaultLocale)
	require.Equal(t, "debug", cfg.LogLevel)
	require.False(t, cfg.Session.Ephemeral)
	require.True(t, cfg.Session.CookieSecure)
}

func TestLoadAddrTakesPrecedenceOverPort(t *testing.T) {
	t.Parallel()

	cfg, err := Load(WithEnvMap(map[string]string{
		"PORT":           "9090",
		"PRIMECUTS_ADDR": "127.0.0.1:7000",
	}), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
}

func TestLoadValidationErrors(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"PRIMECUTS_ENV":              "staging",
		"PRIMECUTS_LOADING_DELAY":    "soon",
		"PRIMECUTS_SESSION_IDLE_TTL": "-1m",
		"PRIMECUTS_BASE_URL":         "primecuts.example.com",
		"PRIMECUTS_DEFAULT_LOCALE":   "fr",
	}
	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.ElementsMatch(t, []string{
		"PRIMECUTS_LOADING_DELAY",
		"Env",
		"Session.IdleTTL",
		"Site.BaseURL",
		"Site.DefaultLocale",
	}, verr.Fields())
}

func TestLoadProdRequiresHashKey(t *testing.T) {
	t.Parallel()

	_, err := Load(WithEnvMap(map[string]string{"PRIMECUTS_ENV": "prod"}), WithoutSystemEnv(), WithEnvFile(""))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields(), "Session.HashKey")
}

func TestLoadReadsDotEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nPRIMECUTS_LOADING_DELAY=250ms\nexport PRIMECUTS_DEV=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(path))
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, cfg.Site.LoadingDelay)
	require.True(t, cfg.Dev)

	// Explicit values win over the dotenv file.
	cfg, err = Load(WithEnvMap(map[string]string{"PRIMECUTS_LOADING_DELAY": "1s"}), WithoutSystemEnv(), WithEnvFile(path))
	require.NoError(t, err)
	require.Equal(t, time.Second, cfg.Site.LoadingDelay)
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	t.Parallel()

	_, err := Load(WithoutSystemEnv(), WithEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	require.NoError(t, err)
}
