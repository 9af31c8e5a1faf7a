package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// env builds a getenv func over a fixed map
func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadSuiteConfig_Defaults(t *testing.T) {
	cfg, err := LoadSuiteConfig(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.BaseURL)
	assert.Equal(t, "media", cfg.MediaDir)
	assert.Equal(t, "allure-results", cfg.ReportDir)
	assert.Equal(t, "data/filter_data.xlsx", cfg.DataFile)
	assert.Equal(t, "chrome", cfg.Browser)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 20*time.Second, cfg.WaitTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 1920, cfg.WindowWidth)
	assert.Equal(t, 1080, cfg.WindowHeight)
}

func TestLoadSuiteConfig_FromEnv(t *testing.T) {
	cfg, err := LoadSuiteConfig(env(map[string]string{
		"BASE_URL":        "https://shop.example/",
		"MEDIA_FOLDER":    "shots",
		"BROWSER":         "Firefox",
		"HEADLESS":        "true",
		"FIREFOX_PROFILE": "/tmp/ff",
		"WAIT_TIMEOUT":    "5s",
		"POLL_INTERVAL":   "100ms",
		"WINDOW_SIZE":     "1280x720",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example", cfg.BaseURL)
	assert.Equal(t, "shots", cfg.MediaDir)
	assert.Equal(t, "firefox", cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "/tmp/ff", cfg.FirefoxProfile)
	assert.Equal(t, 5*time.Second, cfg.WaitTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 1280, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
}

func TestLoadSuiteConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown browser", env: map[string]string{"BROWSER": "netscape"}},
		{name: "bad headless", env: map[string]string{"HEADLESS": "maybe"}},
		{name: "bad timeout", env: map[string]string{"WAIT_TIMEOUT": "soon"}},
		{name: "negative interval", env: map[string]string{"POLL_INTERVAL": "-1s"}},
		{name: "bad window size", env: map[string]string{"WINDOW_SIZE": "big"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadSuiteConfig(env(tt.env))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadPostgresConfig(t *testing.T) {
	full := map[string]string{
		"POSTGRES_USER":     "u",
		"POSTGRES_PASSWORD": "p",
		"POSTGRES_DB":       "d",
		"POSTGRES_HOSTNAME": "h",
	}

	cfg, err := LoadPostgresConfig(env(full))
	require.NoError(t, err)
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", cfg.ConnectionString())
	assert.True(t, PostgresConfigured(env(full)))
	assert.False(t, PostgresConfigured(env(nil)))

	scoped := cfg.WithSearchPath("results_test")
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable search_path=results_test", scoped.ConnectionString())
	assert.Empty(t, cfg.SearchPath)

	for _, key := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_HOSTNAME"} {
		t.Run("missing "+key, func(t *testing.T) {
			partial := map[string]string{}
			for k, v := range full {
				if k != key {
					partial[k] = v
				}
			}
			_, err := LoadPostgresConfig(env(partial))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadLoggerConfig(t *testing.T) {
	cfg, err := LoadLoggerConfig(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)

	_, err = LoadLoggerConfig(env(map[string]string{"LOG_FORMAT": "xml"}))
	assert.Error(t, err)

	_, err = LoadLoggerConfig(env(map[string]string{"LOG_MAX_SIZE_MB": "0"}))
	assert.Error(t, err)
}

func TestLoadServerConfig(t *testing.T) {
	assert.Equal(t, "8080", LoadServerConfig(env(nil)).Port)
	assert.Equal(t, "9090", LoadServerConfig(env(map[string]string{"PORT": "9090"})).Port)
}
