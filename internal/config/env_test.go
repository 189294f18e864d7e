package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	require.Equal(t, "INFO", cfg.LogLevel)
	require.Equal(t, "pretty", cfg.LogFormat)
	require.Equal(t, "auto", cfg.Provider.Mode)
	require.Equal(t, float64(60), cfg.Provider.Timeout)
	require.Equal(t, 5, cfg.Provider.MaxRetries)
	require.Equal(t, 10, cfg.Search.Limit)
	require.Equal(t, 0.3, cfg.Search.MinScore)
	require.Equal(t, 3, cfg.Search.OverFetch)
	require.Equal(t, 10, cfg.Search.ChunkSize)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/scout")
	t.Setenv("DB_URL", "postgres://localhost/scout")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("PROVIDER_MODE", "openai")
	t.Setenv("PROVIDER_API_KEY", "sk-test")
	t.Setenv("PROVIDER_TIMEOUT", "30")
	t.Setenv("SEARCH_LIMIT", "25")
	t.Setenv("SEARCH_MIN_SCORE", "0.5")
	t.Setenv("HTTP_CACHE_DIR", "/tmp/cache")
	t.Setenv("MODEL_DIR", "/opt/models")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	require.Equal(t, "/tmp/scout", cfg.DataDir)
	require.Equal(t, "postgres://localhost/scout", cfg.DBURL)
	require.Equal(t, "DEBUG", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "openai", cfg.Provider.Mode)
	require.Equal(t, "sk-test", cfg.Provider.APIKey)
	require.Equal(t, float64(30), cfg.Provider.Timeout)
	require.Equal(t, 25, cfg.Search.Limit)
	require.Equal(t, 0.5, cfg.Search.MinScore)
	require.Equal(t, "/tmp/cache", cfg.HTTPCacheDir)
	require.Equal(t, "/opt/models", cfg.ModelDir)
}

func TestLoadFromEnvWithPrefix(t *testing.T) {
	t.Setenv("PARKSCOUT_LOG_LEVEL", "WARN")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadFromEnvWithPrefix("PARKSCOUT")
	require.NoError(t, err)
	require.Equal(t, "WARN", cfg.LogLevel)
}

func TestToAppConfig(t *testing.T) {
	env := EnvConfig{
		DataDir:   "/tmp/scout",
		LogLevel:  "DEBUG",
		LogFormat: "json",
		Provider: ProviderEnv{
			Mode:         "openai",
			APIKey:       "sk-test",
			Timeout:      30,
			InitialDelay: 0.5,
		},
		Search: SearchEnv{
			Limit:    25,
			MinScore: 0.5,
		},
		HTTPCacheDir: "/tmp/cache",
	}

	cfg := env.ToAppConfig()

	require.Equal(t, "/tmp/scout", cfg.DataDir())
	require.Equal(t, "sqlite:///"+filepath.Join("/tmp/scout", "parkscout.db"), cfg.DBURL())
	require.Equal(t, "DEBUG", cfg.LogLevel())
	require.Equal(t, LogFormatJSON, cfg.LogFormat())
	require.Equal(t, "openai", cfg.Provider().Mode())
	require.Equal(t, "sk-test", cfg.Provider().APIKey())
	require.Equal(t, 30*time.Second, cfg.Provider().Timeout())
	require.Equal(t, 500*time.Millisecond, cfg.Provider().InitialDelay())
	require.Equal(t, 25, cfg.Search().Limit())
	require.Equal(t, 0.5, cfg.Search().MinScore())
	require.Equal(t, "/tmp/cache", cfg.HTTPCacheDir())
}

func TestParseLogFormat(t *testing.T) {
	require.Equal(t, LogFormatJSON, parseLogFormat("json"))
	require.Equal(t, LogFormatJSON, parseLogFormat("JSON"))
	require.Equal(t, LogFormatPretty, parseLogFormat("pretty"))
	require.Equal(t, LogFormatPretty, parseLogFormat("anything else"))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PARKSCOUT_TEST_DOTENV=from-file\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("PARKSCOUT_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	require.Equal(t, "from-file", os.Getenv("PARKSCOUT_TEST_DOTENV"))
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	t.Setenv("PARKSCOUT_TEST_PRECEDENCE", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PARKSCOUT_TEST_PRECEDENCE=from-file\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	require.Equal(t, "from-env", os.Getenv("PARKSCOUT_TEST_PRECEDENCE"))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SEARCH_LIMIT", "7")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=ERROR\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LOG_LEVEL") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "ERROR", cfg.LogLevel())
	require.Equal(t, 7, cfg.Search().Limit())
}
