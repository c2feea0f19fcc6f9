package config

/*

go test -v ./internal/config -count=1

*/

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "nao-existe.env"))
	t.Setenv("PORT", "")
	t.Setenv("API_PORT", "")
	t.Setenv("MONGO_DB", "")
	t.Setenv("PARTNER_API_TIMEOUT", "")
	t.Setenv("LOOKUP_CACHE_TTL", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "parceirosdb", cfg.MongoDB)
	assert.Equal(t, 15*time.Second, cfg.PartnerAPITimeout)
	assert.Equal(t, 24*time.Hour, cfg.Lookup.CacheTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("LOOKUP_RATE", "0.5")
	t.Setenv("LOOKUP_BURST", "abc") // inválido cai no default
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 0.5, cfg.Lookup.RatePerSecond)
	assert.Equal(t, 5, cfg.Lookup.Burst)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadDotenv_DoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CFG_TEST_A=from-file\nCFG_TEST_B=from-file\n"), 0o600))

	t.Setenv("CFG_TEST_A", "from-env")
	// godotenv.Load só define o que ainda não existe
	require.NoError(t, os.Unsetenv("CFG_TEST_B"))
	t.Cleanup(func() { _ = os.Unsetenv("CFG_TEST_B") })

	require.NoError(t, loadEnvFile(path))
	assert.NoError(t, loadEnvFile(filepath.Join(dir, "ausente.env")))

	assert.Equal(t, "from-env", os.Getenv("CFG_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("CFG_TEST_B"))
}

func TestGetenvAny(t *testing.T) {
	t.Setenv("CFG_X", "")
	t.Setenv("CFG_Y", "y")
	assert.Equal(t, "y", getenvAny("def", "CFG_X", "CFG_Y"))
	assert.Equal(t, "def", getenvAny("def", "CFG_X"))
}

func TestLoadWSConfig(t *testing.T) {
	t.Setenv("WS_PREFETCH", "10")
	t.Setenv("RABBITMQ_QUEUE", "q1")
	c := LoadWSConfig()
	assert.Equal(t, 10, c.ConsumerPrefetch)
	assert.Equal(t, "q1", c.RabbitQueue)
	assert.Equal(t, 256, c.ClientBuffer)
}
