package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test. godotenv never
// overrides a variable that is set, even to "".
func unsetEnv(t *testing.T, keys ...string) {
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "SERVER_ADDRESS", "REDIS_ADDRESS", "LOG_LEVEL")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnvFile(t *testing.T) {
	unsetEnv(t, "SERVER_ADDRESS", "LOG_LEVEL")
	t.Setenv("REDIS_ADDRESS", "redis.internal:6379")

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("SERVER_ADDRESS=relay.internal:9000\nREDIS_ADDRESS=ignored:1\nLOG_LEVEL=debug\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "relay.internal:9000", cfg.ServerAddress)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddress, "environment wins over the file")
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, logrus.DebugLevel, cfg.NewLogger().GetLevel())
}

func TestLoadBadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load()
	assert.Error(t, err)
}
