package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill what the file leaves out", func(t *testing.T) {
		// Given: a config file with only the log level
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yml", "log-level: debug\n")

		// When: loading it without an env file
		conf, err := Load(path, filepath.Join(dir, ".env"))

		// Then: defaults are applied
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "8080", conf.SocketPort)
		assert.Equal(t, "/ws", conf.SocketPath)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 24*time.Hour, conf.Redis.SessionTTL)
		assert.False(t, conf.Game.AllowMovesAfterFinish)
	})

	t.Run("Reads nested sections", func(t *testing.T) {
		// Given: a config file enabling redis and lenient moves
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yml", `
socket-port: "7000"
redis:
  enabled: true
  host: cache
  port: "6380"
  session-ttl: 30m
game:
  allow-moves-after-finish: true
`)

		// When: loading it
		conf, err := Load(path, filepath.Join(dir, ".env"))

		// Then: every section is read
		require.NoError(t, err)
		assert.Equal(t, "7000", conf.SocketPort)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 30*time.Minute, conf.Redis.SessionTTL)
		assert.True(t, conf.Game.AllowMovesAfterFinish)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		// Given: a config file and an environment override
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yml", "socket-port: \"7000\"\n")
		t.Setenv("SOCKET_PORT", "7001")
		t.Setenv("REDIS_HOST", "redis.internal")

		// When: loading it
		conf, err := Load(path, filepath.Join(dir, ".env"))

		// Then: the environment wins
		require.NoError(t, err)
		assert.Equal(t, "7001", conf.SocketPort)
		assert.Equal(t, "redis.internal", conf.Redis.Host)
	})

	t.Run("Env file feeds the environment", func(t *testing.T) {
		// Given: an env file and no such variable in the process environment
		dir := t.TempDir()
		path := writeFile(t, dir, "config.yml", "log-level: info\n")
		envPath := writeFile(t, dir, ".env", "GAME_ALLOW_MOVES_AFTER_FINISH=true\n")
		t.Setenv("GAME_ALLOW_MOVES_AFTER_FINISH", "")
		require.NoError(t, os.Unsetenv("GAME_ALLOW_MOVES_AFTER_FINISH"))

		// When: loading the config
		conf, err := Load(path, envPath)

		// Then: the value from the env file is used
		require.NoError(t, err)
		assert.True(t, conf.Game.AllowMovesAfterFinish)
	})

	t.Run("Missing config file is an error", func(t *testing.T) {
		dir := t.TempDir()

		_, err := Load(filepath.Join(dir, "nope.yml"), filepath.Join(dir, ".env"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(dir, "nope.yml"), filepath.Join(dir, ".env")) })
	})
}
