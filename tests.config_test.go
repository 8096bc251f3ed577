package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	t.Run("missing server address", func(t *testing.T) {
		err := InitConfig(&Config{}, "", "", "")
		assert.Error(t, err)
	})

	t.Run("defaults and build values", func(t *testing.T) {
		config := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: "8080"}}
		require.NoError(t, InitConfig(config, "abc123", "v1.0.0", "2024-01-01"))
		assert.Equal(t, "abc123", config.GitCommit)
		assert.Equal(t, "v1.0.0", config.GitTag)
		assert.Equal(t, "2024-01-01", config.BuildTime)
		assert.Equal(t, "info", config.LogLevel)
		assert.Equal(t, FileBackend, config.Storage.Backend)
		assert.Equal(t, "library.json", config.Storage.FilePath)
		assert.False(t, config.Storage.StrictDecode)
		assert.Equal(t, 30*time.Second, config.Server.RequestTimeout)
		assert.Equal(t, DefaultRedisCatalogKey, config.Redis.CatalogKey)
		assert.Equal(t, DefaultSnapshotQueue, config.Replication.Queue)
		assert.Equal(t, BoltBackend, config.Replication.Mirror)
	})

	t.Run("unknown backend", func(t *testing.T) {
		config := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: "8080"}, Storage: StorageConfig{Backend: "mongo"}}
		assert.Error(t, InitConfig(config, "", "", ""))
	})

	t.Run("redis backend requires redis address", func(t *testing.T) {
		config := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: "8080"}, Storage: StorageConfig{Backend: RedisBackend}}
		assert.Error(t, InitConfig(config, "", "", ""))
		config.Redis = RedisConfig{Host: "localhost", Port: "6379"}
		assert.NoError(t, InitConfig(config, "", "", ""))
	})

	t.Run("replication mirror must differ from backend", func(t *testing.T) {
		config := &Config{
			Server:      ServerConfig{Host: "127.0.0.1", Port: "8080"},
			Storage:     StorageConfig{Backend: BoltBackend},
			Redis:       RedisConfig{Host: "localhost", Port: "6379"},
			Replication: ReplicationConfig{Enabled: true, Mirror: BoltBackend},
		}
		assert.Error(t, InitConfig(config, "", "", ""))
		config.Replication.Mirror = MemoryBackend
		assert.Error(t, InitConfig(config, "", "", ""))
		config.Replication.Mirror = SQLiteBackend
		assert.NoError(t, InitConfig(config, "", "", ""))
	})
}

func TestLoadConfigFile(t *testing.T) {
	content := `
log_level: debug
server:
  host: 0.0.0.0
  port: "9090"
  request_timeout: 5s
storage:
  backend: sqlite
  strict_decode: true
redis:
  password: secret
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	config, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, 5*time.Second, config.Server.RequestTimeout)
	assert.Equal(t, SQLiteBackend, config.Storage.Backend)
	assert.True(t, config.Storage.StrictDecode)

	data, err := json.Marshal(config)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadAndInitConfigs(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	envPath := filepath.Join(dir, "config.env")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  host: localhost\n  port: \"8080\"\n"), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("BKC_STORAGE_BACKEND=memory\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BKC_STORAGE_BACKEND") })

	config, err := LoadAndInitConfigs(configPath, envPath, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, MemoryBackend, config.Storage.Backend)
}
