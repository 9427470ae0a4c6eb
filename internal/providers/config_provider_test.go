package providers

import (
	"os"
	"path/filepath"
	"studytime/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
webServer:
  host: 127.0.0.1
  port: 8080
persistence:
  filePath: /tmp/studytime.dat
  saveInterval: 30
logger:
  level: info
  mode: 0644
  dir: /tmp
storage:
  driver: memory
auth:
  secret: test-secret-0123456789
  tokenTTL: 3600
cache:
  enabled: true
  size: 4
  ttl: 30
metrics:
  enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_ReadsYAML(t *testing.T) {
	path := writeConfig(t, testConfigYAML)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 8080, conf.WebServer.Port)
	assert.Equal(t, "memory", conf.Storage.Driver)
	assert.Equal(t, time.Duration(3600), conf.Auth.TokenTTL)
	assert.Equal(t, 4, conf.Cache.Size)
	assert.False(t, conf.Metrics.Enabled)
}

func TestNewConfigProvider_EnvOverrides(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("STUDYTIME_LOG_LEVEL", "debug")
	t.Setenv("STUDYTIME_METRICS_ENABLED", "true")
	t.Setenv("STUDYTIME_STORAGE_DRIVER", "sqlite")
	t.Setenv("STUDYTIME_STORAGE_DSN", "/tmp/studytime.db")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "debug", conf.Logger.Level)
	assert.True(t, conf.Metrics.Enabled)
	assert.Equal(t, "sqlite", conf.Storage.Driver)
	assert.Equal(t, "/tmp/studytime.db", conf.Storage.DSN)
}

func TestNewConfigProvider_SqliteRequiresDSN(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("STUDYTIME_STORAGE_DRIVER", "sqlite")

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "none.yml")})
	assert.Error(t, err)
}
