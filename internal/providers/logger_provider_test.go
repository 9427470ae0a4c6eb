package providers

import (
	"bytes"
	"os"
	"path/filepath"
	"studytime/internal/structures"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogTypeByRequestType_POST(t *testing.T) {
	assert.Equal(t, TypeEnum(TypePost), GetLogTypeByRequestType("POST"))
}

func TestGetLogTypeByRequestType_GET(t *testing.T) {
	assert.Equal(t, TypeEnum(TypeGet), GetLogTypeByRequestType("GET"))
}

func TestGetLogTypeByRequestType_Mutating(t *testing.T) {
	assert.Equal(t, TypeEnum(TypePost), GetLogTypeByRequestType("PATCH"))
	assert.Equal(t, TypeEnum(TypePost), GetLogTypeByRequestType("DELETE"))
}

func TestGetLogTypeByRequestType_Other(t *testing.T) {
	assert.Equal(t, TypeEnum(TypeGet), GetLogTypeByRequestType("HEAD"))
	assert.Equal(t, TypeEnum(TypeGet), GetLogTypeByRequestType("OPTIONS"))
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)

	logger.Infof(TypeApp, "test message")
	logger.Debugf(TypeGet, "get message")
	logger.Warnf(TypePost, "post message")
	logger.Errorf(TypeSession, "session %d ended", 7)
	logger.Close()

	for _, name := range []string{"app.log", "get.log", "post.log", "session.log", "storage.log"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "session.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "session 7 ended")
	assert.Contains(t, string(data), `"level":"error"`)

	debug, err := os.ReadFile(filepath.Join(dir, "get.log"))
	require.NoError(t, err)
	assert.Empty(t, debug, "debug lines are below the info level")
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{Level: "loud", Mode: 0644, Dir: t.TempDir()},
	}
	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/nonexistent/directory/path",
		},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewWriterLogger_TagsLogType(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	logger.Infof(TypeSession, "dropped")
	logger.Warnf(TypeSession, "kept %d", 1)
	logger.Close()

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"log":"session.log"`)
	assert.Contains(t, buf.String(), "kept 1")
}
