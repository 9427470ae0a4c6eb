package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"studytime/internal/models"
	"studytime/internal/sqlstore"
	"studytime/internal/structures"
	"studytime/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(filePath string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: 1,
		},
	}
}

func TestScheduler_PersistThenRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.dat")
	conf := testConfig(path)
	metrics := &testutil.MockMetrics{}
	logger := &testutil.MockLogger{}

	store := seededStore(t)
	s := NewScheduler(conf, logger, store, NewFileManager(&testutil.MockCompressor{}, store, logger), metrics)
	require.NoError(t, s.Persist())
	assert.Equal(t, 1, metrics.PersistenceCalls)

	restored := models.NewMemoryStore()
	s = NewScheduler(conf, logger, restored, NewFileManager(&testutil.MockCompressor{}, restored, logger), metrics)
	require.NoError(t, s.Restore())

	u, err := restored.Users().GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), u.TotalStudyTime)
	assert.Equal(t, 1, metrics.Records["users"])
	assert.Equal(t, 1, metrics.Records["sessions"])
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	store := models.NewMemoryStore()
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig("/nonexistent/file.dat"), logger, store, NewFileManager(&testutil.MockCompressor{}, store, logger), &testutil.MockMetrics{})
	assert.NoError(t, s.Restore())
}

func TestScheduler_Restore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	store := models.NewMemoryStore()
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig(path), logger, store, NewFileManager(&testutil.MockCompressor{}, store, logger), &testutil.MockMetrics{})
	assert.Error(t, s.Restore())
}

func TestScheduler_Persist_WriteError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress error")
		},
	}
	store := models.NewMemoryStore()
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig(filepath.Join(t.TempDir(), "x.dat")), logger, store, NewFileManager(comp, store, logger), &testutil.MockMetrics{})
	assert.Error(t, s.Persist())
	assert.Equal(t, 1, logger.Count("error"))
}

func TestScheduler_SqliteSkipsSnapshots(t *testing.T) {
	store, err := sqlstore.Open(filepath.Join(t.TempDir(), "studytime.db"))
	require.NoError(t, err)
	defer store.Close()

	path := filepath.Join(t.TempDir(), "never.dat")
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	s := NewScheduler(testConfig(path), logger, store, NewFileManager(&testutil.MockCompressor{}, store, logger), metrics)

	assert.NoError(t, s.Restore())
	assert.NoError(t, s.Persist())
	assert.Zero(t, metrics.PersistenceCalls)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestScheduler_StopNilCron(t *testing.T) {
	store := models.NewMemoryStore()
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig("/tmp/test.dat"), logger, store, NewFileManager(&testutil.MockCompressor{}, store, logger), &testutil.MockMetrics{})
	s.Stop()
}

func TestScheduler_InitSavesDirtyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycle.dat")
	store := seededStore(t)
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig(path), logger, store, NewFileManager(&testutil.MockCompressor{}, store, logger), &testutil.MockMetrics{})

	s.Init()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 3*time.Second, 50*time.Millisecond)
	assert.False(t, store.Dirty())
}
