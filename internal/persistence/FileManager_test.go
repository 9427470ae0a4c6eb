package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"studytime/internal/models"
	"studytime/internal/sqlstore"
	"studytime/internal/testutil"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func seededStore(t *testing.T) *models.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := models.NewMemoryStore()
	u, err := store.Users().Create(ctx, &models.User{
		Username:     "alice",
		PasswordHash: "hash",
		Level:        models.DefaultLevel,
		DailyGoal:    models.DefaultDailyGoal,
		CreatedAt:    t0,
	})
	require.NoError(t, err)
	_, err = store.Users().AddStudyTime(ctx, u.ID, 1500)
	require.NoError(t, err)
	s, err := store.Sessions().Create(ctx, models.NewSession(u.ID, 0, models.SessionStudy, t0))
	require.NoError(t, err)
	_, err = store.Sessions().End(ctx, s.ID, 1500, t0.Add(25*time.Minute))
	require.NoError(t, err)
	_, err = store.DailyStats().Add(ctx, u.ID, "2024-03-01", models.SessionStudy, 1500, 0)
	require.NoError(t, err)
	return store
}

func TestFileManager_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studytime.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	fm := NewFileManager(comp, seededStore(t), &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	restored := models.NewMemoryStore()
	require.NoError(t, NewFileManager(comp, restored, &testutil.MockLogger{}).LoadFromFile(path))

	u, err := restored.Users().GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), u.TotalStudyTime)
	assert.Equal(t, "hash", u.PasswordHash)

	rows, err := restored.DailyStats().ListRange(context.Background(), u.ID, "2024-03-01", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1500), rows[0].StudyTime)

	active, err := restored.Sessions().ListActiveByUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.False(t, restored.Dirty())
}

func TestFileManager_SaveClearsDirty(t *testing.T) {
	store := seededStore(t)
	require.True(t, store.Dirty())

	fm := NewFileManager(&testutil.MockCompressor{}, store, &testutil.MockLogger{})
	require.True(t, fm.Dirty())
	require.NoError(t, fm.SaveToFile(filepath.Join(t.TempDir(), "a.dat")))
	assert.False(t, fm.Dirty())
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	fm := NewFileManager(&testutil.MockCompressor{}, models.NewMemoryStore(), &testutil.MockLogger{})
	assert.NoError(t, fm.LoadFromFile("/nonexistent/path/file.dat"))
}

func TestFileManager_LoadFromFile_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, models.NewMemoryStore(), &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(path))
}

func TestFileManager_LoadFromFile_RejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.dat")
	data, err := json.Marshal(models.Storage{Version: models.StorageVersion + 1})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, models.NewMemoryStore(), &testutil.MockLogger{})
	err = fm.LoadFromFile(path)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestFileManager_LoadFromFile_UnversionedSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"users":[{"id":3,"username":"bob","level":"Student"}]}`), 0644))

	logger := &testutil.MockLogger{}
	store := models.NewMemoryStore()
	require.NoError(t, NewFileManager(&testutil.MockCompressor{}, store, logger).LoadFromFile(path))
	assert.Equal(t, 1, logger.Count("warn"))

	u, err := store.Users().Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
}

func TestFileManager_CompressError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress error")
		},
	}
	path := filepath.Join(t.TempDir(), "never.dat")
	fm := NewFileManager(comp, seededStore(t), &testutil.MockLogger{})
	assert.Error(t, fm.SaveToFile(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_DisabledForSqlite(t *testing.T) {
	store, err := sqlstore.Open(filepath.Join(t.TempDir(), "studytime.db"))
	require.NoError(t, err)
	defer store.Close()

	fm := NewFileManager(&testutil.MockCompressor{}, store, &testutil.MockLogger{})
	assert.False(t, fm.Enabled())
	assert.False(t, fm.Dirty())
	assert.ErrorIs(t, fm.SaveToFile(filepath.Join(t.TempDir(), "x.dat")), ErrSnapshotUnsupported)
}

func TestFileManager_CloseClosesCompressor(t *testing.T) {
	comp := &testutil.MockCompressor{}
	NewFileManager(comp, models.NewMemoryStore(), &testutil.MockLogger{}).Close()
	assert.True(t, comp.Closed)
}
