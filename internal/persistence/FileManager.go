package persistence

import (
	"errors"
	"fmt"
	"os"
	"studytime/internal/models"
	"studytime/internal/persistence/interfaces"
	"studytime/internal/providers"

	json "github.com/goccy/go-json"
)

var ErrSnapshotUnsupported = errors.New("store does not support snapshots")

// FileManager writes and reads whole-store snapshots as compressed JSON.
type FileManager struct {
	snapshots  models.SnapshotStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

// NewFileManager accepts any store. Stores without snapshot support yield a
// disabled manager.
func NewFileManager(compressor interfaces.CompressorInterface, store models.Store, logger providers.Logger) *FileManager {
	snapshots, _ := store.(models.SnapshotStore)
	return &FileManager{
		snapshots:  snapshots,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) Enabled() bool {
	return f.snapshots != nil
}

func (f *FileManager) Dirty() bool {
	return f.snapshots != nil && f.snapshots.Dirty()
}

func (f *FileManager) SaveToFile(fileName string) error {
	if f.snapshots == nil {
		return ErrSnapshotUnsupported
	}
	storage := f.snapshots.Snapshot()

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile replaces the store state with the snapshot at fileName.
// A missing file is not an error: the store simply starts empty.
func (f *FileManager) LoadFromFile(fileName string) error {
	if f.snapshots == nil {
		return ErrSnapshotUnsupported
	}
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress snapshot: %w", err)
	}

	var storage models.Storage
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if storage.Version == 0 {
		f.logger.Warnf(providers.TypeStorage, "Snapshot %s carries no version, assuming %d", fileName, models.StorageVersion)
		storage.Version = models.StorageVersion
	}

	return f.snapshots.Load(&storage)
}
