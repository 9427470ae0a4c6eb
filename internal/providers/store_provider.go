package providers

import (
	"fmt"
	"studytime/internal/models"
	"studytime/internal/sqlstore"
	"studytime/internal/structures"
)

func NewStoreProvider(conf *structures.Config, logger Logger) (models.Store, error) {
	switch conf.Storage.Driver {
	case "", "memory":
		logger.Infof(TypeStorage, "Using in-memory store with snapshots at %s", conf.Persistence.FilePath)
		return models.NewMemoryStore(), nil
	case "sqlite":
		store, err := sqlstore.Open(conf.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Infof(TypeStorage, "Using sqlite store at %s", conf.Storage.DSN)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
