package persistence

import (
	"context"
	"studytime/internal/models"
	"studytime/internal/persistence/interfaces"
	"studytime/internal/providers"
	"studytime/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	store       models.Store
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SaveInterval

	s.cron.AddFunc(gron.Every(interval*time.Second), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.refreshRecordCounts()

		if !s.fileManager.Dirty() {
			return
		}
		if err := s.save(); err != nil {
			s.logger.Errorf(providers.TypeStorage, "Error while persisting data: %s", err)
			return
		}
		s.logger.Infof(providers.TypeStorage, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if !s.fileManager.Enabled() {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath); err != nil {
		return err
	}
	s.refreshRecordCounts()
	return nil
}

func (s *Scheduler) Persist() error {
	if !s.fileManager.Enabled() {
		return nil
	}
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStorage, "Persisting store to file...")
	if err := s.save(); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) save() error {
	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

func (s *Scheduler) refreshRecordCounts() {
	counts, err := s.store.Counts(context.Background())
	if err != nil {
		s.logger.Warnf(providers.TypeStorage, "Unable to count records: %s", err)
		return
	}
	for collection, n := range counts {
		s.metrics.SetRecordsTotal(collection, n)
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, store models.Store, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		store:       store,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
