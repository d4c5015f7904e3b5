package storage

import (
	"sync"

	"github.com/roylee0704/gron"

	"leadtrack/internal/providers"
	"leadtrack/internal/storage/interfaces"
	"leadtrack/internal/structures"
)

// Scheduler drives periodic snapshot persistence for the memory backend.
// For sqlite every write is already durable, so all methods are no-ops
// there aside from Init logging.
type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	stores *Stores
	cron   *gron.Cron
	opsMu  sync.Mutex
}

func (s *Scheduler) Init() {
	if s.stores.snap == nil {
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Storage.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if !s.stores.mem.Dirty() {
			return
		}
		if err := s.stores.snap.SaveToFile(s.config.Storage.SnapshotPath); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.stores.mem.ClearDirty()
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Storage.SnapshotPath)
	})
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	if s.stores.snap == nil {
		return nil
	}
	return s.stores.snap.LoadFromFile(s.config.Storage.SnapshotPath)
}

func (s *Scheduler) Persist() error {
	if s.stores.snap == nil {
		return nil
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting records to file...")
	if err := s.stores.snap.SaveToFile(s.config.Storage.SnapshotPath); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	s.stores.mem.ClearDirty()
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, stores *Stores) interfaces.SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		stores: stores,
	}
}
