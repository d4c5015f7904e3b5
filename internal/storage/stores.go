package storage

import (
	"context"
	"database/sql"
	"fmt"

	"leadtrack/internal/models"
	"leadtrack/internal/providers"
	"leadtrack/internal/storage/interfaces"
	"leadtrack/internal/storage/memory"
	"leadtrack/internal/storage/sqlite"
	"leadtrack/internal/structures"
)

// Stores bundles the repository interfaces of the selected backend. Both
// backends serve the same contracts; the daemon never branches on the
// driver outside this package.
type Stores struct {
	Leads    models.LeadStore
	Checks   models.CheckStore
	Mappings models.MappingStore

	mem  *memory.Store
	snap *memory.SnapshotManager
	db   *sql.DB
}

func NewStores(conf *structures.Config, logger providers.Logger, compressor interfaces.CompressorInterface) (*Stores, error) {
	switch conf.Storage.Driver {
	case "sqlite":
		db, err := sqlite.Open(conf.Storage.SqlitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.NewMigrator(db).Up(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Infof(providers.TypeApp, "Storage: sqlite at %s", conf.Storage.SqlitePath)

		st := sqlite.NewStore(db)
		return &Stores{
			Leads:    st.Leads(),
			Checks:   st.Checks(),
			Mappings: st,
			db:       db,
		}, nil

	default: // memory
		mem := memory.NewStore()
		logger.Infof(providers.TypeApp, "Storage: memory with snapshots at %s", conf.Storage.SnapshotPath)
		return &Stores{
			Leads:    mem.Leads(),
			Checks:   mem.Checks(),
			Mappings: mem,
			mem:      mem,
			snap:     memory.NewSnapshotManager(mem, compressor, logger),
		}, nil
	}
}

func (s *Stores) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Wire providers for the individual repository interfaces.

func ProvideLeadStore(s *Stores) models.LeadStore       { return s.Leads }
func ProvideCheckStore(s *Stores) models.CheckStore     { return s.Checks }
func ProvideMappingStore(s *Stores) models.MappingStore { return s.Mappings }
