package memory

import (
	"os"

	json "github.com/goccy/go-json"

	"leadtrack/internal/models"
	"leadtrack/internal/providers"
	"leadtrack/internal/storage/interfaces"
)

// SnapshotData is the on-disk format of a memory store: version envelope
// plus every record table. Leads and checks are written in insertion order
// so a restore reproduces the original IDs and tie-break behavior.
type SnapshotData struct {
	Version     int                         `json:"version"`
	Leads       []*models.LeadRecord        `json:"leads"`
	Checks      []*models.CheckRecord       `json:"checks"`
	AppMappings []*models.AppMapping        `json:"app_mappings"`
	PixelTokens []*models.PixelTokenBinding `json:"pixel_tokens"`
}

const snapshotVersion = 1

// Snapshot copies the full store contents for persistence.
func (s *Store) Snapshot() *SnapshotData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &SnapshotData{
		Version:     snapshotVersion,
		Leads:       make([]*models.LeadRecord, len(s.leads)),
		Checks:      make([]*models.CheckRecord, len(s.checks)),
		AppMappings: make([]*models.AppMapping, 0, len(s.appMappings)),
		PixelTokens: make([]*models.PixelTokenBinding, 0, len(s.pixelTokens)),
	}
	for i, l := range s.leads {
		cp := *l
		snap.Leads[i] = &cp
	}
	for i, c := range s.checks {
		cp := *c
		snap.Checks[i] = &cp
	}
	for _, m := range s.appMappings {
		cp := *m
		snap.AppMappings = append(snap.AppMappings, &cp)
	}
	for _, b := range s.pixelTokens {
		cp := *b
		snap.PixelTokens = append(snap.PixelTokens, &cp)
	}
	return snap
}

// PutSnapshot replaces the store contents with a loaded snapshot.
func (s *Store) PutSnapshot(snap *SnapshotData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leads = snap.Leads
	s.checks = snap.Checks
	s.appMappings = make(map[string]*models.AppMapping, len(snap.AppMappings))
	for _, m := range snap.AppMappings {
		s.appMappings[m.AppID] = m
	}
	s.pixelTokens = make(map[string]*models.PixelTokenBinding, len(snap.PixelTokens))
	for _, b := range snap.PixelTokens {
		s.pixelTokens[b.Pixel] = b
	}

	s.nextLeadID = 1
	for _, l := range s.leads {
		if l.ID >= s.nextLeadID {
			s.nextLeadID = l.ID + 1
		}
	}
	s.nextCheckID = 1
	for _, c := range s.checks {
		if c.ID >= s.nextCheckID {
			s.nextCheckID = c.ID + 1
		}
	}
}

// SnapshotManager persists the store to a zstd-compressed JSON file and
// restores it on boot. Writes go through a temp file and rename so a crash
// mid-save never corrupts the previous snapshot.
type SnapshotManager struct {
	store      *Store
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewSnapshotManager(store *Store, compressor interfaces.CompressorInterface, logger providers.Logger) *SnapshotManager {
	return &SnapshotManager{
		store:      store,
		compressor: compressor,
		logger:     logger,
	}
}

func (m *SnapshotManager) SaveToFile(fileName string) error {
	jsonData, err := json.Marshal(m.store.Snapshot())
	if err != nil {
		return err
	}
	data, err := m.compressor.Compress(jsonData)
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

func (m *SnapshotManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := m.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap SnapshotData
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		return err
	}
	m.store.PutSnapshot(&snap)
	return nil
}

func (m *SnapshotManager) Close() {
	m.compressor.Close()
}
