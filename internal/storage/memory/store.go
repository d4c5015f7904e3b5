package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"leadtrack/internal/models"
)

var _ models.MappingStore = (*Store)(nil)

// Store keeps all records in memory. Leads and checks are append-only
// slices; mappings are keyed maps. Durability comes from periodic zstd
// snapshots driven by the storage scheduler. The Leads() and Checks()
// views expose the two record kinds behind their repository interfaces.
type Store struct {
	mu          sync.RWMutex
	leads       []*models.LeadRecord
	checks      []*models.CheckRecord
	appMappings map[string]*models.AppMapping
	pixelTokens map[string]*models.PixelTokenBinding
	nextLeadID  int64
	nextCheckID int64
	dirty       atomic.Bool
}

func NewStore() *Store {
	return &Store{
		appMappings: make(map[string]*models.AppMapping),
		pixelTokens: make(map[string]*models.PixelTokenBinding),
		nextLeadID:  1,
		nextCheckID: 1,
	}
}

// Leads returns the lead-record view of the store.
func (s *Store) Leads() models.LeadStore { return leadView{s} }

// Checks returns the check-record view of the store.
func (s *Store) Checks() models.CheckStore { return checkView{s} }

// Dirty reports whether the store changed since the last ClearDirty.
func (s *Store) Dirty() bool {
	return s.dirty.Load()
}

func (s *Store) ClearDirty() {
	s.dirty.Store(false)
}

type leadView struct{ s *Store }

var _ models.LeadStore = leadView{}

func (v leadView) Insert(_ context.Context, lead *models.LeadRecord) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	lead.ID = s.nextLeadID
	s.nextLeadID++

	stored := *lead
	s.leads = append(s.leads, &stored)
	s.dirty.Store(true)
	return nil
}

func (v leadView) FindLatest(_ context.Context, appID, ip, fingerprint string) (*models.LeadRecord, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *models.LeadRecord
	for _, l := range s.leads {
		if l.AppID != appID || l.IP != ip || l.Fingerprint != fingerprint {
			continue
		}
		// !Before keeps the later insertion on equal timestamps
		if best == nil || !l.CreatedAt.Before(best.CreatedAt) {
			best = l
		}
	}
	if best == nil {
		return nil, nil
	}

	found := *best
	return &found, nil
}

func (v leadView) List(_ context.Context, filter models.RecordFilter) ([]*models.LeadRecord, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.LeadRecord, 0, len(s.leads))
	for _, l := range s.leads {
		if filter.Match(l.AppID, l.CreatedAt) {
			cp := *l
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (v leadView) Count(_ context.Context) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return int64(len(v.s.leads)), nil
}

type checkView struct{ s *Store }

var _ models.CheckStore = checkView{}

func (v checkView) Insert(_ context.Context, check *models.CheckRecord) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if check.CreatedAt.IsZero() {
		check.CreatedAt = time.Now()
	}
	check.ID = s.nextCheckID
	s.nextCheckID++

	stored := *check
	s.checks = append(s.checks, &stored)
	s.dirty.Store(true)
	return nil
}

func (v checkView) List(_ context.Context, filter models.RecordFilter) ([]*models.CheckRecord, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.CheckRecord, 0, len(s.checks))
	for _, c := range s.checks {
		if filter.Match(c.AppID, c.CreatedAt) {
			cp := *c
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (v checkView) Count(_ context.Context) (int64, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return int64(len(v.s.checks)), nil
}

func (s *Store) UpsertAppMapping(_ context.Context, appID, url string) (*models.AppMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	m, ok := s.appMappings[appID]
	if !ok {
		m = &models.AppMapping{AppID: appID, CreatedAt: now}
		s.appMappings[appID] = m
	}
	m.URL = url
	m.UpdatedAt = now
	s.dirty.Store(true)

	cp := *m
	return &cp, nil
}

func (s *Store) GetAppMapping(_ context.Context, appID string) (*models.AppMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.appMappings[appID]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *Store) ListAppMappings(_ context.Context) ([]*models.AppMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.AppMapping, 0, len(s.appMappings))
	for _, m := range s.appMappings {
		cp := *m
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AppID < result[j].AppID })
	return result, nil
}

func (s *Store) UpsertPixelToken(_ context.Context, pixel, token string) (*models.PixelTokenBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	b, ok := s.pixelTokens[pixel]
	if !ok {
		b = &models.PixelTokenBinding{Pixel: pixel, CreatedAt: now}
		s.pixelTokens[pixel] = b
	}
	b.Token = token
	b.UpdatedAt = now
	s.dirty.Store(true)

	cp := *b
	return &cp, nil
}

func (s *Store) GetPixelToken(_ context.Context, pixel string) (*models.PixelTokenBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.pixelTokens[pixel]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (s *Store) ListPixelTokens(_ context.Context) ([]*models.PixelTokenBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.PixelTokenBinding, 0, len(s.pixelTokens))
	for _, b := range s.pixelTokens {
		cp := *b
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Pixel < result[j].Pixel })
	return result, nil
}
