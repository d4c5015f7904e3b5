package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/models"
	"leadtrack/internal/providers"
	"leadtrack/internal/storage/interfaces"
)

type snapTestLogger struct{}

func (m *snapTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *snapTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *snapTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *snapTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *snapTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *snapTestLogger) Close()                                                  {}

// identityCompressor passes bytes through unchanged.
type identityCompressor struct{}

func (identityCompressor) Compress(val []byte) ([]byte, error) {
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (identityCompressor) Decompress(val []byte) ([]byte, error) {
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (identityCompressor) Close() {}

var _ interfaces.CompressorInterface = identityCompressor{}

func populatedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	ctx := context.Background()

	at := time.Now().Truncate(time.Millisecond)
	require.NoError(t, s.Leads().Insert(ctx, &models.LeadRecord{AppID: "100001", IP: "1.1.1.1", Fingerprint: "fpA", CampID: "camp42", CreatedAt: at}))
	require.NoError(t, s.Leads().Insert(ctx, &models.LeadRecord{AppID: "100002", IP: "1.1.1.2", Fingerprint: "fpB", CreatedAt: at}))
	require.NoError(t, s.Checks().Insert(ctx, &models.CheckRecord{AppID: "100001", IP: "1.1.1.1", Fingerprint: "fpA", Matched: true, LeadID: 1, CreatedAt: at}))
	_, err := s.UpsertAppMapping(ctx, "100001", "https://app.appsflyer.com/id100001")
	require.NoError(t, err)
	_, err = s.UpsertPixelToken(ctx, "px1", "tok-abc")
	require.NoError(t, err)
	return s
}

func TestSnapshot_RoundTripThroughFile(t *testing.T) {
	src := populatedStore(t)
	file := filepath.Join(t.TempDir(), "store.snapshot")

	m := NewSnapshotManager(src, identityCompressor{}, &snapTestLogger{})
	require.NoError(t, m.SaveToFile(file))

	dst := NewStore()
	restored := NewSnapshotManager(dst, identityCompressor{}, &snapTestLogger{})
	require.NoError(t, restored.LoadFromFile(file))

	ctx := context.Background()
	leads, err := dst.Leads().List(ctx, models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "camp42", leads[0].CampID)

	checks, err := dst.Checks().List(ctx, models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Matched)
	assert.Equal(t, int64(1), checks[0].LeadID)

	mapping, err := dst.GetAppMapping(ctx, "100001")
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, "https://app.appsflyer.com/id100001", mapping.URL)

	binding, err := dst.GetPixelToken(ctx, "px1")
	require.NoError(t, err)
	require.NotNil(t, binding)
	assert.Equal(t, "tok-abc", binding.Token)
}

func TestSnapshot_RestoreContinuesIDSequence(t *testing.T) {
	src := populatedStore(t)
	file := filepath.Join(t.TempDir(), "store.snapshot")

	m := NewSnapshotManager(src, identityCompressor{}, &snapTestLogger{})
	require.NoError(t, m.SaveToFile(file))

	dst := NewStore()
	require.NoError(t, NewSnapshotManager(dst, identityCompressor{}, &snapTestLogger{}).LoadFromFile(file))

	lead := &models.LeadRecord{AppID: "100003", IP: "1.1.1.3", Fingerprint: "fpC"}
	require.NoError(t, dst.Leads().Insert(context.Background(), lead))
	assert.Equal(t, int64(3), lead.ID)
}

func TestSnapshot_MissingFileIsNotAnError(t *testing.T) {
	s := NewStore()
	m := NewSnapshotManager(s, identityCompressor{}, &snapTestLogger{})

	err := m.LoadFromFile(filepath.Join(t.TempDir(), "absent.snapshot"))
	assert.NoError(t, err)
}

func TestSnapshot_CorruptFileFails(t *testing.T) {
	file := filepath.Join(t.TempDir(), "corrupt.snapshot")
	require.NoError(t, os.WriteFile(file, []byte("not json at all"), 0644))

	s := NewStore()
	m := NewSnapshotManager(s, identityCompressor{}, &snapTestLogger{})
	assert.Error(t, m.LoadFromFile(file))
}

func TestSnapshot_TmpFileCleanedUpAfterSave(t *testing.T) {
	src := populatedStore(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "store.snapshot")

	m := NewSnapshotManager(src, identityCompressor{}, &snapTestLogger{})
	require.NoError(t, m.SaveToFile(file))

	_, err := os.Stat(file)
	assert.NoError(t, err)
	_, err = os.Stat(file + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
