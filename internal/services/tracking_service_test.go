package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/models"
	"leadtrack/internal/providers"
	"leadtrack/internal/storage/memory"
	"leadtrack/internal/structures"
)

// local mocks to avoid import cycle with testutil

type svcTestLogger struct{}

func (m *svcTestLogger) Errorf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *svcTestLogger) Warnf(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *svcTestLogger) Debugf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *svcTestLogger) Infof(_ providers.TypeEnum, _ string, _ ...interface{})  {}
func (m *svcTestLogger) Fatalf(_ providers.TypeEnum, _ string, _ ...interface{}) {}
func (m *svcTestLogger) Close()                                                  {}

type svcTestMetrics struct {
	leadsStored     int
	checksMatched   int
	checksUnmatched int
}

func (m *svcTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *svcTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *svcTestMetrics) IncCacheHits()                                    {}
func (m *svcTestMetrics) IncCacheMisses()                                  {}
func (m *svcTestMetrics) IncLeadsStored()                                  { m.leadsStored++ }
func (m *svcTestMetrics) IncChecks(matched bool) {
	if matched {
		m.checksMatched++
	} else {
		m.checksUnmatched++
	}
}
func (m *svcTestMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}

func newTestService() (TrackingServiceInterface, *memory.Store, *svcTestMetrics) {
	store := memory.NewStore()
	conf := &structures.Config{
		Tracking: structures.TrackingConfig{RedirectBase: "https://app.appsflyer.com"},
	}
	metrics := &svcTestMetrics{}
	svc := NewTrackingService(conf, &svcTestLogger{}, store.Leads(), store.Checks(), store, metrics)
	return svc, store, metrics
}

const testUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

func trackReq(appID, campID string) *structures.TrackRequest {
	return &structures.TrackRequest{AppID: appID, CampID: campID}
}

func TestTrack_PersistsNormalizedLead(t *testing.T) {
	svc, store, metrics := newTestService()

	result, err := svc.Track(context.Background(), trackReq("100001", "camp42"), "203.0.113.7", testUA)
	require.NoError(t, err)

	assert.Equal(t, "X11; Linux x86_64", result.Lead.Fingerprint)
	assert.True(t, strings.HasPrefix(result.Lead.ClickID, "track-"))
	assert.False(t, result.Lead.CreatedAt.IsZero())

	leads, err := store.Leads().List(context.Background(), models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "camp42", leads[0].CampID)
	assert.Equal(t, 1, metrics.leadsStored)
}

func TestTrack_NonNumericAppIDIsRedirectURL(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.Track(context.Background(), trackReq("https://example.com/land", ""), "1.2.3.4", testUA)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/land", result.RedirectURL)
}

func TestTrack_NumericAppIDResolvesMapping(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := store.UpsertAppMapping(context.Background(), "100001", "https://app.appsflyer.com/id100001")
	require.NoError(t, err)

	result, err := svc.Track(context.Background(), trackReq("100001", ""), "1.2.3.4", testUA)
	require.NoError(t, err)
	assert.Equal(t, "https://app.appsflyer.com/id100001", result.RedirectURL)
}

func TestTrack_NumericAppIDWithoutMappingNoRedirect(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.Track(context.Background(), trackReq("999999", ""), "1.2.3.4", testUA)
	require.NoError(t, err)
	assert.Empty(t, result.RedirectURL)
}

func TestTrack_PixelTokenLookup(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := store.UpsertPixelToken(context.Background(), "px1", "tok-abc")
	require.NoError(t, err)

	req := trackReq("100001", "camp42")
	req.Pixel = "px1"
	result, err := svc.Track(context.Background(), req, "1.2.3.4", testUA)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", result.Lead.Token)
}

func TestTrack_UnboundPixelLeavesTokenEmpty(t *testing.T) {
	svc, _, _ := newTestService()

	req := trackReq("100001", "camp42")
	req.Pixel = "px-unbound"
	result, err := svc.Track(context.Background(), req, "1.2.3.4", testUA)
	require.NoError(t, err)
	assert.Empty(t, result.Lead.Token)
}

func TestCheck_MatchesLatestLeadByIdentity(t *testing.T) {
	svc, _, metrics := newTestService()

	_, err := svc.Track(context.Background(), trackReq("100001", "campOld"), "203.0.113.7", testUA)
	require.NoError(t, err)
	_, err = svc.Track(context.Background(), trackReq("100001", "campNew"), "203.0.113.7", testUA)
	require.NoError(t, err)

	result, err := svc.Check(context.Background(), &structures.CheckRequest{AppID: "100001"}, "203.0.113.7", testUA)
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.Contains(t, result.RedirectURL, "/campNew?")
	assert.Equal(t, 1, metrics.checksMatched)
}

func TestCheck_IdentityTupleMustMatchExactly(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Track(context.Background(), trackReq("100001", "camp42"), "203.0.113.7", testUA)
	require.NoError(t, err)

	cases := []struct {
		name  string
		appID string
		ip    string
		ua    string
	}{
		{"different app", "100002", "203.0.113.7", testUA},
		{"different ip", "100001", "203.0.113.8", testUA},
		{"different fingerprint", "100001", "203.0.113.7", "Mozilla/5.0 (Windows NT 10.0) Chrome/120"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Check(context.Background(), &structures.CheckRequest{AppID: tt.appID}, tt.ip, tt.ua)
			require.NoError(t, err)
			assert.False(t, result.Matched)
		})
	}
}

func TestCheck_NoMatchPersistsRecord(t *testing.T) {
	svc, store, metrics := newTestService()

	result, err := svc.Check(context.Background(), &structures.CheckRequest{AppID: "100001"}, "203.0.113.7", testUA)
	require.NoError(t, err)

	assert.False(t, result.Matched)
	assert.Empty(t, result.RedirectURL)
	assert.True(t, strings.HasPrefix(result.Record.ClickID, "check-"))

	checks, err := store.Checks().List(context.Background(), models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.False(t, checks[0].Matched)
	assert.Zero(t, checks[0].LeadID)
	assert.Equal(t, 1, metrics.checksUnmatched)
}

func TestCheck_MatchPersistsRecordWithLeadRef(t *testing.T) {
	svc, store, _ := newTestService()

	trackResult, err := svc.Track(context.Background(), trackReq("100001", "camp42"), "203.0.113.7", testUA)
	require.NoError(t, err)

	result, err := svc.Check(context.Background(), &structures.CheckRequest{AppID: "100001"}, "203.0.113.7", testUA)
	require.NoError(t, err)

	checks, err := store.Checks().List(context.Background(), models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Matched)
	assert.Equal(t, trackResult.Lead.ID, checks[0].LeadID)
	assert.Equal(t, result.RedirectURL, checks[0].RedirectURL)
}

func TestCheck_MatchedLeadWithoutCampID(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.Track(context.Background(), trackReq("100001", ""), "203.0.113.7", testUA)
	require.NoError(t, err)

	_, err = svc.Check(context.Background(), &structures.CheckRequest{AppID: "100001"}, "203.0.113.7", testUA)
	assert.ErrorIs(t, err, models.ErrMissingCampaignID)

	// The failed check leaves no record behind.
	checks, err := store.Checks().List(context.Background(), models.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, checks)
}

func TestCheck_UnknownUserAgentStillMatches(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Track(context.Background(), trackReq("100001", "camp42"), "203.0.113.7", "")
	require.NoError(t, err)

	result, err := svc.Check(context.Background(), &structures.CheckRequest{AppID: "100001"}, "203.0.113.7", "")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, "unknown", result.Record.Fingerprint)
}
