package services

import (
	"context"
	"regexp"
	"time"

	"leadtrack/internal/models"
	"leadtrack/internal/providers"
	"leadtrack/internal/structures"
	"leadtrack/internal/tracking"
)

var numericAppID = regexp.MustCompile(`^\d+$`)

// TrackResult is the outcome of a track event: the persisted lead plus the
// resolved redirect target, empty when the response should be a JSON
// confirmation instead of a redirect.
type TrackResult struct {
	Lead        *models.LeadRecord
	RedirectURL string
}

// CheckResult is the outcome of a check event.
type CheckResult struct {
	Record      *models.CheckRecord
	Matched     bool
	RedirectURL string
}

type TrackingServiceInterface interface {
	Track(ctx context.Context, req *structures.TrackRequest, ip, rawUserAgent string) (*TrackResult, error)
	Check(ctx context.Context, req *structures.CheckRequest, ip, rawUserAgent string) (*CheckResult, error)
}

// TrackingService composes the identity-resolution core: fingerprint
// normalization, click id generation, lead persistence, matching and
// redirect construction. Stores are injected; the service holds no state
// of its own.
type TrackingService struct {
	conf     *structures.Config
	logger   providers.Logger
	leads    models.LeadStore
	checks   models.CheckStore
	mappings models.MappingStore
	metrics  providers.MetricsProviderInterface
}

func NewTrackingService(
	conf *structures.Config,
	logger providers.Logger,
	leads models.LeadStore,
	checks models.CheckStore,
	mappings models.MappingStore,
	metrics providers.MetricsProviderInterface,
) TrackingServiceInterface {
	return &TrackingService{
		conf:     conf,
		logger:   logger,
		leads:    leads,
		checks:   checks,
		mappings: mappings,
		metrics:  metrics,
	}
}

func (ts *TrackingService) Track(ctx context.Context, req *structures.TrackRequest, ip, rawUserAgent string) (*TrackResult, error) {
	fingerprint := tracking.NormalizeFingerprint(rawUserAgent)
	ts.logger.Debugf(providers.TypeGet, "Track: app_id=%s ip=%s fingerprint=%s", req.AppID, ip, fingerprint)

	// Absent binding is not an error; the token simply stays empty.
	token := ""
	if req.Pixel != "" {
		binding, err := ts.mappings.GetPixelToken(ctx, req.Pixel)
		if err != nil {
			return nil, err
		}
		if binding != nil {
			token = binding.Token
			ts.logger.Debugf(providers.TypeGet, "Found token for pixel=%s: %s", req.Pixel, token)
		} else {
			ts.logger.Debugf(providers.TypeGet, "No token mapping found for pixel=%s", req.Pixel)
		}
	}

	clickID := tracking.GenerateClickID(tracking.EventTrack, req.AppID, ip, fingerprint)

	lead := &models.LeadRecord{
		AppID:       req.AppID,
		Sub1:        req.Subs[0],
		Sub2:        req.Subs[1],
		Sub3:        req.Subs[2],
		Sub4:        req.Subs[3],
		Sub5:        req.Subs[4],
		Sub6:        req.Subs[5],
		Sub7:        req.Subs[6],
		Sub8:        req.Subs[7],
		Sub9:        req.Subs[8],
		CampID:      req.CampID,
		Pixel:       req.Pixel,
		Token:       token,
		Fbclid:      req.Fbclid,
		IP:          ip,
		Fingerprint: fingerprint,
		ClickID:     clickID,
	}

	start := time.Now()
	if err := ts.leads.Insert(ctx, lead); err != nil {
		return nil, err
	}
	ts.metrics.ObserveStorageDuration("lead_insert", time.Since(start))
	ts.metrics.IncLeadsStored()
	ts.logger.Infof(providers.TypeGet, "Lead saved: app_id=%s camp_id=%s click_id=%s", lead.AppID, lead.CampID, lead.ClickID)

	redirectURL, err := ts.resolveTrackRedirect(ctx, req.AppID)
	if err != nil {
		return nil, err
	}

	return &TrackResult{Lead: lead, RedirectURL: redirectURL}, nil
}

// resolveTrackRedirect interprets app_id either as a registry key (numeric)
// or as a literal redirect URL (anything else). Numeric keys without a
// registered mapping resolve to no redirect at all.
func (ts *TrackingService) resolveTrackRedirect(ctx context.Context, appID string) (string, error) {
	if appID == "" {
		return "", nil
	}

	if !numericAppID.MatchString(appID) {
		return appID, nil
	}

	mapping, err := ts.mappings.GetAppMapping(ctx, appID)
	if err != nil {
		return "", err
	}
	if mapping == nil {
		ts.logger.Debugf(providers.TypeGet, "No mapping found for app_id=%s", appID)
		return "", nil
	}
	return mapping.URL, nil
}

func (ts *TrackingService) Check(ctx context.Context, req *structures.CheckRequest, ip, rawUserAgent string) (*CheckResult, error) {
	fingerprint := tracking.NormalizeFingerprint(rawUserAgent)
	clickID := tracking.GenerateClickID(tracking.EventCheck, req.AppID, ip, fingerprint)

	start := time.Now()
	lead, err := ts.leads.FindLatest(ctx, req.AppID, ip, fingerprint)
	if err != nil {
		return nil, err
	}
	ts.metrics.ObserveStorageDuration("lead_match", time.Since(start))

	record := &models.CheckRecord{
		AppID:       req.AppID,
		IP:          ip,
		Fingerprint: fingerprint,
		ClickID:     clickID,
	}

	if lead == nil {
		if err := ts.checks.Insert(ctx, record); err != nil {
			return nil, err
		}
		ts.metrics.IncChecks(false)
		ts.logger.Infof(providers.TypeGet, "Check saved (no lead found): app_id=%s ip=%s click_id=%s", req.AppID, ip, clickID)
		return &CheckResult{Record: record, Matched: false}, nil
	}

	redirectURL, err := tracking.BuildRedirectURL(lead, req.AppID, ts.conf.Tracking.RedirectBase)
	if err != nil {
		return nil, err
	}

	record.Matched = true
	record.LeadID = lead.ID
	record.RedirectURL = redirectURL
	if err := ts.checks.Insert(ctx, record); err != nil {
		return nil, err
	}
	ts.metrics.IncChecks(true)
	ts.logger.Infof(providers.TypeGet, "Check saved (lead %d matched): app_id=%s click_id=%s -> %s", lead.ID, req.AppID, clickID, redirectURL)

	return &CheckResult{Record: record, Matched: true, RedirectURL: redirectURL}, nil
}
