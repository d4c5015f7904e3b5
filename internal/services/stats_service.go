package services

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"leadtrack/internal/models"
	"leadtrack/internal/structures"
)

type StatsServiceInterface interface {
	Aggregate(ctx context.Context, req *structures.StatsRequest) (*models.StatsReport, error)
}

// StatsService computes the read-side aggregation over both record stores.
// It is a pure batch computation and never mutates the stores.
type StatsService struct {
	leads  models.LeadStore
	checks models.CheckStore
}

func NewStatsService(leads models.LeadStore, checks models.CheckStore) StatsServiceInterface {
	return &StatsService{leads: leads, checks: checks}
}

// identityKey joins the cross-request correlation tuple with NUL bytes so
// distinct tuples can never collapse into the same key.
func identityKey(appID, ip, fingerprint string) string {
	return appID + "\x00" + ip + "\x00" + fingerprint
}

func (ss *StatsService) Aggregate(ctx context.Context, req *structures.StatsRequest) (*models.StatsReport, error) {
	filter := models.RecordFilter{AppID: req.AppID, Start: req.Start, End: req.End}

	leads, err := ss.leads.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	checks, err := ss.checks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &models.StatsReport{
		Track: models.TrackStats{
			Total: len(leads),
			Unique: len(lo.UniqBy(leads, func(l *models.LeadRecord) string {
				return identityKey(l.AppID, l.IP, l.Fingerprint)
			})),
		},
		Check: models.CheckStats{
			Total: len(checks),
			Unique: len(lo.UniqBy(checks, func(c *models.CheckRecord) string {
				return identityKey(c.AppID, c.IP, c.Fingerprint)
			})),
			Found:    lo.CountBy(checks, func(c *models.CheckRecord) bool { return c.Matched }),
			NotFound: lo.CountBy(checks, func(c *models.CheckRecord) bool { return !c.Matched }),
		},
	}

	report.ByAppID.Track = trackBreakdown(leads)
	report.ByAppID.Check = checkBreakdown(checks)

	return report, nil
}

func trackBreakdown(leads []*models.LeadRecord) []models.AppTrackStats {
	grouped := lo.GroupBy(leads, func(l *models.LeadRecord) string { return l.AppID })

	result := make([]models.AppTrackStats, 0, len(grouped))
	for appID, group := range grouped {
		result = append(result, models.AppTrackStats{
			AppID:       appID,
			TotalClicks: len(group),
			UniqueClicks: len(lo.UniqBy(group, func(l *models.LeadRecord) string {
				return identityKey(l.AppID, l.IP, l.Fingerprint)
			})),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalClicks != result[j].TotalClicks {
			return result[i].TotalClicks > result[j].TotalClicks
		}
		return result[i].AppID < result[j].AppID
	})
	return result
}

func checkBreakdown(checks []*models.CheckRecord) []models.AppCheckStats {
	grouped := lo.GroupBy(checks, func(c *models.CheckRecord) string { return c.AppID })

	result := make([]models.AppCheckStats, 0, len(grouped))
	for appID, group := range grouped {
		result = append(result, models.AppCheckStats{
			AppID:       appID,
			TotalClicks: len(group),
			UniqueClicks: len(lo.UniqBy(group, func(c *models.CheckRecord) string {
				return identityKey(c.AppID, c.IP, c.Fingerprint)
			})),
			FoundLeads:    lo.CountBy(group, func(c *models.CheckRecord) bool { return c.Matched }),
			NotFoundLeads: lo.CountBy(group, func(c *models.CheckRecord) bool { return !c.Matched }),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalClicks != result[j].TotalClicks {
			return result[i].TotalClicks > result[j].TotalClicks
		}
		return result[i].AppID < result[j].AppID
	})
	return result
}
