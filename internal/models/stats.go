package models

// TrackStats are the aggregate counters over LeadRecords.
type TrackStats struct {
	Total  int `json:"total"`
	Unique int `json:"unique"`
}

// CheckStats are the aggregate counters over CheckRecords.
type CheckStats struct {
	Total    int `json:"total"`
	Unique   int `json:"unique"`
	Found    int `json:"found"`
	NotFound int `json:"notFound"`
}

// AppTrackStats is the per-app breakdown of track events.
type AppTrackStats struct {
	AppID        string `json:"app_id"`
	TotalClicks  int    `json:"totalClicks"`
	UniqueClicks int    `json:"uniqueClicks"`
}

// AppCheckStats is the per-app breakdown of check events.
type AppCheckStats struct {
	AppID         string `json:"app_id"`
	TotalClicks   int    `json:"totalClicks"`
	UniqueClicks  int    `json:"uniqueClicks"`
	FoundLeads    int    `json:"foundLeads"`
	NotFoundLeads int    `json:"notFoundLeads"`
}

// AppBreakdown groups the per-app stats, each sorted by descending total.
type AppBreakdown struct {
	Track []AppTrackStats `json:"track"`
	Check []AppCheckStats `json:"check"`
}

// StatsReport is the read-side aggregation served by /api/stats. Unique
// counts are distinct (app_id, ip, fingerprint) tuples, not distinct click
// ids: the click id folds in a minute bucket and would undercount visitors
// whose hits straddle bucket boundaries.
type StatsReport struct {
	Track   TrackStats   `json:"track"`
	Check   CheckStats   `json:"check"`
	ByAppID AppBreakdown `json:"byAppId"`
}
