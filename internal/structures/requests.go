package structures

import (
	"net/url"
	"time"
)

// TrackRequest carries the attribution fields of an inbound /track call.
// All fields are optional pass-through strings; presence is the only
// validation applied.
type TrackRequest struct {
	AppID  string
	Subs   [9]string
	CampID string
	Pixel  string
	Fbclid string
}

// ParseTrackRequest maps the /track query string onto an explicit schema.
func ParseTrackRequest(q url.Values) *TrackRequest {
	req := &TrackRequest{
		AppID:  q.Get("app_id"),
		CampID: q.Get("camp_id"),
		Pixel:  q.Get("pixel"),
		Fbclid: q.Get("fbclid"),
	}
	req.Subs[0] = q.Get("sub1")
	req.Subs[1] = q.Get("sub2")
	req.Subs[2] = q.Get("sub3")
	req.Subs[3] = q.Get("sub4")
	req.Subs[4] = q.Get("sub5")
	req.Subs[5] = q.Get("sub6")
	req.Subs[6] = q.Get("sub7")
	req.Subs[7] = q.Get("sub8")
	req.Subs[8] = q.Get("sub9")
	return req
}

// CheckRequest carries the single field of an inbound /check call.
type CheckRequest struct {
	AppID string
}

// StatsRequest is the filter of an /api/stats call. Nil times mean an
// open-ended window.
type StatsRequest struct {
	AppID string
	Start *time.Time
	End   *time.Time
}
