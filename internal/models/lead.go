package models

import "time"

// LeadRecord is a persisted first-contact ("track") event. Records are
// append-only: nothing in the daemon ever mutates or deletes one after
// insertion, which is what makes later check events safe to match against.
type LeadRecord struct {
	ID          int64     `json:"id"`
	AppID       string    `json:"app_id"`
	Sub1        string    `json:"sub1,omitempty"`
	Sub2        string    `json:"sub2,omitempty"`
	Sub3        string    `json:"sub3,omitempty"`
	Sub4        string    `json:"sub4,omitempty"`
	Sub5        string    `json:"sub5,omitempty"`
	Sub6        string    `json:"sub6,omitempty"`
	Sub7        string    `json:"sub7,omitempty"`
	Sub8        string    `json:"sub8,omitempty"`
	Sub9        string    `json:"sub9,omitempty"`
	CampID      string    `json:"camp_id,omitempty"`
	Pixel       string    `json:"pixel,omitempty"`
	Token       string    `json:"token,omitempty"`
	Fbclid      string    `json:"fbclid,omitempty"`
	IP          string    `json:"ip"`
	Fingerprint string    `json:"fingerprint"`
	ClickID     string    `json:"click_id"`
	CreatedAt   time.Time `json:"created_at"`
}
