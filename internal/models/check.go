package models

import "time"

// CheckRecord is a persisted verification ("check") event outcome. LeadID
// is a weak reference to the matched LeadRecord; zero means no match. The
// relation is lookup-only and never enforced referentially.
type CheckRecord struct {
	ID          int64     `json:"id"`
	AppID       string    `json:"app_id"`
	IP          string    `json:"ip"`
	Fingerprint string    `json:"fingerprint"`
	ClickID     string    `json:"click_id"`
	Matched     bool      `json:"matched"`
	LeadID      int64     `json:"lead_id,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
