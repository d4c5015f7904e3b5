package controllers

import (
	"net/http"

	"leadtrack/internal/providers"
	"leadtrack/internal/tracking"
)

type CheckIPController struct{}

func NewCheckIPController() *CheckIPController {
	return &CheckIPController{}
}

// CheckIP handles GET /api/check-ip: echoes back the identity tuple the
// daemon would derive for this request, for debugging proxy setups.
func (cc *CheckIPController) CheckIP(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, "", map[string]string{
		"ip":              providers.ClientIP(r),
		"user_agent":      r.UserAgent(),
		"fingerprint":     tracking.NormalizeFingerprint(r.UserAgent()),
		"x_forwarded_for": r.Header.Get("X-Forwarded-For"),
		"x_real_ip":       r.Header.Get("X-Real-IP"),
	})
}
