package controllers

import (
	"net/http"

	"leadtrack/internal/providers"
	"leadtrack/internal/services"
	"leadtrack/internal/structures"
)

type TrackController struct {
	logger  providers.Logger
	service services.TrackingServiceInterface
}

func NewTrackController(logger providers.Logger, service services.TrackingServiceInterface) *TrackController {
	return &TrackController{
		logger:  logger,
		service: service,
	}
}

// Track handles GET /track: persists the lead and either redirects to the
// resolved target or confirms the capture with JSON.
func (tc *TrackController) Track(w http.ResponseWriter, r *http.Request) {
	req := structures.ParseTrackRequest(r.URL.Query())
	ip := providers.ClientIP(r)

	result, err := tc.service.Track(r.Context(), req, ip, r.UserAgent())
	if err != nil {
		tc.logger.Errorf(providers.TypeGet, "Error tracking lead: %s", err)
		writeInternalError(w, err)
		return
	}

	if result.RedirectURL != "" {
		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
		return
	}

	writeSuccess(w, "Lead tracked successfully", map[string]string{
		"app_id":      result.Lead.AppID,
		"camp_id":     result.Lead.CampID,
		"pixel":       result.Lead.Pixel,
		"token":       result.Lead.Token,
		"fbclid":      result.Lead.Fbclid,
		"ip":          result.Lead.IP,
		"fingerprint": result.Lead.Fingerprint,
		"click_id":    result.Lead.ClickID,
	})
}
