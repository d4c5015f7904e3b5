package controllers

import (
	"errors"
	"net/http"

	"leadtrack/internal/models"
	"leadtrack/internal/providers"
	"leadtrack/internal/services"
	"leadtrack/internal/structures"
)

type CheckController struct {
	logger  providers.Logger
	service services.TrackingServiceInterface
}

func NewCheckController(logger providers.Logger, service services.TrackingServiceInterface) *CheckController {
	return &CheckController{
		logger:  logger,
		service: service,
	}
}

// Check handles GET /check: re-identifies the visitor and redirects to the
// reconstructed affiliate URL. A failed match is a defined outcome, not an
// error: the check record is persisted and the response is a 404 with
// diagnostic JSON.
func (cc *CheckController) Check(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("app_id")
	if appID == "" {
		writeFailure(w, http.StatusBadRequest, (&models.MissingFieldError{Field: "app_id"}).Error())
		return
	}

	req := &structures.CheckRequest{AppID: appID}
	ip := providers.ClientIP(r)

	result, err := cc.service.Check(r.Context(), req, ip, r.UserAgent())
	if err != nil {
		if errors.Is(err, models.ErrMissingCampaignID) {
			writeFailure(w, http.StatusBadRequest, err.Error())
			return
		}
		cc.logger.Errorf(providers.TypeGet, "Error checking lead: %s", err)
		writeInternalError(w, err)
		return
	}

	if !result.Matched {
		writeJSON(w, http.StatusNotFound, apiResponse{
			Success: false,
			Message: "Lead not found for this IP and User-Agent",
			Data: map[string]string{
				"app_id":       result.Record.AppID,
				"ip":           result.Record.IP,
				"fingerprint":  result.Record.Fingerprint,
				"checkClickId": result.Record.ClickID,
			},
		})
		return
	}

	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}
