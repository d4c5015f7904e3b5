package controllers

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"leadtrack/internal/models"
	"leadtrack/internal/providers"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type MappingController struct {
	logger   providers.Logger
	mappings models.MappingStore
}

func NewMappingController(logger providers.Logger, mappings models.MappingStore) *MappingController {
	return &MappingController{
		logger:   logger,
		mappings: mappings,
	}
}

type appMappingPayload struct {
	AppID string `json:"app_id"`
	URL   string `json:"url"`
}

// UpsertAppMapping handles POST /api/mapping: binds a numeric app id to its
// redirect base URL, replacing any previous binding. The pair comes in as
// ?app_id&url query parameters; a JSON body works as a fallback.
func (mc *MappingController) UpsertAppMapping(w http.ResponseWriter, r *http.Request) {
	payload := appMappingPayload{
		AppID: r.URL.Query().Get("app_id"),
		URL:   r.URL.Query().Get("url"),
	}
	if payload.AppID == "" && payload.URL == "" {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			writeFailure(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	if payload.AppID == "" {
		writeFailure(w, http.StatusBadRequest, (&models.MissingFieldError{Field: "app_id"}).Error())
		return
	}
	if payload.URL == "" {
		writeFailure(w, http.StatusBadRequest, (&models.MissingFieldError{Field: "url"}).Error())
		return
	}

	mapping, err := mc.mappings.UpsertAppMapping(r.Context(), payload.AppID, payload.URL)
	if err != nil {
		mc.logger.Errorf(providers.TypePost, "Error saving app mapping: %s", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "Mapping saved", mapping)
}

// ListAppMappings handles GET /api/mappings. The single-key variant is
// ?app_id=..., which answers 404 when the id is unmapped.
func (mc *MappingController) ListAppMappings(w http.ResponseWriter, r *http.Request) {
	if appID := r.URL.Query().Get("app_id"); appID != "" {
		mapping, err := mc.mappings.GetAppMapping(r.Context(), appID)
		if err != nil {
			writeInternalError(w, err)
			return
		}
		if mapping == nil {
			writeFailure(w, http.StatusNotFound, "Mapping not found")
			return
		}
		writeSuccess(w, "", mapping)
		return
	}

	mappings, err := mc.mappings.ListAppMappings(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "", mappings)
}

type pixelTokenPayload struct {
	Pixel string `json:"pixel"`
	Token string `json:"token"`
}

// UpsertPixelToken handles POST /api/pixel-token. Like the app mapping
// upsert, the ?pixel&token query parameters win over the JSON body.
func (mc *MappingController) UpsertPixelToken(w http.ResponseWriter, r *http.Request) {
	payload := pixelTokenPayload{
		Pixel: r.URL.Query().Get("pixel"),
		Token: r.URL.Query().Get("token"),
	}
	if payload.Pixel == "" && payload.Token == "" {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			writeFailure(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	if payload.Pixel == "" {
		writeFailure(w, http.StatusBadRequest, (&models.MissingFieldError{Field: "pixel"}).Error())
		return
	}
	if payload.Token == "" {
		writeFailure(w, http.StatusBadRequest, (&models.MissingFieldError{Field: "token"}).Error())
		return
	}

	binding, err := mc.mappings.UpsertPixelToken(r.Context(), payload.Pixel, payload.Token)
	if err != nil {
		mc.logger.Errorf(providers.TypePost, "Error saving pixel token: %s", err)
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "Pixel token saved", binding)
}

// ListPixelTokens handles GET /api/pixel-tokens.
func (mc *MappingController) ListPixelTokens(w http.ResponseWriter, r *http.Request) {
	if pixel := r.URL.Query().Get("pixel"); pixel != "" {
		binding, err := mc.mappings.GetPixelToken(r.Context(), pixel)
		if err != nil {
			writeInternalError(w, err)
			return
		}
		if binding == nil {
			writeFailure(w, http.StatusNotFound, "Pixel token not found")
			return
		}
		writeSuccess(w, "", binding)
		return
	}

	bindings, err := mc.mappings.ListPixelTokens(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeSuccess(w, "", bindings)
}
