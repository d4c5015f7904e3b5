package controllers

import (
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"leadtrack/internal/providers"
	"leadtrack/internal/services"
	"leadtrack/internal/structures"
)

type StatsController struct {
	logger  providers.Logger
	service services.StatsServiceInterface
	cache   providers.CacheProviderInterface
}

func NewStatsController(logger providers.Logger, service services.StatsServiceInterface, cache providers.CacheProviderInterface) *StatsController {
	return &StatsController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

// statsBound returns the raw window bound named "startDate"/"endDate",
// falling back to the short "start"/"end" aliases.
func statsBound(q url.Values, name, alias string) string {
	if raw := q.Get(name); raw != "" {
		return raw
	}
	return q.Get(alias)
}

// parseStatsRequest reads app_id and the optional startDate/endDate bounds
// (start/end are accepted as aliases). Dates come in either as RFC3339 or
// as a plain YYYY-MM-DD day; an end given as a day is widened to the end of
// that day so the range is inclusive.
func parseStatsRequest(r *http.Request) (*structures.StatsRequest, error) {
	q := r.URL.Query()
	req := &structures.StatsRequest{AppID: q.Get("app_id")}

	if raw := statsBound(q, "startDate", "start"); raw != "" {
		t, err := parseDate(raw, false)
		if err != nil {
			return nil, err
		}
		req.Start = &t
	}
	if raw := statsBound(q, "endDate", "end"); raw != "" {
		t, err := parseDate(raw, true)
		if err != nil {
			return nil, err
		}
		req.End = &t
	}
	return req, nil
}

func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return t, nil
}

func (sc *StatsController) GetStats(w http.ResponseWriter, r *http.Request) {
	req, err := parseStatsRequest(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	q := r.URL.Query()
	cacheKey := "stats:" + req.AppID + ":" + statsBound(q, "startDate", "start") + ":" + statsBound(q, "endDate", "end")
	if data, ok := sc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	report, err := sc.service.Aggregate(r.Context(), req)
	if err != nil {
		sc.logger.Errorf(providers.TypeGet, "Error aggregating stats: %s", err)
		writeInternalError(w, err)
		return
	}

	gson, err := json.Marshal(apiResponse{Success: true, Data: report})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}
