package controller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"weathermon-server/internal/modules/observations/types"
	"weathermon-server/internal/utils"
)

type regionInfo struct {
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Color      string     `json:"color"`
	LastUpdate *time.Time `json:"last_update"`
}

func (c *observationsControllerImpl) handleRegions(w http.ResponseWriter, r *http.Request) {
	all := c.registry.All()
	out := make([]regionInfo, 0, len(all))
	for _, region := range all {
		info := regionInfo{
			Code:      region.Code,
			Name:      region.Name,
			Latitude:  region.Latitude,
			Longitude: region.Longitude,
			Color:     c.registry.Color(region.Code),
		}
		latest, err := c.service.Latest(region.Code)
		if err != nil {
			slog.Error("regions: latest lookup failed", "region", region.Code, "error", err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to load regions")
			return
		}
		if latest != nil {
			ts := latest.Timestamp
			info.LastUpdate = &ts
		}
		out = append(out, info)
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (c *observationsControllerImpl) handleWeatherData(w http.ResponseWriter, r *http.Request) {
	q, err := parseSeriesQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := c.service.GetSeries(q.regions, q.metric, q.hours, q.limit, q.withSummary)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (c *observationsControllerImpl) handleStats(w http.ResponseWriter, r *http.Request) {
	q, err := parseSeriesQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := c.service.GetStats(q.regions, q.metric, q.hours)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (c *observationsControllerImpl) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.service.Health())
}

func (c *observationsControllerImpl) handleIngest(w http.ResponseWriter, r *http.Request) {
	var batch types.IngestBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(batch.Observations) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "observations list is empty")
		return
	}

	results := c.service.Ingest(batch.Observations)
	utils.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}

// writeServiceError maps the service error taxonomy to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidMetric),
		errors.Is(err, types.ErrInvalidTimeRange),
		errors.Is(err, types.ErrEmptySelection),
		errors.Is(err, types.ErrNoValidRegions):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrStorageUnavailable):
		slog.Error("storage unavailable", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		slog.Error("request failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
