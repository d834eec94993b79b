// Package provider pulls hourly observations from the Open-Meteo forecast API
// and converts them into the store's record shape.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"weathermon-server/internal/modules/observations/types"
	"weathermon-server/internal/regions"
)

// hourlyVariables maps Open-Meteo hourly variable names to metric names.
// Order matters only for the request string.
var hourlyVariables = []struct {
	apiName string
	metric  types.Metric
}{
	{"temperature_2m", types.MetricTemperature},
	{"dew_point_2m", types.MetricDewpoint},
	{"relative_humidity_2m", types.MetricHumidity},
	{"precipitation", types.MetricPrecipitation},
	{"snow_depth", types.MetricSnowDepth},
	{"wind_direction_10m", types.MetricWindDirection},
	{"wind_speed_10m", types.MetricWindSpeed},
	{"wind_gusts_10m", types.MetricWindGust},
	{"surface_pressure", types.MetricPressure},
	{"sunshine_duration", types.MetricSunshine},
	{"cloud_cover", types.MetricCloudCover},
}

type OpenMeteoClient struct {
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoClient(baseURL string, client *http.Client) *OpenMeteoClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &OpenMeteoClient{baseURL: baseURL, client: client, circuit: cb}
}

// FetchHourly returns hourly records for the region covering the last
// hoursBack hours. Hours where the API reports no value for a variable leave
// that metric unset.
func (c *OpenMeteoClient) FetchHourly(ctx context.Context, region regions.Region, hoursBack int) ([]types.RawObservation, error) {
	if hoursBack <= 0 {
		return nil, fmt.Errorf("fetch hourly: hoursBack must be > 0, got %d", hoursBack)
	}

	names := make([]string, len(hourlyVariables))
	for i, v := range hourlyVariables {
		names[i] = v.apiName
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", region.Latitude))
	values.Set("longitude", fmt.Sprintf("%.4f", region.Longitude))
	values.Set("hourly", strings.Join(names, ","))
	values.Set("past_days", fmt.Sprintf("%d", (hoursBack+23)/24))
	values.Set("forecast_days", "1")
	values.Set("timezone", "UTC")

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch hourly: build request: %w", err)
	}

	result, err := c.circuit.Execute(func() (any, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var payload hourlyPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch hourly %s: %w", region.Code, err)
	}

	payload := result.(hourlyPayload)
	return convertHourly(region.Code, payload, time.Now().UTC().Add(-time.Duration(hoursBack)*time.Hour))
}

type hourlyPayload struct {
	Hourly map[string]json.RawMessage `json:"hourly"`
}

// convertHourly turns the columnar hourly arrays into per-hour records,
// keeping only hours at or after since.
func convertHourly(regionCode string, payload hourlyPayload, since time.Time) ([]types.RawObservation, error) {
	var times []string
	if raw, ok := payload.Hourly["time"]; ok {
		if err := json.Unmarshal(raw, &times); err != nil {
			return nil, fmt.Errorf("convert hourly: time axis: %w", err)
		}
	}
	if len(times) == 0 {
		return nil, nil
	}

	columns := make(map[types.Metric][]*float64, len(hourlyVariables))
	for _, v := range hourlyVariables {
		raw, ok := payload.Hourly[v.apiName]
		if !ok {
			continue
		}
		var col []*float64
		if err := json.Unmarshal(raw, &col); err != nil {
			return nil, fmt.Errorf("convert hourly: column %s: %w", v.apiName, err)
		}
		columns[v.metric] = col
	}

	out := make([]types.RawObservation, 0, len(times))
	for i, tsStr := range times {
		// Open-Meteo emits minute-precision local times, e.g. 2025-03-10T12:00.
		ts, err := time.Parse("2006-01-02T15:04", tsStr)
		if err != nil {
			return nil, fmt.Errorf("convert hourly: timestamp %q: %w", tsStr, err)
		}
		ts = ts.UTC()
		if ts.Before(since) {
			continue
		}

		obs := types.RawObservation{
			RegionCode: regionCode,
			Timestamp:  ts,
			Metrics:    make(map[string]float64),
		}
		for metric, col := range columns {
			if i < len(col) && col[i] != nil {
				obs.Metrics[string(metric)] = *col[i]
			}
		}
		if len(obs.Metrics) == 0 {
			continue
		}
		out = append(out, obs)
	}
	return out, nil
}
