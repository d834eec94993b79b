package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weathermon-server/internal/regions"
)

const hourlyFixture = `{
	"hourly": {
		"time": ["2025-03-10T10:00", "2025-03-10T11:00", "2025-03-10T12:00"],
		"temperature_2m": [17.1, null, 18.4],
		"relative_humidity_2m": [60, 61, null],
		"wind_speed_10m": [null, null, null]
	}
}`

func TestFetchHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("latitude"); got != "44.7866" {
			t.Errorf("latitude = %q; want 44.7866", got)
		}
		if got := r.URL.Query().Get("hourly"); got == "" {
			t.Error("hourly variables missing from request")
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(hourlyFixture)); err != nil {
			t.Errorf("write fixture: %v", err)
		}
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.URL, srv.Client())
	region := regions.Region{Code: "belgrade", Name: "Belgrade", Latitude: 44.7866, Longitude: 20.4489}

	// hoursBack far in the past so the fixed fixture timestamps survive the
	// since filter.
	records, err := client.FetchHourly(context.Background(), region, 24*365*100)
	if err != nil {
		t.Fatalf("FetchHourly() err = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records; want 3", len(records))
	}

	first := records[0]
	if first.RegionCode != "belgrade" {
		t.Errorf("region = %q; want belgrade", first.RegionCode)
	}
	want := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v; want %v", first.Timestamp, want)
	}
	if v, ok := first.Metrics["temperature"]; !ok || v != 17.1 {
		t.Errorf("temperature = %v, %v; want 17.1", v, ok)
	}

	// Null cells leave the metric unset.
	if _, ok := records[1].Metrics["temperature"]; ok {
		t.Error("null temperature cell produced a value")
	}
	if v, ok := records[1].Metrics["humidity"]; !ok || v != 61 {
		t.Errorf("humidity = %v, %v; want 61", v, ok)
	}
	if _, ok := records[0].Metrics["wind_speed"]; ok {
		t.Error("all-null wind_speed column produced a value")
	}
}

func TestFetchHourlyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.URL, srv.Client())
	region := regions.Region{Code: "belgrade", Latitude: 44.7866, Longitude: 20.4489}

	if _, err := client.FetchHourly(context.Background(), region, 6); err == nil {
		t.Fatal("FetchHourly() err = nil; want error on 500")
	}
}

func TestConvertHourlySkipsOldAndEmptyHours(t *testing.T) {
	payload := hourlyPayload{Hourly: map[string]json.RawMessage{
		"time":           json.RawMessage(`["2025-03-10T10:00", "2025-03-10T11:00"]`),
		"temperature_2m": json.RawMessage(`[null, 18.4]`),
	}}

	since := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	records, err := convertHourly("belgrade", payload, since)
	if err != nil {
		t.Fatalf("convertHourly() err = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}
	if records[0].Metrics["temperature"] != 18.4 {
		t.Errorf("temperature = %v; want 18.4", records[0].Metrics["temperature"])
	}
}
