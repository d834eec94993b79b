package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func Test_parseSeriesQuery(t *testing.T) {
	t.Run("defaults with regions only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/weather-data?regions=belgrade", nil)
		q, err := parseSeriesQuery(req)
		if err != nil {
			t.Fatalf("parseSeriesQuery() err = %v; want nil", err)
		}
		if len(q.regions) != 1 || q.regions[0] != "belgrade" {
			t.Errorf("regions = %v; want [belgrade]", q.regions)
		}
		if q.metric != "temperature" {
			t.Errorf("metric = %q; want temperature", q.metric)
		}
		if q.hours != 24 {
			t.Errorf("hours = %d; want 24", q.hours)
		}
		if q.limit != 1000 {
			t.Errorf("limit = %d; want 1000", q.limit)
		}
		if q.withSummary {
			t.Error("withSummary = true; want false")
		}
	})

	t.Run("multiple regions trimmed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/weather-data?regions=belgrade,%20novi-sad,", nil)
		q, err := parseSeriesQuery(req)
		if err != nil {
			t.Fatalf("parseSeriesQuery() err = %v; want nil", err)
		}
		if len(q.regions) != 2 || q.regions[0] != "belgrade" || q.regions[1] != "novi-sad" {
			t.Errorf("regions = %v; want [belgrade novi-sad]", q.regions)
		}
	})

	t.Run("missing regions returns error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/weather-data", nil)
		if _, err := parseSeriesQuery(req); err == nil {
			t.Fatal("err = nil; want error for missing regions")
		}
	})

	t.Run("all params", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/api/weather-data?regions=nis&metric=humidity&hours=48&limit=50&summary=true", nil)
		q, err := parseSeriesQuery(req)
		if err != nil {
			t.Fatalf("parseSeriesQuery() err = %v; want nil", err)
		}
		if q.metric != "humidity" || q.hours != 48 || q.limit != 50 || !q.withSummary {
			t.Errorf("got %+v; want humidity/48/50/summary", q)
		}
	})

	t.Run("hours out of range", func(t *testing.T) {
		for _, hours := range []string{"0", "-1", "169"} {
			req := httptest.NewRequest(http.MethodGet, "/api/weather-data?regions=belgrade&hours="+hours, nil)
			if _, err := parseSeriesQuery(req); err == nil {
				t.Errorf("hours=%s: err = nil; want error", hours)
			}
		}
	})

	t.Run("limit out of range", func(t *testing.T) {
		for _, limit := range []string{"0", "-3", "1001", "abc"} {
			req := httptest.NewRequest(http.MethodGet, "/api/weather-data?regions=belgrade&limit="+limit, nil)
			if _, err := parseSeriesQuery(req); err == nil {
				t.Errorf("limit=%s: err = nil; want error", limit)
			}
		}
	})
}
