// Package service composes the region registry, observation store and stats
// aggregation into the read and ingest API the transport layers call.
package service

import (
	"fmt"
	"sort"
	"time"

	"weathermon-server/internal/modules/observations/repository"
	"weathermon-server/internal/modules/observations/stats"
	"weathermon-server/internal/modules/observations/types"
	"weathermon-server/internal/regions"
)

type Service struct {
	repo      repository.ObservationRepository
	registry  *regions.Registry
	maxHours  int
	maxPoints int
	now       func() time.Time
}

func NewService(repo repository.ObservationRepository, registry *regions.Registry, maxHours, maxPoints int) *Service {
	return &Service{
		repo:      repo,
		registry:  registry,
		maxHours:  maxHours,
		maxPoints: maxPoints,
		now:       time.Now,
	}
}

type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

type RegionSeries struct {
	RegionCode string         `json:"region_code"`
	RegionName string         `json:"region_name"`
	Color      string         `json:"color"`
	Points     []SeriesPoint  `json:"points"`
	Summary    *stats.Summary `json:"summary,omitempty"`
}

type SeriesMetadata struct {
	UnknownRegions []string `json:"unknown_regions"`
	Count          int      `json:"count"`
}

type SeriesResult struct {
	Metric   types.Metric   `json:"metric"`
	Hours    int            `json:"hours"`
	Series   []RegionSeries `json:"series"`
	Metadata SeriesMetadata `json:"metadata"`
}

// GetSeries returns the time-windowed series for the selected regions.
// Unknown region codes are reported in the metadata rather than failing the
// call, unless every requested code is unknown. Series order follows the
// first appearance of each region in the time-ordered result, not the
// caller's request order.
func (s *Service) GetSeries(codes []string, metricName string, hours, limit int, withSummary bool) (SeriesResult, error) {
	metric, err := types.ParseMetric(metricName)
	if err != nil {
		return SeriesResult{}, err
	}

	if len(codes) == 0 {
		return SeriesResult{}, types.ErrEmptySelection
	}
	valid, unknown := s.registry.Validate(codes)
	if len(valid) == 0 {
		return SeriesResult{}, fmt.Errorf("%w: %v", types.ErrNoValidRegions, unknown)
	}

	if hours <= 0 || hours > s.maxHours {
		return SeriesResult{}, fmt.Errorf("%w: hours must be between 1 and %d, got %d", types.ErrInvalidTimeRange, s.maxHours, hours)
	}
	if limit <= 0 || limit > s.maxPoints {
		limit = s.maxPoints
	}

	since := s.now().Add(-time.Duration(hours) * time.Hour)
	points, err := s.repo.QueryRange(valid, metric, since, limit)
	if err != nil {
		return SeriesResult{}, err
	}

	result := SeriesResult{
		Metric: metric,
		Hours:  hours,
		Metadata: SeriesMetadata{
			UnknownRegions: unknown,
			Count:          len(points),
		},
	}

	// Group by region in first-seen order of the time-ordered sequence.
	index := make(map[string]int)
	for _, p := range points {
		i, seen := index[p.RegionCode]
		if !seen {
			region, _ := s.registry.Get(p.RegionCode)
			result.Series = append(result.Series, RegionSeries{
				RegionCode: p.RegionCode,
				RegionName: region.Name,
				Color:      s.registry.Color(p.RegionCode),
			})
			i = len(result.Series) - 1
			index[p.RegionCode] = i
		}
		result.Series[i].Points = append(result.Series[i].Points, SeriesPoint{
			Timestamp: p.Timestamp,
			Value:     p.Value,
		})
	}

	if withSummary {
		for i := range result.Series {
			values := make([]float64, len(result.Series[i].Points))
			for j, p := range result.Series[i].Points {
				values[j] = p.Value
			}
			summary := stats.Summarize(values)
			result.Series[i].Summary = &summary
		}
	}

	return result, nil
}

type RegionStats struct {
	RegionCode string        `json:"region_code"`
	Summary    stats.Summary `json:"summary"`
}

type StatsResult struct {
	Metric   types.Metric   `json:"metric"`
	Hours    int            `json:"hours"`
	Stats    []RegionStats  `json:"statistics"`
	Metadata SeriesMetadata `json:"metadata"`
}

// GetStats returns per-region aggregate statistics over the time window.
// Statistics cover at most the newest maxPoints rows of the window, matching
// the series the dashboard renders. Output is ordered by region code.
func (s *Service) GetStats(codes []string, metricName string, hours int) (StatsResult, error) {
	series, err := s.GetSeries(codes, metricName, hours, s.maxPoints, false)
	if err != nil {
		return StatsResult{}, err
	}

	result := StatsResult{
		Metric:   series.Metric,
		Hours:    series.Hours,
		Metadata: series.Metadata,
	}
	for _, rs := range series.Series {
		values := make([]float64, len(rs.Points))
		for i, p := range rs.Points {
			values[i] = p.Value
		}
		result.Stats = append(result.Stats, RegionStats{
			RegionCode: rs.RegionCode,
			Summary:    stats.Summarize(values),
		})
	}
	sort.Slice(result.Stats, func(i, j int) bool {
		return result.Stats[i].RegionCode < result.Stats[j].RegionCode
	})
	return result, nil
}

// Latest returns the most recent observation for one region, nil when absent.
func (s *Service) Latest(regionCode string) (*types.Observation, error) {
	return s.repo.Latest(regionCode)
}
