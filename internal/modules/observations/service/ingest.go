package service

import (
	"errors"
	"fmt"
	"time"

	"weathermon-server/internal/modules/observations/types"
)

// IngestResult is the per-record outcome reported back to ingestion callers
// so they can re-submit just the failed subset.
type IngestResult struct {
	RegionCode string    `json:"region_code"`
	Timestamp  time.Time `json:"timestamp"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	Retryable  bool      `json:"retryable,omitempty"`
}

const outcomeRejected = "rejected"

// Ingest converts raw provider records into observations and applies them as
// a batch. Records with an unknown region, unknown metric name, missing
// timestamp or no values at all are rejected individually; the rest of the
// batch is still applied, in caller order.
func (s *Service) Ingest(records []types.RawObservation) []IngestResult {
	results := make([]IngestResult, len(records))
	batch := make([]types.Observation, 0, len(records))
	batchIdx := make([]int, 0, len(records))

	for i, rec := range records {
		results[i] = IngestResult{
			RegionCode: rec.RegionCode,
			Timestamp:  rec.Timestamp.UTC().Truncate(time.Second),
		}

		o, err := s.convertRaw(rec)
		if err != nil {
			results[i].Outcome = outcomeRejected
			results[i].Error = err.Error()
			continue
		}
		batch = append(batch, o)
		batchIdx = append(batchIdx, i)
	}

	for j, br := range s.repo.UpsertBatch(batch) {
		i := batchIdx[j]
		if br.Err != nil {
			results[i].Outcome = outcomeRejected
			results[i].Error = br.Err.Error()
			results[i].Retryable = errors.Is(br.Err, types.ErrStorageUnavailable)
			continue
		}
		results[i].Outcome = string(br.Outcome)
	}
	return results
}

func (s *Service) convertRaw(rec types.RawObservation) (types.Observation, error) {
	if _, ok := s.registry.Get(rec.RegionCode); !ok {
		return types.Observation{}, fmt.Errorf("unknown region %q", rec.RegionCode)
	}
	if rec.Timestamp.IsZero() {
		return types.Observation{}, fmt.Errorf("missing timestamp")
	}

	o := types.Observation{
		RegionCode: rec.RegionCode,
		Timestamp:  rec.Timestamp,
	}
	for name, value := range rec.Metrics {
		metric, err := types.ParseMetric(name)
		if err != nil {
			return types.Observation{}, err
		}
		o.SetValue(metric, value)
	}
	if !o.HasValues() {
		return types.Observation{}, fmt.Errorf("record has no metric values")
	}
	return o, nil
}
