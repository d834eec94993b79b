package repository

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"weathermon-server/internal/modules/observations/types"
)

//go:embed sql/upsert-observation.sql
var upsertObservationSQL string

//go:embed sql/observation-exists.sql
var observationExistsSQL string

//go:embed sql/get-latest-observation.sql
var getLatestObservationSQL string

//go:embed sql/query-range.sql
var queryRangeSQLTemplate string

//go:embed sql/get-status.sql
var getStatusSQL string

// ObservationRepository is the durable store for weather observations, keyed
// by (region_code, timestamp) unique.
type ObservationRepository interface {
	// Upsert writes one observation. An existing (region_code, timestamp)
	// row is overwritten: last write wins.
	Upsert(o types.Observation) (types.UpsertOutcome, error)
	// UpsertBatch applies Upsert per record. A failure does not roll back
	// previously applied records; outcomes are reported per record.
	UpsertBatch(obs []types.Observation) []types.BatchResult
	// QueryRange returns rows with a non-null value for metric, ts >= since,
	// for the given regions, ordered by timestamp ascending. When more than
	// limit rows match, the newest limit rows are kept.
	QueryRange(regionCodes []string, metric types.Metric, since time.Time, limit int) ([]types.MetricPoint, error)
	// Latest returns the most recent observation for a region, nil when the
	// region has no data.
	Latest(regionCode string) (*types.Observation, error)
	// Status reports the total row count and the newest timestamp (nil when
	// the store is empty).
	Status() (total int, lastUpdate *time.Time, err error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ObservationRepository {
	return &repositoryImpl{db: db}
}

// tsFormat is the stored timestamp layout: UTC, second precision.
const tsFormat = time.RFC3339

func formatTS(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(tsFormat)
}

func parseTS(s string) (time.Time, error) {
	t, err := time.Parse(tsFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// storageErr tags driver failures so callers can errors.Is against
// types.ErrStorageUnavailable while keeping the underlying cause.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(types.ErrStorageUnavailable, err))
}

func (r *repositoryImpl) Upsert(o types.Observation) (types.UpsertOutcome, error) {
	if o.RegionCode == "" {
		return "", fmt.Errorf("upsert: empty region code")
	}
	if o.Timestamp.IsZero() {
		return "", fmt.Errorf("upsert: zero timestamp")
	}
	ts := formatTS(o.Timestamp)

	// The outcome is best-effort under concurrent writers; the write itself
	// serializes on the primary key regardless.
	var exists bool
	if err := r.db.QueryRow(observationExistsSQL, o.RegionCode, ts).Scan(&exists); err != nil {
		return "", storageErr("upsert: exists check", err)
	}

	_, err := r.db.Exec(upsertObservationSQL,
		o.RegionCode, ts,
		o.Temperature, o.Dewpoint, o.Humidity, o.Precipitation, o.SnowDepth,
		o.WindDirection, o.WindSpeed, o.WindGust, o.Pressure, o.Sunshine, o.CloudCover,
	)
	if err != nil {
		return "", storageErr("upsert", err)
	}

	if exists {
		return types.OutcomeReplaced, nil
	}
	return types.OutcomeInserted, nil
}

func (r *repositoryImpl) UpsertBatch(obs []types.Observation) []types.BatchResult {
	results := make([]types.BatchResult, 0, len(obs))
	for _, o := range obs {
		outcome, err := r.Upsert(o)
		results = append(results, types.BatchResult{
			RegionCode: o.RegionCode,
			Timestamp:  o.Timestamp.UTC().Truncate(time.Second),
			Outcome:    outcome,
			Err:        err,
		})
	}
	return results
}

func (r *repositoryImpl) QueryRange(regionCodes []string, metric types.Metric, since time.Time, limit int) ([]types.MetricPoint, error) {
	if len(regionCodes) == 0 {
		return nil, types.ErrEmptySelection
	}
	if _, err := types.ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("query range: limit must be > 0, got %d", limit)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(regionCodes)), ",")
	query := fmt.Sprintf(queryRangeSQLTemplate, metric.Column(), placeholders)

	args := make([]any, 0, len(regionCodes)+2)
	for _, code := range regionCodes {
		args = append(args, code)
	}
	args = append(args, formatTS(since), limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, storageErr("query range", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close range rows", "error", err)
		}
	}()

	// The query returns newest-first so LIMIT keeps the most recent rows;
	// reverse to the ascending order callers expect.
	var desc []types.MetricPoint
	for rows.Next() {
		var p types.MetricPoint
		var ts string
		if err := rows.Scan(&p.RegionCode, &ts, &p.Value); err != nil {
			return nil, storageErr("query range: scan", err)
		}
		t, err := parseTS(ts)
		if err != nil {
			return nil, err
		}
		p.Timestamp = t
		desc = append(desc, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query range", err)
	}

	out := make([]types.MetricPoint, len(desc))
	for i, p := range desc {
		out[len(desc)-1-i] = p
	}
	return out, nil
}

func (r *repositoryImpl) Latest(regionCode string) (*types.Observation, error) {
	row := r.db.QueryRow(getLatestObservationSQL, regionCode)

	var o types.Observation
	var ts string
	err := row.Scan(
		&o.RegionCode, &ts,
		&o.Temperature, &o.Dewpoint, &o.Humidity, &o.Precipitation, &o.SnowDepth,
		&o.WindDirection, &o.WindSpeed, &o.WindGust, &o.Pressure, &o.Sunshine, &o.CloudCover,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("latest", err)
	}
	t, err := parseTS(ts)
	if err != nil {
		return nil, err
	}
	o.Timestamp = t
	return &o, nil
}

func (r *repositoryImpl) Status() (int, *time.Time, error) {
	var total int
	var last sql.NullString
	if err := r.db.QueryRow(getStatusSQL).Scan(&total, &last); err != nil {
		return 0, nil, storageErr("status", err)
	}
	if !last.Valid {
		return total, nil, nil
	}
	t, err := parseTS(last.String)
	if err != nil {
		return 0, nil, err
	}
	return total, &t, nil
}
