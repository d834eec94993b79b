package types

import (
	"fmt"
	"time"
)

// Metric names one numeric weather quantity stored per observation.
type Metric string

const (
	MetricTemperature   Metric = "temperature"
	MetricDewpoint      Metric = "dewpoint"
	MetricHumidity      Metric = "humidity"
	MetricPrecipitation Metric = "precipitation"
	MetricSnowDepth     Metric = "snow_depth"
	MetricWindDirection Metric = "wind_direction"
	MetricWindSpeed     Metric = "wind_speed"
	MetricWindGust      Metric = "wind_gust"
	MetricPressure      Metric = "pressure"
	MetricSunshine      Metric = "sunshine"
	MetricCloudCover    Metric = "cloud_cover"
)

// metricColumns is the whitelist used when interpolating a metric into SQL.
// Keys must match the observations table column names exactly.
var metricColumns = map[Metric]string{
	MetricTemperature:   "temperature",
	MetricDewpoint:      "dewpoint",
	MetricHumidity:      "humidity",
	MetricPrecipitation: "precipitation",
	MetricSnowDepth:     "snow_depth",
	MetricWindDirection: "wind_direction",
	MetricWindSpeed:     "wind_speed",
	MetricWindGust:      "wind_gust",
	MetricPressure:      "pressure",
	MetricSunshine:      "sunshine",
	MetricCloudCover:    "cloud_cover",
}

var metricOrder = []Metric{
	MetricTemperature,
	MetricDewpoint,
	MetricHumidity,
	MetricPrecipitation,
	MetricSnowDepth,
	MetricWindDirection,
	MetricWindSpeed,
	MetricWindGust,
	MetricPressure,
	MetricSunshine,
	MetricCloudCover,
}

// Metrics returns all known metrics in a fixed order.
func Metrics() []Metric {
	out := make([]Metric, len(metricOrder))
	copy(out, metricOrder)
	return out
}

// ParseMetric validates a metric name. Unknown names yield ErrInvalidMetric.
func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if _, ok := metricColumns[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, s)
	}
	return m, nil
}

// Column returns the SQL column for a metric. It panics on unknown metrics;
// callers must go through ParseMetric first.
func (m Metric) Column() string {
	col, ok := metricColumns[m]
	if !ok {
		panic(fmt.Sprintf("unknown metric %q", string(m)))
	}
	return col
}

// Observation is one reading for one region at one instant. Any subset of the
// metric fields may be nil.
type Observation struct {
	RegionCode    string    `json:"region_code"`
	Timestamp     time.Time `json:"timestamp"`
	Temperature   *float64  `json:"temperature,omitempty"`
	Dewpoint      *float64  `json:"dewpoint,omitempty"`
	Humidity      *float64  `json:"humidity,omitempty"`
	Precipitation *float64  `json:"precipitation,omitempty"`
	SnowDepth     *float64  `json:"snow_depth,omitempty"`
	WindDirection *float64  `json:"wind_direction,omitempty"`
	WindSpeed     *float64  `json:"wind_speed,omitempty"`
	WindGust      *float64  `json:"wind_gust,omitempty"`
	Pressure      *float64  `json:"pressure,omitempty"`
	Sunshine      *float64  `json:"sunshine,omitempty"`
	CloudCover    *float64  `json:"cloud_cover,omitempty"`
}

// Value returns the observation's value for the metric, or nil when absent.
func (o *Observation) Value(m Metric) *float64 {
	switch m {
	case MetricTemperature:
		return o.Temperature
	case MetricDewpoint:
		return o.Dewpoint
	case MetricHumidity:
		return o.Humidity
	case MetricPrecipitation:
		return o.Precipitation
	case MetricSnowDepth:
		return o.SnowDepth
	case MetricWindDirection:
		return o.WindDirection
	case MetricWindSpeed:
		return o.WindSpeed
	case MetricWindGust:
		return o.WindGust
	case MetricPressure:
		return o.Pressure
	case MetricSunshine:
		return o.Sunshine
	case MetricCloudCover:
		return o.CloudCover
	}
	return nil
}

// SetValue stores a value for the metric. Unknown metrics are ignored.
func (o *Observation) SetValue(m Metric, v float64) {
	switch m {
	case MetricTemperature:
		o.Temperature = &v
	case MetricDewpoint:
		o.Dewpoint = &v
	case MetricHumidity:
		o.Humidity = &v
	case MetricPrecipitation:
		o.Precipitation = &v
	case MetricSnowDepth:
		o.SnowDepth = &v
	case MetricWindDirection:
		o.WindDirection = &v
	case MetricWindSpeed:
		o.WindSpeed = &v
	case MetricWindGust:
		o.WindGust = &v
	case MetricPressure:
		o.Pressure = &v
	case MetricSunshine:
		o.Sunshine = &v
	case MetricCloudCover:
		o.CloudCover = &v
	}
}

// HasValues reports whether at least one metric field is set.
func (o *Observation) HasValues() bool {
	for _, m := range metricOrder {
		if o.Value(m) != nil {
			return true
		}
	}
	return false
}

// MetricPoint is one (region, time, value) row from a range query.
type MetricPoint struct {
	RegionCode string    `json:"region_code"`
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value"`
}

// UpsertOutcome tells whether an upsert created a new row or overwrote an
// existing one.
type UpsertOutcome string

const (
	OutcomeInserted UpsertOutcome = "inserted"
	OutcomeReplaced UpsertOutcome = "replaced"
)

// BatchResult is the per-record outcome of a batch upsert. Err is nil for
// applied records; a failed record never rolls back earlier ones.
type BatchResult struct {
	RegionCode string
	Timestamp  time.Time
	Outcome    UpsertOutcome
	Err        error
}

// RawObservation is the shape produced by ingestion clients: one timestamped
// record with a name->value map, any metric possibly absent.
type RawObservation struct {
	RegionCode string             `json:"region_code"`
	Timestamp  time.Time          `json:"timestamp"`
	Metrics    map[string]float64 `json:"metrics"`
}

// IngestBatch is the wire envelope for pushed observation batches.
type IngestBatch struct {
	Observations []RawObservation `json:"observations"`
}
