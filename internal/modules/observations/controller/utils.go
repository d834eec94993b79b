package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultHours = 24
	maxHours     = 168
	defaultLimit = 1000
	maxLimit     = 1000
)

type seriesQuery struct {
	regions     []string
	metric      string
	hours       int
	limit       int
	withSummary bool
}

func parseSeriesQuery(r *http.Request) (seriesQuery, error) {
	q := r.URL.Query()

	out := seriesQuery{
		metric: "temperature",
		hours:  defaultHours,
		limit:  defaultLimit,
	}

	raw := strings.TrimSpace(q.Get("regions"))
	if raw == "" {
		return seriesQuery{}, errors.New("'regions' parameter is required")
	}
	for _, code := range strings.Split(raw, ",") {
		code = strings.TrimSpace(code)
		if code != "" {
			out.regions = append(out.regions, code)
		}
	}
	if len(out.regions) == 0 {
		return seriesQuery{}, errors.New("'regions' parameter is required")
	}

	if s := q.Get("metric"); s != "" {
		out.metric = s
	}

	if s := q.Get("hours"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return seriesQuery{}, errors.New("invalid 'hours' (expected integer)")
		}
		if n <= 0 || n > maxHours {
			return seriesQuery{}, errors.New("'hours' must be between 1 and 168")
		}
		out.hours = n
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return seriesQuery{}, errors.New("invalid 'limit' (expected integer)")
		}
		if n <= 0 {
			return seriesQuery{}, errors.New("'limit' must be > 0")
		}
		if n > maxLimit {
			return seriesQuery{}, errors.New("'limit' must be <= 1000")
		}
		out.limit = n
	}

	if s := q.Get("summary"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return seriesQuery{}, errors.New("invalid 'summary' (expected boolean)")
		}
		out.withSummary = v
	}

	return out, nil
}
