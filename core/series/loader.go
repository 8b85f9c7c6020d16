// Package series loads the historical input series consumed by the training
// pipeline: hourly per-route congestion rows with optional pre-computed
// regressor columns.
package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sekka-mobility/forecast/core/feature"
	"github.com/sekka-mobility/forecast/core/forecast"
	"github.com/sekka-mobility/forecast/core/logger"
	"github.com/sekka-mobility/forecast/core/model"
)

// RouteSeries is one route's chronological training data.
type RouteSeries struct {
	Route   model.Route
	Samples []forecast.Sample
}

var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Load reads the CSV at path and groups rows per route.
func Load(path string, log logger.Logger) (map[string]*RouteSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, log)
}

// Read parses the input series. Required columns: timestamp, route_id,
// congestion_level. Optional: target_governorate, service_type and the three
// regressor columns. Externally supplied regressor values override the
// derived ones; absent columns are derived from the timestamp and governorate.
// Rows that are off the hourly grid or out of the congestion scale are skipped
// with a warning, not fatal.
func Read(r io.Reader, log logger.Logger) (map[string]*RouteSeries, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"timestamp", "route_id", "congestion_level"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	routes := map[string]*RouteSeries{}
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		ts, err := parseTimestamp(rec[col["timestamp"]])
		if err != nil || ts.Minute() != 0 || ts.Second() != 0 {
			skipped++
			continue
		}
		level, err := strconv.ParseFloat(rec[col["congestion_level"]], 64)
		if err != nil || level < model.LevelMin || level > model.LevelMax {
			skipped++
			continue
		}
		routeID := rec[col["route_id"]]
		if routeID == "" {
			skipped++
			continue
		}

		rs := routes[routeID]
		if rs == nil {
			rs = &RouteSeries{Route: model.Route{ID: routeID}}
			routes[routeID] = rs
		}
		if i, ok := col["target_governorate"]; ok && rs.Route.Governorate == "" {
			rs.Route.Governorate = rec[i]
		}
		if i, ok := col["service_type"]; ok && rs.Route.ServiceType == "" {
			rs.Route.ServiceType = rec[i]
		}

		vec := feature.Vector{
			IsPublicHoliday: feature.IsPublicHoliday(ts),
			SchoolPhase:     feature.SchoolPhaseFor(ts),
			IsSummerPeak:    feature.IsSummerPeak(ts, rs.Route.Governorate),
		}
		if i, ok := col["is_public_holiday"]; ok && rec[i] != "" {
			vec.IsPublicHoliday = rec[i] == "1"
		}
		if i, ok := col["is_summer_peak"]; ok && rec[i] != "" {
			vec.IsSummerPeak = rec[i] == "1"
		}
		if i, ok := col["school_term_phase"]; ok && rec[i] != "" {
			vec.SchoolPhase = feature.ParseSchoolPhase(rec[i])
		}

		rs.Samples = append(rs.Samples, forecast.Sample{
			Obs: model.Observation{Timestamp: ts, RouteID: routeID, CongestionLevel: level},
			Vec: vec,
		})
	}

	for _, rs := range routes {
		forecast.SortSamples(rs.Samples)
	}
	if skipped > 0 && log != nil {
		log.Warnf("series: skipped %d invalid rows", skipped)
	}
	return routes, nil
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
