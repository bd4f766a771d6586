package aggregate

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"example.com/healthdata/internal/domain"
)

// watchMarker identifies a wrist-worn recording source. Only records whose
// sourceName contains it count toward activity totals.
const watchMarker = "watch"

// RecordSource yields scanned records one at a time. io.EOF ends the stream;
// any other error aborts the aggregation.
type RecordSource interface {
	Next() (domain.RawRecord, error)
}

// ActivityStats carries the scan diagnostics the old log preamble used to
// print. StepsBySource tallies raw step values per date per source (all
// sources, accepted or not) so discrepancies between devices stay visible
// without polluting the day records themselves.
type ActivityStats struct {
	RecordsScanned     int
	StepRecords        int
	DistanceRecords    int
	EnergyRecords      int
	SkippedOutOfWindow int
	SkippedInvalid     int
	SkippedBySource    int
	StepsBySource      map[string]map[string]int
}

// Activity folds the record stream into one ActivityDay per window date.
// Records outside the window, records without a numeric value and records
// from non-wrist-worn sources are skipped individually; only a stream error
// (malformed export) aborts the call, discarding partial buckets.
func Activity(src RecordSource, window Window) ([]domain.ActivityDay, ActivityStats, error) {
	stats := ActivityStats{StepsBySource: make(map[string]map[string]int)}

	buckets := make(map[string]*domain.ActivityDay, window.Len())
	for _, date := range window.Dates() {
		buckets[date] = &domain.ActivityDay{Date: date}
	}

	for {
		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, stats, err
		}
		stats.RecordsScanned++

		switch rec.Type {
		case domain.TypeStepCount, domain.TypeDistance, domain.TypeActiveEnergy:
		default:
			continue
		}

		// The record's day is the date text of startDate in its own
		// encoded offset, never normalised to the server zone.
		date, _, _ := strings.Cut(rec.StartDate, " ")
		if date == "" {
			stats.SkippedInvalid++
			continue
		}
		if !window.Contains(date) {
			stats.SkippedOutOfWindow++
			continue
		}

		value, err := strconv.ParseFloat(rec.Value, 64)
		if err != nil {
			stats.SkippedInvalid++
			continue
		}

		source := strings.ToLower(rec.Source)
		bucket := buckets[date]

		switch rec.Type {
		case domain.TypeStepCount:
			steps := int(value)
			perSource := stats.StepsBySource[date]
			if perSource == nil {
				perSource = make(map[string]int)
				stats.StepsBySource[date] = perSource
			}
			perSource[source] += steps

			if !strings.Contains(source, watchMarker) {
				stats.SkippedBySource++
				continue
			}
			bucket.Steps += steps
			stats.StepRecords++

		case domain.TypeDistance:
			if !strings.Contains(source, watchMarker) {
				stats.SkippedBySource++
				continue
			}
			bucket.DistanceKm += DistanceKm(value, rec.Unit)
			stats.DistanceRecords++

		case domain.TypeActiveEnergy:
			if !strings.Contains(source, watchMarker) {
				stats.SkippedBySource++
				continue
			}
			bucket.ActiveEnergyKcal += EnergyKcal(value, rec.Unit)
			stats.EnergyRecords++
		}
	}

	days := make([]domain.ActivityDay, 0, window.Len())
	for _, date := range window.Dates() {
		day := *buckets[date]
		day.DistanceKm = round2(day.DistanceKm)
		day.ActiveEnergyKcal = round2(day.ActiveEnergyKcal)
		days = append(days, day)
	}
	return days, stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
