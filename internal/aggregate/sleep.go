package aggregate

import (
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"example.com/healthdata/internal/domain"
)

// timestampLayout matches the export's attribute format, e.g.
// "2023-11-04 23:12:00 +0100". The offset is the device's own; record days
// are derived in that offset.
const timestampLayout = "2006-01-02 15:04:05 -0700"

// SleepStats carries scan diagnostics for the sleep path.
type SleepStats struct {
	RecordsScanned int
	SleepRecords   int
	SkippedInvalid int
}

// sleepInterval is a buffered sleep-analysis record awaiting classification.
// Only matching records are buffered; the export itself is still consumed as
// a single forward stream.
type sleepInterval struct {
	start string
	end   string
	stage string
}

// Sleep folds the record stream into per-date sleep-stage minutes. Unlike the
// activity path it derives its own date span from the data: buckets cover
// [earliest, latest] observed start dates, days with no contribution are
// dropped, and the result is sorted descending by date and truncated to days
// entries. No sleep records at all yields an empty, non-error result.
func Sleep(src RecordSource, days int) ([]domain.SleepDay, SleepStats, error) {
	if days < 1 {
		days = DefaultWindowDays
	}

	var stats SleepStats
	var intervals []sleepInterval
	var minDate, maxDate string

	for {
		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, stats, err
		}
		stats.RecordsScanned++

		if rec.Type != domain.TypeSleepAnalysis {
			continue
		}
		stats.SleepRecords++
		intervals = append(intervals, sleepInterval{start: rec.StartDate, end: rec.EndDate, stage: rec.Value})

		date, _, _ := strings.Cut(rec.StartDate, " ")
		if _, err := time.Parse(DateLayout, date); err != nil {
			continue
		}
		if minDate == "" || date < minDate {
			minDate = date
		}
		if maxDate == "" || date > maxDate {
			maxDate = date
		}
	}

	if len(intervals) == 0 || minDate == "" {
		return []domain.SleepDay{}, stats, nil
	}

	first, _ := time.Parse(DateLayout, minDate)
	last, _ := time.Parse(DateLayout, maxDate)

	buckets := make(map[string]*domain.SleepDay)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		buckets[date] = &domain.SleepDay{Date: date}
	}

	for _, iv := range intervals {
		start, err := time.Parse(timestampLayout, iv.start)
		if err != nil {
			stats.SkippedInvalid++
			continue
		}
		end, err := time.Parse(timestampLayout, iv.end)
		if err != nil {
			stats.SkippedInvalid++
			continue
		}

		minutes := end.Sub(start).Minutes()
		if minutes <= 0 {
			stats.SkippedInvalid++
			continue
		}

		date := start.Format(DateLayout)
		bucket := buckets[date]
		if bucket == nil {
			// Start dates normally fall inside the discovered span;
			// create the bucket anyway rather than losing the record.
			bucket = &domain.SleepDay{Date: date}
			buckets[date] = bucket
		}

		// First match wins: the substage names all contain "Asleep", so
		// the generic fallback must come after Core/Deep/REM.
		switch {
		case strings.Contains(iv.stage, "InBed"):
			bucket.InBed += minutes
		case strings.Contains(iv.stage, "Core"):
			bucket.Asleep += minutes
			bucket.Light += minutes
		case strings.Contains(iv.stage, "Deep"):
			bucket.Asleep += minutes
			bucket.Deep += minutes
		case strings.Contains(iv.stage, "REM"):
			bucket.Asleep += minutes
			bucket.REM += minutes
		case strings.Contains(iv.stage, "Asleep"):
			bucket.Asleep += minutes
			bucket.Light += minutes
		case strings.Contains(iv.stage, "Awake"):
			bucket.Awake += minutes
		}
	}

	result := make([]domain.SleepDay, 0, len(buckets))
	for _, bucket := range buckets {
		if bucket.Empty() {
			continue
		}
		result = append(result, *bucket)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date > result[j].Date
	})
	if len(result) > days {
		result = result[:days]
	}
	return result, stats, nil
}
