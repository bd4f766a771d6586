package export

import (
	"context"
	"io"
	"log"
	"time"

	"example.com/healthdata/internal/aggregate"
	"example.com/healthdata/internal/domain"
	"example.com/healthdata/internal/observability"
)

// Service runs aggregation passes over a configured export file. Each call
// opens its own handle, so concurrent activity and sleep requests scan
// independently with no shared state.
type Service struct {
	path    string
	maxDays int
	now     func() time.Time
	logger  *log.Logger
}

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithNow overrides the clock used to anchor the activity window.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger overrides the logger used for scan summaries.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMaxWindowDays overrides the activity window ceiling.
func WithMaxWindowDays(days int) Option {
	return func(s *Service) {
		s.maxDays = days
	}
}

// NewService constructs a Service reading the export at path.
func NewService(path string, opts ...Option) *Service {
	s := &Service{
		path:    path,
		maxDays: aggregate.DefaultWindowDays,
		now:     time.Now,
		logger:  log.New(log.Writer(), "[export] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActivityDaily scans the export once and returns one entry per day of the
// requested window, ascending, ending today. days is clamped to the
// configured ceiling.
func (s *Service) ActivityDaily(ctx context.Context, days int) ([]domain.ActivityDay, aggregate.ActivityStats, error) {
	started := time.Now()

	rc, err := Open(s.path)
	if err != nil {
		return nil, aggregate.ActivityStats{}, err
	}
	defer rc.Close()

	window := aggregate.NewWindow(s.now(), days, s.maxDays)
	result, stats, err := aggregate.Activity(NewScanner(contextReader(ctx, rc)), window)
	if err != nil {
		return nil, stats, err
	}

	observability.ObserveActivityScan(stats, time.Since(started))
	s.logger.Printf("activity scan: %d records, %d step/%d distance/%d energy accepted, %d skipped by source",
		stats.RecordsScanned, stats.StepRecords, stats.DistanceRecords, stats.EnergyRecords, stats.SkippedBySource)
	return result, stats, nil
}

// SleepDaily scans the export once and returns the non-empty sleep days in
// descending date order, truncated to days entries.
func (s *Service) SleepDaily(ctx context.Context, days int) ([]domain.SleepDay, aggregate.SleepStats, error) {
	started := time.Now()

	rc, err := Open(s.path)
	if err != nil {
		return nil, aggregate.SleepStats{}, err
	}
	defer rc.Close()

	result, stats, err := aggregate.Sleep(NewScanner(contextReader(ctx, rc)), days)
	if err != nil {
		return nil, stats, err
	}

	observability.ObserveSleepScan(stats, time.Since(started))
	s.logger.Printf("sleep scan: %d records, %d sleep intervals, %d skipped, %d days returned",
		stats.RecordsScanned, stats.SleepRecords, stats.SkippedInvalid, len(result))
	return result, stats, nil
}

// contextReader stops a scan promptly once the request is gone, instead of
// reading the remainder of a multi-gigabyte export for nobody.
func contextReader(ctx context.Context, r io.Reader) io.Reader {
	return readerFunc(func(p []byte) (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return r.Read(p)
	})
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) {
	return f(p)
}
