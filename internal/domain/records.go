// Package domain defines the record model shared by the export scanner and
// the daily aggregators.
package domain

// Health export record types consumed by the aggregators. The export carries
// a much larger vocabulary; everything else is skipped during the scan.
const (
	TypeStepCount     = "HKQuantityTypeIdentifierStepCount"
	TypeDistance      = "HKQuantityTypeIdentifierDistanceWalkingRunning"
	TypeActiveEnergy  = "HKQuantityTypeIdentifierActiveEnergyBurned"
	TypeSleepAnalysis = "HKCategoryTypeIdentifierSleepAnalysis"
)

// RawRecord holds the attributes of one <Record> element exactly as scanned.
// Absent attributes are empty strings; interpretation (numeric parsing, date
// extraction, source matching) belongs to the aggregators. A RawRecord is
// owned by the scan step that produced it and is never retained.
type RawRecord struct {
	Type      string
	StartDate string
	EndDate   string
	Value     string
	Unit      string
	Source    string
}

// ActivityDay is the per-date activity accumulator. Distance is kilometres,
// energy is kilocalories; both are rounded to two decimals when assembled
// into the response sequence.
type ActivityDay struct {
	Date             string  `json:"date"`
	Steps            int     `json:"steps"`
	DistanceKm       float64 `json:"distance"`
	ActiveEnergyKcal float64 `json:"activeEnergyBurned"`
}

// SleepDay is the per-date sleep-stage accumulator, all fields in minutes.
type SleepDay struct {
	Date   string  `json:"date"`
	InBed  float64 `json:"inBed"`
	Asleep float64 `json:"asleep"`
	Deep   float64 `json:"deep"`
	REM    float64 `json:"rem"`
	Light  float64 `json:"light"`
	Awake  float64 `json:"awake"`
}

// Empty reports whether no record contributed to the day.
func (d SleepDay) Empty() bool {
	return d.InBed == 0 && d.Asleep == 0 && d.Deep == 0 && d.REM == 0 && d.Light == 0 && d.Awake == 0
}
