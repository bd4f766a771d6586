package aggregate

import "strings"

// Conversion factors into the canonical units (kilometres, kilocalories).
const (
	milesToKm  = 1.60934
	feetToKm   = 0.0003048
	metersToKm = 0.001

	kilojoulesToKcal = 0.239006
	joulesToKcal     = 0.000239006
)

// DistanceKm converts a recorded distance into kilometres. Unit matching is
// substring-based and case-insensitive, first match wins: miles, then feet,
// then metres. An absent or unrecognised unit is assumed to be metres.
func DistanceKm(value float64, unit string) float64 {
	u := strings.ToLower(unit)
	switch {
	case strings.Contains(u, "mi"):
		return value * milesToKm
	case strings.Contains(u, "ft"):
		return value * feetToKm
	default:
		return value * metersToKm
	}
}

// EnergyKcal converts a recorded energy value into kilocalories. Kilojoules
// are checked before joules; an absent or unrecognised unit is assumed to be
// kilocalories already.
func EnergyKcal(value float64, unit string) float64 {
	u := strings.ToLower(unit)
	switch {
	case strings.Contains(u, "kj"):
		return value * kilojoulesToKcal
	case strings.Contains(u, "j"):
		return value * joulesToKcal
	default:
		return value
	}
}
