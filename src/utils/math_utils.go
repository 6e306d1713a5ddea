package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a CSV amount cell to a float64, returning 0 on any
// parse failure. Thousand separators and a leading currency sign are
// tolerated because marketplace exports are inconsistent about them.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "¥")
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseQuantity converts a quantity cell to an int, defaulting to 1 when the
// value is missing, non-positive, or not a finite number.
func ParseQuantity(s string) int {
	v := ParseAmount(s)
	if v <= 0 {
		return 1
	}
	return int(v)
}

// FeeStats holds dispersion statistics over a list of fee samples.
type FeeStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
	CV     float64 `json:"cv"` // coefficient of variation (stddev / mean)
}

// ComputeFeeStats derives mean, min, max and coefficient of variation from a
// raw sample list. The caller accumulates samples rather than running
// statistics so the variance here is exact.
func ComputeFeeStats(samples []float64) FeeStats {
	stats := FeeStats{Count: len(samples)}
	if len(samples) == 0 {
		return stats
	}
	stats.Min = samples[0]
	stats.Max = samples[0]
	var sum float64
	for _, v := range samples {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Mean = sum / float64(len(samples))

	var sqSum float64
	for _, v := range samples {
		d := v - stats.Mean
		sqSum += d * d
	}
	stats.StdDev = math.Sqrt(sqSum / float64(len(samples)))
	if stats.Mean != 0 {
		stats.CV = stats.StdDev / stats.Mean
	}
	return stats
}
