package utils

import (
	"math"
	"time"
)

const (
	DefaultRetentionDays = 7
	DefaultMaxCandles    = 5000

	// A regular US session is 6.5 hours.
	tradingHoursPerDay = 6.5
)

// -----------------------------------------------------------------------------

// CandleCapacity estimates how many candles of interval cover retentionDays
// of regular trading hours. It is the store capacity used when max_candles
// is left at zero.
func CandleCapacity(retentionDays int, interval time.Duration) int {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	if interval <= 0 {
		return DefaultMaxCandles
	}

	perDay := math.Ceil(tradingHoursPerDay * float64(time.Hour) / float64(interval))
	if perDay < 1 {
		perDay = 1
	}
	return int(math.Ceil(float64(retentionDays) * perDay))
}
