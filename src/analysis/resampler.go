package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"candle-chart/src/analysis/core"
	"candle-chart/src/models"
)

var intervalUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"wk", 7 * 24 * time.Hour},
	{"w", 7 * 24 * time.Hour},
	{"d", 24 * time.Hour},
}

// -----------------------------------------------------------------------------

// ParseInterval parses a candle interval. Besides Go durations ("5m",
// "1h30m") it accepts day and week counts ("1d", "2w", "1wk"). Intervals
// must be a whole number of seconds.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, u := range intervalUnits {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(s, u.suffix))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid interval %q", s)
		}
		return time.Duration(n) * u.unit, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	if d < time.Second || d%time.Second != 0 {
		return 0, fmt.Errorf("interval %q is not a whole number of seconds", s)
	}
	return d, nil
}

// -----------------------------------------------------------------------------

// WindowBounds returns the epoch-aligned window [start, end) containing ts.
func WindowBounds(ts, window int64) (int64, int64) {
	start := ts - ts%window
	if ts%window < 0 {
		start -= window
	}
	return start, start + window
}

// ResampleCandles rolls candles up into windows of windowSeconds aligned to
// the epoch. Input order does not matter; empty windows are skipped.
func ResampleCandles(candles []models.MCandle, windowSeconds int64) []models.MCandle {
	if len(candles) == 0 || windowSeconds <= 0 {
		return []models.MCandle{}
	}

	sorted := make([]models.MCandle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var out []models.MCandle
	for i := 0; i < len(sorted); {
		start, end := WindowBounds(sorted[i].Timestamp.Unix(), windowSeconds)

		// First candle at or past the window end.
		j := i + sort.Search(len(sorted)-i, func(k int) bool {
			return sorted[i+k].Timestamp.Unix() >= end
		})

		agg := core.AggregateCandles(sorted[i:j])
		agg.Timestamp = time.Unix(start, 0).In(sorted[i].Timestamp.Location())
		out = append(out, agg)
		i = j
	}
	return out
}
