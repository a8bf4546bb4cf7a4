package core

import (
	"math"

	"candle-chart/src/models"
)

// -----------------------------------------------------------------------------

// AggregateCandles folds a time-ordered group into one candle: first open,
// max high, min low, last close, summed volume. The result carries the
// first candle's timestamp; callers overwrite it with the window start.
func AggregateCandles(group []models.MCandle) models.MCandle {
	if len(group) == 0 {
		return models.MCandle{}
	}

	out := models.MCandle{
		Timestamp: group[0].Timestamp,
		Open:      group[0].Open,
		High:      math.Inf(-1),
		Low:       math.Inf(1),
		Close:     group[len(group)-1].Close,
	}
	for _, c := range group {
		out.High = math.Max(out.High, c.High)
		out.Low = math.Min(out.Low, c.Low)
		if c.HasVolume {
			out.Volume += c.Volume
			out.HasVolume = true
		}
	}
	return out
}
