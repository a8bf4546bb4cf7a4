package chart

import (
	"math"
	"time"

	"candle-chart/src/models"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func makeSeries(n int) models.MSeries {
	candles := make([]models.MCandle, n)
	for i := 0; i < n; i++ {
		mid := 100 + 10*math.Sin(float64(i)/5)
		open, closePrice := mid-1, mid+1
		if i%3 == 0 {
			open, closePrice = closePrice, open
		}
		candles[i] = models.MCandle{
			Timestamp: baseTime.AddDate(0, 0, i),
			Open:      open,
			High:      mid + 3,
			Low:       mid - 3,
			Close:     closePrice,
		}
	}
	return models.MSeries{Symbol: "TEST", Interval: "1d", Candles: candles, Version: 1}
}

func commandsIn(cmds []models.MDrawCommand, layer models.DrawLayer, kind models.DrawKind) []models.MDrawCommand {
	var out []models.MDrawCommand
	for _, c := range cmds {
		if c.Layer == layer && c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
