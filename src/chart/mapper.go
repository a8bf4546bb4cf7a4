package chart

import (
	"math"

	"candle-chart/src/models"
)

// -----------------------------------------------------------------------------

// PriceBoundsOf returns the global min low and max high of the whole series.
// Scaling against the whole series keeps the vertical axis stable while
// scrolling. An empty series yields zero bounds.
func PriceBoundsOf(candles []models.MCandle) models.MPriceBounds {
	if len(candles) == 0 {
		return models.MPriceBounds{}
	}

	low := math.Inf(1)
	high := math.Inf(-1)
	for _, c := range candles {
		if c.Low < low {
			low = c.Low
		}
		if c.High > high {
			high = c.High
		}
	}
	return models.MPriceBounds{Low: low, High: high}
}

// -----------------------------------------------------------------------------

// PriceToY maps a price to a screen y. progress scales the distance from the
// chart bottom, so 0 collapses everything onto the baseline.
// A zero range is treated as 1.0 centred on the flat value.
func PriceToY(price float64, bounds models.MPriceBounds, chartTop, chartHeight, progress float64) float64 {
	low := bounds.Low
	priceRange := bounds.High - bounds.Low
	if priceRange == 0 {
		priceRange = 1.0
		low -= 0.5
	}

	chartBottom := chartTop + chartHeight
	return chartBottom - ((price-low)/priceRange)*chartHeight*clampProgress(progress)
}

// IndexToX maps an absolute series index to the x of the candle's left edge.
func IndexToX(index int, candleWidth, spacingRatio, scrollOffset, chartLeft float64) float64 {
	return chartLeft + float64(index)*SlotWidth(candleWidth, spacingRatio) - scrollOffset
}

// -----------------------------------------------------------------------------

func clampProgress(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
