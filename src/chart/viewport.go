package chart

import "math"

// -----------------------------------------------------------------------------

// SlotWidth is the horizontal space one candle occupies, body plus gap.
func SlotWidth(candleWidth, spacingRatio float64) float64 {
	return candleWidth * (1 + spacingRatio)
}

// -----------------------------------------------------------------------------

// ComputeVisibleRange returns the [start, end) index range of candles that
// intersect a viewport of viewportWidth pixels scrolled by scrollOffset.
// The trailing +1 keeps a partially visible last candle in range.
// scrollOffset is not clamped here; see ClampScrollOffset.
func ComputeVisibleRange(count int, candleWidth, spacingRatio, scrollOffset, viewportWidth float64) (int, int) {
	total := SlotWidth(candleWidth, spacingRatio)
	if count <= 0 || total <= 0 {
		return 0, 0
	}

	// Both are capped at count before the int conversion so tiny slots
	// cannot overflow.
	start := int(math.Max(0, math.Min(math.Floor(scrollOffset/total), float64(count))))

	span := 0
	if viewportWidth > 0 {
		span = int(math.Min(math.Ceil(viewportWidth/total), float64(count)))
	}
	end := start + span + 1
	if end > count {
		end = count
	}
	return start, end
}

// -----------------------------------------------------------------------------

// MaxScrollOffset is the largest scroll offset that still fills the viewport.
func MaxScrollOffset(count int, candleWidth, spacingRatio, viewportWidth float64) float64 {
	content := SlotWidth(candleWidth, spacingRatio) * float64(count)
	return math.Max(0, content-viewportWidth)
}

// ClampScrollOffset clamps scrollOffset into [0, MaxScrollOffset].
func ClampScrollOffset(scrollOffset float64, count int, candleWidth, spacingRatio, viewportWidth float64) float64 {
	if math.IsNaN(scrollOffset) || scrollOffset < 0 {
		return 0
	}
	return math.Min(scrollOffset, MaxScrollOffset(count, candleWidth, spacingRatio, viewportWidth))
}

// LatestScrollOffset scrolls to the most recent candles.
func LatestScrollOffset(count int, candleWidth, spacingRatio, viewportWidth float64) float64 {
	return MaxScrollOffset(count, candleWidth, spacingRatio, viewportWidth)
}

// -----------------------------------------------------------------------------

// ZoomAt scales the candle width by scale, clamped to [minWidth, maxWidth],
// and returns a scroll offset that keeps the content under focalX (pixels
// from the chart's left edge) in place. The caller clamps the result.
func ZoomAt(candleWidth, spacingRatio, scrollOffset, focalX, scale, minWidth, maxWidth float64) (float64, float64) {
	if scale <= 0 || math.IsNaN(scale) || candleWidth <= 0 {
		return candleWidth, scrollOffset
	}

	newWidth := candleWidth * scale
	if minWidth > 0 && newWidth < minWidth {
		newWidth = minWidth
	}
	if maxWidth > 0 && newWidth > maxWidth {
		newWidth = maxWidth
	}

	// Content position under the focal point, in slots.
	oldSlot := SlotWidth(candleWidth, spacingRatio)
	slots := (scrollOffset + focalX) / oldSlot

	newScroll := slots*SlotWidth(newWidth, spacingRatio) - focalX
	return newWidth, newScroll
}
