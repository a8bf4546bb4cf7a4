package chart

// FindCandleAtX returns the index of the candle whose body spans pointerX.
// Only [start, end) is scanned. Wicks are not hit-testable on their own.
func FindCandleAtX(pointerX, candleWidth, spacingRatio, scrollOffset, chartLeft float64, start, end int) (int, bool) {
	for i := start; i < end; i++ {
		x := IndexToX(i, candleWidth, spacingRatio, scrollOffset, chartLeft)
		if pointerX >= x && pointerX <= x+candleWidth {
			return i, true
		}
		if x > pointerX {
			// Candles are laid out left to right.
			break
		}
	}
	return -1, false
}
