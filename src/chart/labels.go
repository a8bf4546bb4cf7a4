package chart

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// Rough glyph metrics; the engine has no font shaper.
	charWidthFactor  = 0.6
	lineHeightFactor = 1.4
)

// -----------------------------------------------------------------------------

// LabelStep returns how many candles apart date labels are drawn so that at
// most target labels fit in visibleCount candles. Zero disables labels.
func LabelStep(visibleCount, target int) int {
	if visibleCount <= 0 || target <= 0 {
		return 0
	}
	step := int(math.Ceil(float64(visibleCount) / float64(target)))
	if step < 1 {
		step = 1
	}
	return step
}

// FormatPrice renders a price with a fixed number of decimals.
func FormatPrice(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromFloat(value).StringFixed(int32(decimals))
}

// FormatDate renders a timestamp with a Go layout, falling back to a date.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = "2006-01-02"
	}
	return t.Format(layout)
}

// -----------------------------------------------------------------------------

// TextWidth estimates the rendered width of s.
func TextWidth(s string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSize * charWidthFactor
}

// LineHeight estimates the line advance for fontSize.
func LineHeight(fontSize float64) float64 {
	return fontSize * lineHeightFactor
}
