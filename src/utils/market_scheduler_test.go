package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMICForSymbol(t *testing.T) {
	assert.Equal(t, "xnys", MICForSymbol("AAPL"))
	assert.Equal(t, "xlon", MICForSymbol("VOD.L"))
	assert.Equal(t, "xtks", MICForSymbol("7203.T"))
	assert.Equal(t, "xnys", MICForSymbol("BRK.B"))
	assert.Equal(t, "24x7", MICForSymbol("BTC-USD"))
	assert.Equal(t, "24x7", MICForSymbol("EURUSD=X"))
}

func TestFallbackCalendar_Session(t *testing.T) {
	cal := FallbackCalendar()
	ny := cal.Timezone

	// Wednesday 2024-03-06.
	assert.True(t, cal.IsOpenAt(time.Date(2024, 3, 6, 9, 30, 0, 0, ny)))
	assert.True(t, cal.IsOpenAt(time.Date(2024, 3, 6, 15, 59, 0, 0, ny)))
	assert.False(t, cal.IsOpenAt(time.Date(2024, 3, 6, 9, 29, 0, 0, ny)))
	assert.False(t, cal.IsOpenAt(time.Date(2024, 3, 6, 16, 0, 0, 0, ny)))
	// Saturday.
	assert.False(t, cal.IsOpenAt(time.Date(2024, 3, 9, 12, 0, 0, 0, ny)))
	assert.False(t, cal.IsTradingDay(time.Date(2024, 3, 10, 12, 0, 0, 0, ny)))
}

func TestMarketScheduler_OpenSymbols(t *testing.T) {
	ms := NewMarketScheduler(nil, nil)
	ms.Calendars["AAPL"] = FallbackCalendar()
	ms.Calendars["BTC-USD"] = &TradingCalendar{MIC: "24x7", AlwaysOpen: true}

	ny := FallbackCalendar().Timezone
	ms.Now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, ny) }
	assert.Equal(t, []string{"BTC-USD", "UNKNOWN"}, ms.OpenSymbols([]string{"AAPL", "BTC-USD", "UNKNOWN"}))
	assert.True(t, ms.AnyMarketOpen())

	ms.Now = func() time.Time { return time.Date(2024, 3, 6, 11, 0, 0, 0, ny) }
	assert.True(t, ms.IsOpen("AAPL"))
}
