package utils

import (
	"strings"
	"time"

	"candle-chart/src/logger"

	"github.com/scmhub/calendar"
)

const defaultMIC = "xnys"

// Yahoo-style ticker suffix to ISO 10383 MIC, as understood by scmhub/calendar.
var suffixMIC = map[string]string{
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".BR": "xbru",
	".MI": "xmil",
	".MC": "xmad",
	".ST": "xsto",
	".CO": "xcse",
	".HE": "xhel",
	".VI": "xwbo",
	".SW": "xswx",
	".TO": "xtse",
	".V":  "xtsx",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".KS": "xkrx",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

// Quote suffixes of instruments that trade around the clock.
var alwaysOpenSuffixes = []string{"-USD", "-USDT", "-EUR", "=X"}

var calendarLogger = logger.NewLogger(nil, "TradingCalendar")

// -----------------------------------------------------------------------------

// TradingCalendar answers "is this market open" for one exchange. When the
// exchange calendar cannot be loaded it falls back to Mon-Fri 09:30-16:00
// in Timezone.
type TradingCalendar struct {
	MIC        string
	Calendar   *calendar.Calendar
	Fallback   bool
	AlwaysOpen bool
	Timezone   *time.Location
}

// -----------------------------------------------------------------------------

// MICForSymbol picks the exchange for a ticker by suffix. Crypto and FX
// pairs return "24x7".
func MICForSymbol(symbol string) string {
	upper := strings.ToUpper(symbol)
	for _, s := range alwaysOpenSuffixes {
		if strings.HasSuffix(upper, s) {
			return "24x7"
		}
	}
	if dot := strings.LastIndex(upper, "."); dot > 0 {
		if mic, ok := suffixMIC[upper[dot:]]; ok {
			return mic
		}
	}
	return defaultMIC
}

// GetCalendar returns the trading calendar for symbol.
func GetCalendar(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)
	if mic == "24x7" {
		return &TradingCalendar{MIC: mic, AlwaysOpen: true, Timezone: time.UTC}
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil && mic != defaultMIC {
		cal = calendar.GetCalendar(defaultMIC)
	}
	if cal == nil {
		calendarLogger.Warning("No calendar for MIC '%s', using Mon-Fri 09:30-16:00 New York", mic)
		return FallbackCalendar()
	}
	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}
}

// FallbackCalendar is the fixed New York session used when no exchange
// calendar is available.
func FallbackCalendar() *TradingCalendar {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &TradingCalendar{MIC: defaultMIC, Fallback: true, Timezone: loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.AlwaysOpen {
		return true
	}
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}
	if tc.Fallback {
		wd := date.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenAt reports whether the market trades at t.
func (tc *TradingCalendar) IsOpenAt(t time.Time) bool {
	if tc.AlwaysOpen {
		return true
	}
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}
	if !tc.Fallback {
		return tc.Calendar.IsOpen(t)
	}

	if !tc.IsTradingDay(t) {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= 9*60+30 && minutes < 16*60
}
