package utils

import (
	"sync"
	"time"

	"candle-chart/src/logger"
)

// MarketScheduler tells the refresher which symbols are worth polling now.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar
	Logger    *logger.Logger
	Now       func() time.Time
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(symbols []string, l *logger.Logger) *MarketScheduler {
	if l == nil {
		l = logger.NewLogger(nil, "MarketScheduler")
	}
	ms := &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
		Now:       time.Now,
	}
	ms.UpdateSymbols(symbols)
	return ms
}

// -----------------------------------------------------------------------------

// UpdateSymbols replaces the tracked symbols. Calendars are shared per MIC.
func (ms *MarketScheduler) UpdateSymbols(symbols []string) {
	byMIC := make(map[string]*TradingCalendar)
	cals := make(map[string]*TradingCalendar, len(symbols))
	for _, symbol := range symbols {
		mic := MICForSymbol(symbol)
		cal, ok := byMIC[mic]
		if !ok {
			cal = GetCalendar(symbol)
			byMIC[mic] = cal
		}
		cals[symbol] = cal
	}

	ms.mu.Lock()
	ms.Calendars = cals
	ms.mu.Unlock()

	ms.Logger.Info("Mapped %d symbols to %d calendars", len(symbols), len(byMIC))
}

// -----------------------------------------------------------------------------

// IsOpen reports whether symbol's market is open now. Unknown symbols are
// treated as open so ad-hoc refreshes are never blocked.
func (ms *MarketScheduler) IsOpen(symbol string) bool {
	ms.mu.RLock()
	cal, ok := ms.Calendars[symbol]
	ms.mu.RUnlock()
	if !ok {
		return true
	}
	return cal.IsOpenAt(ms.Now().UTC())
}

// OpenSymbols filters symbols down to those whose market is open now.
func (ms *MarketScheduler) OpenSymbols(symbols []string) []string {
	var open []string
	for _, s := range symbols {
		if ms.IsOpen(s) {
			open = append(open, s)
		}
	}
	return open
}

// AnyMarketOpen reports whether any tracked market is open now.
func (ms *MarketScheduler) AnyMarketOpen() bool {
	now := ms.Now().UTC()

	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, cal := range ms.Calendars {
		if cal.IsOpenAt(now) {
			return true
		}
	}
	return false
}
