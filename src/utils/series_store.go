package utils

import (
	"runtime"
	"runtime/debug"
	"sort"
	"sync"

	"candle-chart/src/logger"
	"candle-chart/src/models"
)

const (
	memoryCheckEvery  = 100
	minShrinkCapacity = 50
)

// ChangeFunc is called after a series is replaced, merged or deleted.
// version is 0 for deletions.
type ChangeFunc func(symbol, interval string, version uint64)

type seriesEntry struct {
	buffer  *CandleRingBuffer
	version uint64
}

// -----------------------------------------------------------------------------
// SeriesStore keeps one candle ring buffer per symbol and interval. Readers
// get copies, so a snapshot can be rendered while writers keep merging.
// -----------------------------------------------------------------------------

type SeriesStore struct {
	series      map[string]*seriesEntry
	MaxCandles  int
	MaxMemoryMB int
	Logger      *logger.Logger

	memoryUsageMB func() float64
	listeners     []ChangeFunc
	lastVersion   uint64
	sinceCheck    int
	mu            sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewSeriesStore(maxCandles, maxMemoryMB int) *SeriesStore {
	if maxCandles <= 0 {
		maxCandles = DefaultMaxCandles
	}
	return &SeriesStore{
		series:        make(map[string]*seriesEntry),
		MaxCandles:    maxCandles,
		MaxMemoryMB:   maxMemoryMB,
		Logger:        logger.NewLogger(nil, "SeriesStore"),
		memoryUsageMB: processMemoryMB,
	}
}

func seriesKey(symbol, interval string) string {
	return symbol + "|" + interval
}

// OnChange registers fn to be told about every mutation.
func (s *SeriesStore) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *SeriesStore) notify(listeners []ChangeFunc, symbol, interval string, version uint64) {
	for _, fn := range listeners {
		fn(symbol, interval, version)
	}
}

// -----------------------------------------------------------------------------

// Replace swaps the whole series for series.Symbol and series.Interval and
// returns the new version. Candles are sorted by timestamp and only the
// newest MaxCandles are kept.
func (s *SeriesStore) Replace(series models.MSeries) uint64 {
	candles := make([]models.MCandle, len(series.Candles))
	copy(candles, series.Candles)
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	s.mu.Lock()
	buf := NewCandleRingBuffer(s.MaxCandles)
	for _, c := range candles {
		buf.Append(c)
	}
	s.lastVersion++
	version := s.lastVersion
	s.series[seriesKey(series.Symbol, series.Interval)] = &seriesEntry{buffer: buf, version: version}
	s.sinceCheck += len(candles)
	listeners := s.listeners
	s.mu.Unlock()

	s.maybeCheckMemory()
	s.notify(listeners, series.Symbol, series.Interval, version)
	return version
}

// -----------------------------------------------------------------------------

// Merge folds live candles into a series, creating it if needed. A candle
// with the same timestamp as the current tail replaces it, newer candles
// are appended and older ones are dropped. It returns the new version and
// how many candles were applied.
func (s *SeriesStore) Merge(symbol, interval string, candles []models.MCandle) (uint64, int) {
	s.mu.Lock()
	key := seriesKey(symbol, interval)
	entry, ok := s.series[key]
	if !ok {
		entry = &seriesEntry{buffer: NewCandleRingBuffer(s.MaxCandles)}
		s.series[key] = entry
	}

	applied := 0
	for _, c := range candles {
		last, hasLast := entry.buffer.Last()
		switch {
		case !hasLast || c.Timestamp.After(last.Timestamp):
			entry.buffer.Append(c)
		case c.Timestamp.Equal(last.Timestamp):
			entry.buffer.SetLast(c)
		default:
			continue
		}
		applied++
	}

	s.lastVersion++
	entry.version = s.lastVersion
	version := entry.version
	s.sinceCheck += applied
	listeners := s.listeners
	s.mu.Unlock()

	s.maybeCheckMemory()
	s.notify(listeners, symbol, interval, version)
	return version, applied
}

// -----------------------------------------------------------------------------

// Snapshot returns a copy of the series.
func (s *SeriesStore) Snapshot(symbol, interval string) (models.MSeries, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.series[seriesKey(symbol, interval)]
	if !ok {
		return models.MSeries{}, false
	}
	return models.MSeries{
		Symbol:   symbol,
		Interval: interval,
		Candles:  entry.buffer.GetAll(),
		Version:  entry.version,
	}, true
}

// Intervals returns the stored intervals for symbol, sorted.
func (s *SeriesStore) Intervals(symbol string) []string {
	var out []string
	for _, info := range s.List() {
		if info.Symbol == symbol {
			out = append(out, info.Interval)
		}
	}
	return out
}

// List summarises every stored series, sorted by symbol then interval.
func (s *SeriesStore) List() []models.MSeriesInfo {
	s.mu.RLock()
	out := make([]models.MSeriesInfo, 0, len(s.series))
	for key, entry := range s.series {
		symbol, interval := splitKey(key)
		info := models.MSeriesInfo{
			Symbol:   symbol,
			Interval: interval,
			Count:    entry.buffer.Size(),
			Version:  entry.version,
		}
		if all := entry.buffer.GetLatest(entry.buffer.Size()); len(all) > 0 {
			info.First = all[0].Timestamp
			info.Last = all[len(all)-1].Timestamp
		}
		out = append(out, info)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].Interval < out[j].Interval
	})
	return out
}

// Count returns the number of stored series.
func (s *SeriesStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}

// Delete drops a series and reports whether it existed.
func (s *SeriesStore) Delete(symbol, interval string) bool {
	s.mu.Lock()
	key := seriesKey(symbol, interval)
	_, ok := s.series[key]
	delete(s.series, key)
	listeners := s.listeners
	s.mu.Unlock()

	if ok {
		s.notify(listeners, symbol, interval, 0)
	}
	return ok
}

func splitKey(key string) (string, string) {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

// -----------------------------------------------------------------------------

func (s *SeriesStore) maybeCheckMemory() {
	s.mu.Lock()
	due := s.sinceCheck >= memoryCheckEvery
	if due {
		s.sinceCheck = 0
	}
	s.mu.Unlock()

	if due {
		s.CheckMemoryLimits()
	}
}

// CheckMemoryLimits halves every large buffer when the process is over its
// memory budget. A zero budget disables the check.
func (s *SeriesStore) CheckMemoryLimits() {
	if s.MaxMemoryMB <= 0 {
		return
	}
	current := s.memoryUsageMB()
	if current <= float64(s.MaxMemoryMB) {
		return
	}

	s.Logger.Warning("Memory usage %.1fMB exceeds limit %dMB. Shrinking buffers.", current, s.MaxMemoryMB)

	s.mu.Lock()
	for _, entry := range s.series {
		if entry.buffer.Capacity() > 2*minShrinkCapacity {
			newCap := entry.buffer.Capacity() / 2
			if newCap < minShrinkCapacity {
				newCap = minShrinkCapacity
			}
			entry.buffer.Resize(newCap)
		}
	}
	s.mu.Unlock()

	runtime.GC()
	debug.FreeOSMemory()
}

func processMemoryMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / 1024 / 1024
}
