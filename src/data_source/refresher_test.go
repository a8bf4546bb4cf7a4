package datasource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"candle-chart/src/helpers"
	"candle-chart/src/models"
	"candle-chart/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name   string
	mu     sync.Mutex
	calls  []string
	fail   map[string]bool
	series map[string][]models.MCandle
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchSeries(ctx context.Context, symbol, interval, rangeSpec string) (models.MSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	if f.fail[symbol] {
		return models.MSeries{}, helpers.WrapDataSourceError(errors.New("boom"), "fetch %s", symbol)
	}
	return models.MSeries{Symbol: symbol, Interval: interval, Candles: f.series[symbol]}, nil
}

func (f *fakeSource) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type memoryDB struct {
	mu       sync.Mutex
	saved    map[string][]models.MCandle
	stored   []models.MSeries
	cleanups int
}

func (m *memoryDB) Initialize() error { return nil }

func (m *memoryDB) SaveCandles(symbol, interval string, candles []models.MCandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string][]models.MCandle)
	}
	m.saved[symbol+"|"+interval] = append(m.saved[symbol+"|"+interval], candles...)
	return nil
}

func (m *memoryDB) ReplaceSeries(series models.MSeries) error { return nil }

func (m *memoryDB) LoadSeries(symbol, interval string, since time.Time, limit int) (models.MSeries, error) {
	for _, s := range m.stored {
		if s.Symbol == symbol && s.Interval == interval {
			return s, nil
		}
	}
	return models.MSeries{}, helpers.NewNotFoundError("%s/%s", symbol, interval)
}

func (m *memoryDB) ListSeries() ([]models.MSeriesInfo, error) {
	var out []models.MSeriesInfo
	for _, s := range m.stored {
		out = append(out, models.MSeriesInfo{Symbol: s.Symbol, Interval: s.Interval, Count: len(s.Candles)})
	}
	return out, nil
}

func (m *memoryDB) DeleteSeries(symbol, interval string) error { return nil }

func (m *memoryDB) CleanupOldData() error {
	m.mu.Lock()
	m.cleanups++
	m.mu.Unlock()
	return nil
}

func (m *memoryDB) Close() error { return nil }

// -----------------------------------------------------------------------------

var base = time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

func candles(n int) []models.MCandle {
	out := make([]models.MCandle, n)
	for i := range out {
		p := 100 + float64(i)
		out[i] = models.MCandle{Timestamp: base.Add(time.Duration(i) * 5 * time.Minute), Open: p, High: p + 1, Low: p - 1, Close: p + 0.5}
	}
	return out
}

func newTestRefresher(t *testing.T, src *fakeSource, symbols ...string) (*Refresher, *memoryDB) {
	t.Helper()
	cfg := &models.MConfig{
		Network:    models.MNetworkConfig{ConcurrentRequests: 2},
		DataSource: models.MDataSourceConfig{UpdateIntervalSeconds: 60, DataRetentionDays: 0},
	}
	db := &memoryDB{}
	r := NewRefresher(cfg, utils.NewSeriesStore(100, 0), db, nil)
	require.NoError(t, r.AddSource(src, models.MSourceConfig{Name: src.name, Symbols: symbols, Interval: "5m", Range: "1d"}))
	return r, db
}

// -----------------------------------------------------------------------------

func TestRefreshAllMergesAndSaves(t *testing.T) {
	src := &fakeSource{name: "fake", series: map[string][]models.MCandle{"AAPL": candles(3), "MSFT": candles(2)}}
	r, db := newTestRefresher(t, src, "AAPL", "MSFT")

	n, err := r.RefreshAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	snap, ok := r.Store.Snapshot("AAPL", "5m")
	require.True(t, ok)
	assert.Len(t, snap.Candles, 3)
	assert.Len(t, db.saved["MSFT|5m"], 2)
	assert.False(t, r.LastRun().IsZero())
}

func TestRefreshAllNotifiesStoreListeners(t *testing.T) {
	src := &fakeSource{name: "fake", series: map[string][]models.MCandle{"AAPL": candles(2)}}
	r, _ := newTestRefresher(t, src, "AAPL")

	var got []string
	r.Store.OnChange(func(symbol, interval string, version uint64) {
		got = append(got, symbol+"|"+interval)
	})

	_, err := r.RefreshAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL|5m"}, got)
}

func TestRefreshAllSkipsClosedMarkets(t *testing.T) {
	src := &fakeSource{name: "fake", series: map[string][]models.MCandle{"AAPL": candles(1), "BTC-USD": candles(1)}}
	r, _ := newTestRefresher(t, src, "AAPL", "BTC-USD")
	saturday := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	r.Scheduler.Now = func() time.Time { return saturday }

	_, err := r.RefreshAll(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC-USD"}, src.called())
}

func TestRefreshAllPartialFailure(t *testing.T) {
	src := &fakeSource{
		name:   "fake",
		fail:   map[string]bool{"MSFT": true},
		series: map[string][]models.MCandle{"AAPL": candles(2)},
	}
	r, _ := newTestRefresher(t, src, "AAPL", "MSFT")

	n, err := r.RefreshAll(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRefreshAllTotalFailure(t *testing.T) {
	src := &fakeSource{name: "fake", fail: map[string]bool{"AAPL": true}}
	r, _ := newTestRefresher(t, src, "AAPL")

	_, err := r.RefreshAll(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 1 fetches failed")
}

func TestRefreshSymbolFallsBackToFirstSource(t *testing.T) {
	src := &fakeSource{name: "fake", series: map[string][]models.MCandle{"TSLA": candles(4)}}
	r, _ := newTestRefresher(t, src, "AAPL")

	n, err := r.RefreshSymbol(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"TSLA"}, src.called())
}

func TestRefreshSymbolWithoutSources(t *testing.T) {
	r := NewRefresher(&models.MConfig{}, utils.NewSeriesStore(10, 0), nil, nil)
	_, err := r.RefreshSymbol(context.Background(), "AAPL")
	assert.True(t, helpers.IsNotFound(err))
}

func TestAddSourceRejectsDuplicates(t *testing.T) {
	src := &fakeSource{name: "fake"}
	r, _ := newTestRefresher(t, src, "AAPL")
	assert.Error(t, r.AddSource(src, models.MSourceConfig{}))
	assert.Equal(t, []string{"fake"}, r.SourceNames())
	assert.Equal(t, []string{"AAPL"}, r.Symbols())
}

func TestRestoreLoadsStoredSeries(t *testing.T) {
	src := &fakeSource{name: "fake"}
	r, db := newTestRefresher(t, src, "AAPL")
	db.stored = []models.MSeries{{Symbol: "AAPL", Interval: "5m", Candles: candles(3)}}

	n, err := r.Restore()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	snap, ok := r.Store.Snapshot("AAPL", "5m")
	require.True(t, ok)
	assert.Len(t, snap.Candles, 3)
}

func TestRunLoadsImmediatelyAndStopsOnCancel(t *testing.T) {
	src := &fakeSource{name: "fake", series: map[string][]models.MCandle{"AAPL": candles(1)}}
	r, db := newTestRefresher(t, src, "AAPL")
	r.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return len(src.called()) == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
	db.mu.Lock()
	assert.Equal(t, 1, db.cleanups)
	db.mu.Unlock()
}

func TestTrackAddsSymbolOnce(t *testing.T) {
	src := &fakeSource{name: "fake", series: map[string][]models.MCandle{"TSLA": candles(1)}}
	r, _ := newTestRefresher(t, src, "AAPL")

	name, added := r.Track("TSLA")
	assert.Equal(t, "fake", name)
	assert.True(t, added)

	_, added = r.Track("TSLA")
	assert.False(t, added)
	assert.Equal(t, []string{"AAPL", "TSLA"}, r.Symbols())

	_, err := r.RefreshAll(context.Background(), false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"AAPL", "TSLA"}, src.called())
}

func TestTrackDuringRefreshAll(t *testing.T) {
	src := &fakeSource{name: "fake", series: map[string][]models.MCandle{"AAPL": candles(2)}}
	r, _ := newTestRefresher(t, src, "AAPL")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			r.Track(fmt.Sprintf("S%d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_, err := r.RefreshAll(context.Background(), false)
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	assert.Len(t, r.Symbols(), 51)
}
