package storage

import (
	"path/filepath"
	"testing"
	"time"

	"candle-chart/src/helpers"
	"candle-chart/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, retentionDays int) *SQLiteDB {
	t.Helper()
	cfg := &models.MConfig{
		Storage:    models.MStorageConfig{DBType: "sqlite", DBPath: filepath.Join(t.TempDir(), "nested", "candles.db")},
		DataSource: models.MDataSourceConfig{DataRetentionDays: retentionDays},
	}
	db, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return db.(*SQLiteDB)
}

func dayCandles(start time.Time, n int) []models.MCandle {
	out := make([]models.MCandle, n)
	for i := range out {
		p := float64(10 + i)
		out[i] = models.MCandle{
			Timestamp: start.AddDate(0, 0, i),
			Open:      p,
			High:      p + 1,
			Low:       p - 1,
			Close:     p + 0.5,
			Volume:    float64(100 * i),
			HasVolume: i%2 == 0,
		}
	}
	return out
}

func TestSQLite_SaveAndLoad(t *testing.T) {
	db := newTestDB(t, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := dayCandles(start, 5)

	require.NoError(t, db.SaveCandles("AAPL", "1d", candles))
	// Upsert on the same key replaces the row.
	updated := candles[4]
	updated.Close = 99
	require.NoError(t, db.SaveCandles("AAPL", "1d", []models.MCandle{updated}))

	series, err := db.LoadSeries("AAPL", "1d", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, series.Candles, 5)
	assert.Equal(t, candles[0], series.Candles[0])
	assert.Equal(t, 99.0, series.Candles[4].Close)
	assert.False(t, series.Candles[1].HasVolume)

	tail, err := db.LoadSeries("AAPL", "1d", time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, tail.Candles, 2)
	assert.Equal(t, candles[3].Timestamp, tail.Candles[0].Timestamp)

	since, err := db.LoadSeries("AAPL", "1d", start.AddDate(0, 0, 3), 0)
	require.NoError(t, err)
	assert.Len(t, since.Candles, 2)
}

func TestSQLite_ReplaceListDelete(t *testing.T) {
	db := newTestDB(t, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.SaveCandles("MSFT", "1d", dayCandles(start, 3)))
	require.NoError(t, db.SaveCandles("AAPL", "5m", dayCandles(start, 2)))
	require.NoError(t, db.ReplaceSeries(models.MSeries{Symbol: "MSFT", Interval: "1d", Candles: dayCandles(start.AddDate(0, 1, 0), 1)}))

	list, err := db.ListSeries()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AAPL", list[0].Symbol)
	assert.Equal(t, 1, list[1].Count)
	assert.Equal(t, start.AddDate(0, 1, 0), list[1].First)

	require.NoError(t, db.DeleteSeries("AAPL", "5m"))
	list, err = db.ListSeries()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLite_CleanupOldData(t *testing.T) {
	db := newTestDB(t, 7)
	old := time.Now().UTC().AddDate(0, 0, -30).Truncate(time.Second)
	recent := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	require.NoError(t, db.SaveCandles("SPY", "1h", []models.MCandle{
		{Timestamp: old, Open: 1, High: 1, Low: 1, Close: 1},
		{Timestamp: recent, Open: 2, High: 2, Low: 2, Close: 2},
	}))
	require.NoError(t, db.CleanupOldData())

	series, err := db.LoadSeries("SPY", "1h", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, series.Candles, 1)
	assert.Equal(t, recent, series.Candles[0].Timestamp)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.db")
	cfg := &models.MConfig{Storage: models.MStorageConfig{DBType: "sqlite", DBPath: path}}

	first := NewSQLiteDB(cfg, nil)
	require.NoError(t, first.Initialize())
	require.NoError(t, first.SaveCandles("AAPL", "1d", dayCandles(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2)))
	require.NoError(t, first.Close())

	second := NewSQLiteDB(cfg, nil)
	require.NoError(t, second.Initialize())
	defer second.Close()
	list, err := second.ListSeries()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Count)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(&models.MConfig{Storage: models.MStorageConfig{DBType: "mongo"}}, nil)
	var cfgErr *helpers.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
