package storage

import (
	"os"
	"testing"
	"time"

	"candle-chart/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "candle_chart", SchemaName("Candle-Chart"))
	assert.Equal(t, "candle_chart", SchemaName("--"))
	assert.Equal(t, "svc_2", SchemaName("svc 2"))
}

func TestParseSymbolRef(t *testing.T) {
	ref, ok := ParseSymbolRef("public.watchlist.ticker")
	require.True(t, ok)
	assert.Equal(t, SymbolRef{Schema: "public", Table: "watchlist", Column: "ticker"}, ref)
	assert.Equal(t, "public.watchlist.ticker", ref.String())

	for _, plain := range []string{"AAPL", "VOD.L", "BTC-USD", "a.b.c-d"} {
		_, ok := ParseSymbolRef(plain)
		assert.False(t, ok, plain)
	}
}

func TestPostgresQueries(t *testing.T) {
	db, err := NewPostgresDB(&models.MConfig{Name: "candle-chart"}, nil)
	require.NoError(t, err)
	assert.Equal(t, `"candle_chart"."candles"`, db.table)
	assert.Contains(t, db.upsertQuery(), "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)")
}

// Runs against a live server when CANDLE_CHART_PG_DSN is set.
func TestPostgres_Integration(t *testing.T) {
	dsn := os.Getenv("CANDLE_CHART_PG_DSN")
	if dsn == "" {
		t.Skip("CANDLE_CHART_PG_DSN not set")
	}

	cfg := &models.MConfig{
		Name:    "candle_chart_test",
		Storage: models.MStorageConfig{DBType: "postgres", DBConnectionString: dsn},
	}
	db, err := NewPostgresDB(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	defer db.Close()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.ReplaceSeries(models.MSeries{Symbol: "IT", Interval: "1d", Candles: dayCandles(start, 3)}))
	series, err := db.LoadSeries("IT", "1d", time.Time{}, 0)
	require.NoError(t, err)
	assert.Len(t, series.Candles, 3)
	require.NoError(t, db.DeleteSeries("IT", "1d"))
}
