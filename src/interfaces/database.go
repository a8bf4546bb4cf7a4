package interfaces

import (
	"time"

	"candle-chart/src/models"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for candle persistence.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveCandles upserts candles for one symbol and interval.
	SaveCandles(symbol, interval string, candles []models.MCandle) error

	// -----------------------------------------------------------------------------

	// ReplaceSeries deletes the stored candles of the series and writes
	// series.Candles in one transaction.
	ReplaceSeries(series models.MSeries) error

	// -----------------------------------------------------------------------------

	// LoadSeries returns candles at or after since, oldest first, capped at
	// limit newest rows when limit > 0.
	LoadSeries(symbol, interval string, since time.Time, limit int) (models.MSeries, error)

	// -----------------------------------------------------------------------------

	// ListSeries returns the stored symbol/interval pairs.
	ListSeries() ([]models.MSeriesInfo, error)

	// -----------------------------------------------------------------------------

	// DeleteSeries removes every candle of a series.
	DeleteSeries(symbol, interval string) error

	// -----------------------------------------------------------------------------

	// CleanupOldData removes candles older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
